package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

func TestPaid(t *testing.T) {
	sessions := map[string]*stripe.CheckoutSession{
		"cs_paid": {
			Status:        stripe.CheckoutSessionStatusComplete,
			PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		},
		"cs_open": {
			Status:        stripe.CheckoutSessionStatusOpen,
			PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		},
	}
	s := &Stripe{retrieve: func(_ context.Context, id string) (*stripe.CheckoutSession, error) {
		session, ok := sessions[id]
		if !ok {
			return nil, errors.New("no such checkout session")
		}
		return session, nil
	}}

	paid, err := s.Paid(context.Background(), "cs_paid")
	require.NoError(t, err)
	require.True(t, paid)

	paid, err = s.Paid(context.Background(), "cs_open")
	require.NoError(t, err)
	require.False(t, paid)

	_, err = s.Paid(context.Background(), "cs_missing")
	require.Error(t, err)

	_, err = s.Paid(context.Background(), "  ")
	require.ErrorIs(t, err, ErrMissingSession)
}
