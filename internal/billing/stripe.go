// Package billing checks checkout sessions with the billing provider when a
// contractor is redirected back from a hosted checkout page.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
)

var ErrMissingSession = errors.New("missing checkout session id")

type retrieveFunc func(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)

// Stripe only reads checkout sessions. Sessions are created by the
// marketplace backend.
type Stripe struct {
	retrieve retrieveFunc
}

func NewStripe(secretKey string) *Stripe {
	sc := stripe.NewClient(secretKey)
	return &Stripe{
		retrieve: func(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
			return sc.V1CheckoutSessions.Retrieve(ctx, sessionID, &stripe.CheckoutSessionRetrieveParams{})
		},
	}
}

// Paid reports whether the checkout session has been paid for. An unpaid or
// still open session is not an error.
func (s *Stripe) Paid(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, ErrMissingSession
	}

	session, err := s.retrieve(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}

	switch session.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return session.Status == stripe.CheckoutSessionStatusComplete, nil
	default:
		return false, nil
	}
}
