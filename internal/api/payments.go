package api

import (
	"context"

	"homebid/pkg/types"

	"github.com/go-resty/resty/v2"
)

type draftBidPaymentRequest struct {
	DraftBidID string `json:"draft_bid_id"`
	ReturnURL  string `json:"return_url,omitempty"`
}

type creditCheckoutRequest struct {
	Pack      string `json:"pack"`
	ReturnURL string `json:"return_url,omitempty"`
}

// CreateDraftBidPayment opens a billing checkout that pays for one draft bid.
func (c *Client) CreateDraftBidPayment(ctx context.Context, token, draftBidID, returnURL string) (*types.Checkout, error) {
	out := new(types.Checkout)
	body := &draftBidPaymentRequest{DraftBidID: draftBidID, ReturnURL: returnURL}
	err := c.send(ctx, token, resty.MethodPost, "/payments/create-draft-bid-payment", nil, nil, body, out)
	if err != nil {
		return nil, bidNotFound(err)
	}
	return out, nil
}

func (c *Client) CreateCreditCheckout(ctx context.Context, token, pack, returnURL string) (*types.Checkout, error) {
	out := new(types.Checkout)
	body := &creditCheckoutRequest{Pack: pack, ReturnURL: returnURL}
	err := c.send(ctx, token, resty.MethodPost, "/payments/create-credit-checkout", nil, nil, body, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreditBalance(ctx context.Context, token string) (*types.CreditBalance, error) {
	out := new(types.CreditBalance)
	err := c.get(ctx, token, "/credits/balance", nil, nil, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
