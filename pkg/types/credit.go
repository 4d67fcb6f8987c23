package types

import "time"

type CreditBalance struct {
	ContractorID string `json:"contractor_id"`
	Balance      int    `json:"balance"`
}

type Checkout struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId,omitempty"`
}

// PendingBidPayment remembers what to resubmit once the contractor returns
// from the billing provider's checkout page.
type PendingBidPayment struct {
	ID                string
	BidID             string
	ContractorID      string
	CheckoutSessionID string
	Fields            BidFields
	CreatedAt         time.Time
	CompletedAt       *time.Time
}
