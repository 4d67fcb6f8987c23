package types

import "time"

type BidStatus string

const (
	BidStatusDraft     BidStatus = "draft"
	BidStatusSubmitted BidStatus = "submitted"

	// Driven by the backend only, reachable from submitted.
	BidStatusPending   BidStatus = "pending"
	BidStatusSelected  BidStatus = "selected"
	BidStatusConfirmed BidStatus = "confirmed"
	BidStatusDeclined  BidStatus = "declined"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidStatusDraft, BidStatusSubmitted, BidStatusPending,
		BidStatusSelected, BidStatusConfirmed, BidStatusDeclined:
		return true
	default:
		return false
	}
}

type Bid struct {
	ID               string    `json:"id"`
	JobID            string    `json:"job_id"`
	ContractorID     string    `json:"contractor_id"`
	Status           BidStatus `json:"status"`
	Title            string    `json:"title"`
	PriceMin         string    `json:"price_min"`
	PriceMax         string    `json:"price_max"`
	TimelineEstimate string    `json:"timeline_estimate"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type BidFields struct {
	Title            *string `json:"title,omitempty" form:"title"`
	PriceMin         *string `json:"price_min,omitempty" form:"price_min"`
	PriceMax         *string `json:"price_max,omitempty" form:"price_max"`
	TimelineEstimate *string `json:"timeline_estimate,omitempty" form:"timeline_estimate"`
}

// SubmitOutcome is the discriminant the backend returns on bid submission.
type SubmitOutcome string

const (
	SubmitOutcomeSubmitted       SubmitOutcome = "submitted"
	SubmitOutcomePaymentRequired SubmitOutcome = "draft_payment_required"
)

// SubmitResult is a successful submission. When Status is
// SubmitOutcomePaymentRequired the bid was saved as a draft and needs a
// credit or a direct payment before it can be submitted again.
type SubmitResult struct {
	Status SubmitOutcome `json:"status"`
	Bid    *Bid          `json:"bid"`
}

func (r *SubmitResult) PaymentRequired() bool {
	return r.Status == SubmitOutcomePaymentRequired
}
