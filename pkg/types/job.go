package types

import "time"

type JobStatus string

const (
	JobStatusDraft               JobStatus = "draft"
	JobStatusOpen                JobStatus = "open"
	JobStatusFullBid             JobStatus = "full_bid"
	JobStatusWaitingConfirmation JobStatus = "waiting_confirmation"
	JobStatusConfirmed           JobStatus = "confirmed"
	JobStatusClosed              JobStatus = "closed"
)

func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusDraft, JobStatusOpen, JobStatusFullBid,
		JobStatusWaitingConfirmation, JobStatusConfirmed, JobStatusClosed:
		return true
	default:
		return false
	}
}

const (
	// MaxBidSelections is the number of bids after which a job is full_bid.
	MaxBidSelections = 5
	MaxJobImages     = 6
)

var JobTypes = []string{
	"Plumbing",
	"Electrical",
	"HVAC",
	"Roofing",
	"Carpentry",
	"Painting",
	"Flooring",
	"Landscaping",
	"Renovation",
	"General Repair",
	"Other",
}

func ValidJobType(jobType string) bool {
	for _, t := range JobTypes {
		if t == jobType {
			return true
		}
	}
	return false
}

type Job struct {
	ID                string    `json:"id"`
	BuyerID           string    `json:"buyer_id"`
	Status            JobStatus `json:"status"`
	Title             string    `json:"title"`
	JobType           string    `json:"job_type"`
	JobBudget         string    `json:"job_budget"`
	Description       string    `json:"description"`
	LocationAddress   string    `json:"location_address"`
	City              string    `json:"city"`
	OtherRequirements string    `json:"other_requirements,omitempty"`
	Images            []string  `json:"images"`
	BidCount          int       `json:"bid_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AcceptsBids reports whether the job, as last seen, can take another bid.
func (j *Job) AcceptsBids() bool {
	return j.Status == JobStatusOpen && j.BidCount < MaxBidSelections
}

// JobFields carries job content. Nil pointers are left out of the request,
// which is how partial draft saves are expressed.
type JobFields struct {
	Title             *string  `json:"title,omitempty" form:"title"`
	JobType           *string  `json:"job_type,omitempty" form:"job_type"`
	JobBudget         *string  `json:"job_budget,omitempty" form:"job_budget"`
	Description       *string  `json:"description,omitempty" form:"description"`
	LocationAddress   *string  `json:"location_address,omitempty" form:"location_address"`
	City              *string  `json:"city,omitempty" form:"city"`
	OtherRequirements *string  `json:"other_requirements,omitempty" form:"other_requirements"`
	Images            []string `json:"images,omitempty" form:"images"`
}
