// Package controller sequences backend calls for the job and bid lifecycles.
// Every operation takes the caller's session explicitly, checks what it can
// locally (auth, required fields, status) before touching the network, and
// declares the read models it makes stale.
package controller

import (
	"context"

	"homebid/internal/metrics"
	"homebid/internal/readcache"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

type JobBackend interface {
	CreateJobDraft(ctx context.Context, token string, fields *types.JobFields) (*types.Job, error)
	CreateJob(ctx context.Context, token string, fields *types.JobFields) (*types.Job, error)
	UpdateJob(ctx context.Context, token, jobID string, fields *types.JobFields, publish bool) (*types.Job, error)
	CloseJob(ctx context.Context, token, jobID string) (*types.Job, error)
	DeleteJob(ctx context.Context, token, jobID string) error
	Job(ctx context.Context, token, jobID string) (*types.Job, error)
	JobsByBuyer(ctx context.Context, token, buyerID string) ([]*types.Job, error)
	BidsByJob(ctx context.Context, token, jobID string) ([]*types.Bid, error)
}

type BidBackend interface {
	CreateBidDraft(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.Bid, error)
	SubmitBid(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.SubmitResult, error)
	UpdateBid(ctx context.Context, token, bidID string, fields *types.BidFields) (*types.Bid, error)
	SubmitBidDraft(ctx context.Context, token, bidID string, fields *types.BidFields) (*types.SubmitResult, error)
	DeleteBid(ctx context.Context, token, bidID string) error
	Bid(ctx context.Context, token, bidID string) (*types.Bid, error)
	BidsByContractor(ctx context.Context, token, contractorID string) ([]*types.Bid, error)
	CreateDraftBidPayment(ctx context.Context, token, draftBidID, returnURL string) (*types.Checkout, error)
}

type CreditBackend interface {
	CreditBalance(ctx context.Context, token string) (*types.CreditBalance, error)
	CreateCreditCheckout(ctx context.Context, token, pack, returnURL string) (*types.Checkout, error)
}

type Backend interface {
	JobBackend
	BidBackend
	CreditBackend
}

type Controllers struct {
	Jobs    *JobController
	Bids    *BidController
	Credits *CreditController
}

func New(backend Backend, cache *readcache.Cache, bus *readcache.Bus, logger *logrus.Logger, m *metrics.Lifecycle) *Controllers {
	return &Controllers{
		Jobs:    NewJobController(backend, cache, bus, logger, m),
		Bids:    NewBidController(backend, cache, bus, logger, m),
		Credits: NewCreditController(backend, cache, bus, logger),
	}
}

func requireSession(s types.Session) error {
	if !s.Authenticated() {
		return types.ErrAuthRequired
	}
	return nil
}
