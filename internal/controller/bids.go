package controller

import (
	"context"
	"fmt"

	"homebid/internal/lifecycle"
	"homebid/internal/metrics"
	"homebid/internal/readcache"
	"homebid/internal/validate"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

type BidController struct {
	backend BidBackend
	cache   *readcache.Cache
	bus     *readcache.Bus
	metrics *metrics.Lifecycle
	log     *logrus.Entry
}

func NewBidController(backend BidBackend, cache *readcache.Cache, bus *readcache.Bus, logger *logrus.Logger, m *metrics.Lifecycle) *BidController {
	return &BidController{
		backend: backend,
		cache:   cache,
		bus:     bus,
		metrics: m,
		log:     logger.WithField("component", "bid-lifecycle"),
	}
}

func nonNilBidFields(fields *types.BidFields) *types.BidFields {
	if fields == nil {
		return new(types.BidFields)
	}
	return fields
}

func (c *BidController) CreateDraft(ctx context.Context, s types.Session, jobID string, fields *types.BidFields) (bid *types.Bid, err error) {
	defer func() { c.metrics.Mutation("bid", "create_draft", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}

	bid, err = c.backend.CreateBidDraft(ctx, s.Token, jobID, nonNilBidFields(fields))
	if err != nil {
		return nil, err
	}

	c.observe(bid, "", "create draft", readcache.BidList(s.UserID), readcache.JobBids(jobID))
	return bid, nil
}

// SubmitNew creates and submits a bid in one call. A contractor without
// credit gets a successful result tagged draft_payment_required and the bid
// is kept as a draft.
func (c *BidController) SubmitNew(ctx context.Context, s types.Session, jobID string, fields *types.BidFields) (res *types.SubmitResult, err error) {
	defer func() { c.metrics.Mutation("bid", "submit", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	if err = validate.Error(validate.Bid(fields)); err != nil {
		return nil, err
	}
	if err = c.checkJobAcceptsBids(jobID); err != nil {
		return nil, err
	}

	res, err = c.backend.SubmitBid(ctx, s.Token, jobID, fields)
	if err != nil {
		return nil, err
	}

	return c.submitted(s, "", jobID, res)
}

func (c *BidController) UpdateDraft(ctx context.Context, s types.Session, bidID string, fields *types.BidFields) (bid *types.Bid, err error) {
	defer func() { c.metrics.Mutation("bid", "update_draft", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	return c.update(ctx, s, bidID, nonNilBidFields(fields), lifecycle.BidActionUpdateDraft, nil)
}

// SubmitFromDraft saves fields onto a draft and submits it, with the same
// validation and credit gate as SubmitNew. This is also how a draft is
// retried after the contractor paid for it.
func (c *BidController) SubmitFromDraft(ctx context.Context, s types.Session, bidID string, fields *types.BidFields) (res *types.SubmitResult, err error) {
	defer func() { c.metrics.Mutation("bid", "submit_draft", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	if err = validate.Error(validate.Bid(fields)); err != nil {
		return nil, err
	}

	current, err := c.current(ctx, s, bidID)
	if err != nil {
		return nil, err
	}
	if err = lifecycle.CheckBid(bidID, current.Status, lifecycle.BidActionSubmit); err != nil {
		return nil, err
	}
	if err = c.checkJobAcceptsBids(current.JobID); err != nil {
		return nil, err
	}

	res, err = c.backend.SubmitBidDraft(ctx, s.Token, bidID, fields)
	if err != nil {
		return nil, err
	}

	return c.submitted(s, current.Status, current.JobID, res)
}

func (c *BidController) UpdateSubmitted(ctx context.Context, s types.Session, bidID string, fields *types.BidFields) (bid *types.Bid, err error) {
	defer func() { c.metrics.Mutation("bid", "update_submitted", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	fields = nonNilBidFields(fields)
	return c.update(ctx, s, bidID, fields, lifecycle.BidActionUpdateSubmitted, func(current *types.Bid) error {
		return validate.Error(validate.SubmittedBidUpdate(fields, current))
	})
}

func (c *BidController) update(ctx context.Context, s types.Session, bidID string, fields *types.BidFields, action lifecycle.BidAction, check func(*types.Bid) error) (*types.Bid, error) {
	current, err := c.current(ctx, s, bidID)
	if err != nil {
		return nil, err
	}
	if err = lifecycle.CheckBid(bidID, current.Status, action); err != nil {
		return nil, err
	}
	if check != nil {
		if err = check(current); err != nil {
			return nil, err
		}
	}

	bid, err := c.backend.UpdateBid(ctx, s.Token, bidID, fields)
	if err != nil {
		return nil, err
	}

	c.observe(bid, current.Status, string(action),
		readcache.BidDetail(bidID), readcache.BidList(s.UserID), readcache.JobBids(current.JobID))
	return bid, nil
}

func (c *BidController) DeleteDraft(ctx context.Context, s types.Session, bidID string) (err error) {
	defer func() { c.metrics.Mutation("bid", "delete", err) }()

	if err = requireSession(s); err != nil {
		return err
	}

	current, err := c.current(ctx, s, bidID)
	if err != nil {
		return err
	}
	if err = lifecycle.CheckBid(bidID, current.Status, lifecycle.BidActionDelete); err != nil {
		return err
	}

	if err = c.backend.DeleteBid(ctx, s.Token, bidID); err != nil {
		return err
	}

	c.bus.Publish(readcache.Invalidation{
		Reason: "delete bid",
		Keys:   []readcache.Key{readcache.BidDetail(bidID), readcache.BidList(s.UserID), readcache.JobBids(current.JobID)},
	})
	c.log.WithField("bid_id", bidID).Debug("deleted draft bid")
	return nil
}

// InitiateSingleBidPayment opens a checkout that pays for one draft bid.
// Paying only clears the credit gate: the caller still has to call
// SubmitFromDraft once the contractor is back from checkout.
func (c *BidController) InitiateSingleBidPayment(ctx context.Context, s types.Session, draftBidID, returnURL string) (checkout *types.Checkout, err error) {
	defer func() { c.metrics.Mutation("bid", "initiate_payment", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}

	current, err := c.current(ctx, s, draftBidID)
	if err != nil {
		return nil, err
	}
	if current.Status != types.BidStatusDraft {
		return nil, &types.InvalidStateError{
			Entity: "bid",
			ID:     draftBidID,
			Status: string(current.Status),
			Action: "pay for",
		}
	}

	checkout, err = c.backend.CreateDraftBidPayment(ctx, s.Token, draftBidID, returnURL)
	if err != nil {
		return nil, err
	}
	if checkout.CheckoutURL == "" {
		return nil, fmt.Errorf("draft bid payment for %s: %w", draftBidID, types.ErrMalformedResponse)
	}

	c.log.WithField("bid_id", draftBidID).Info("started single bid payment")
	return checkout, nil
}

func (c *BidController) Bid(ctx context.Context, s types.Session, bidID string) (*types.Bid, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	return c.current(ctx, s, bidID)
}

// Bids lists the session contractor's bids.
func (c *BidController) Bids(ctx context.Context, s types.Session) ([]*types.Bid, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if bids, ok := c.cache.Bids(s.UserID); ok {
		return bids, nil
	}

	bids, err := c.backend.BidsByContractor(ctx, s.Token, s.UserID)
	if err != nil {
		return nil, err
	}
	c.cache.PutBids(s.UserID, bids)
	return bids, nil
}

// current returns the last known bid. Only the bid's contractor is answered
// from the cache.
func (c *BidController) current(ctx context.Context, s types.Session, bidID string) (*types.Bid, error) {
	if bid, ok := c.cache.Bid(bidID); ok && bid.ContractorID == s.UserID {
		return bid, nil
	}

	bid, err := c.backend.Bid(ctx, s.Token, bidID)
	if err != nil {
		return nil, err
	}
	c.cache.PutBid(bid)
	return bid, nil
}

// checkJobAcceptsBids fails fast only when the job is already known locally;
// otherwise the backend decides.
func (c *BidController) checkJobAcceptsBids(jobID string) error {
	job, ok := c.cache.Job(jobID)
	if !ok || job.AcceptsBids() {
		return nil
	}
	return &types.InvalidStateError{
		Entity: "job",
		ID:     jobID,
		Status: string(job.Status),
		Action: "bid on",
	}
}

func (c *BidController) submitted(s types.Session, previous types.BidStatus, jobID string, res *types.SubmitResult) (*types.SubmitResult, error) {
	if res == nil || res.Bid == nil {
		return nil, fmt.Errorf("bid submission: %w", types.ErrMalformedResponse)
	}
	if res.Status != types.SubmitOutcomeSubmitted && res.Status != types.SubmitOutcomePaymentRequired {
		return nil, fmt.Errorf("bid submission outcome %q: %w", res.Status, types.ErrMalformedResponse)
	}

	if jobID == "" {
		jobID = res.Bid.JobID
	}

	// Credits are only ever re-read after a submission, never decremented here.
	keys := []readcache.Key{
		readcache.BidDetail(res.Bid.ID), readcache.BidList(s.UserID),
		readcache.JobBids(jobID), readcache.JobDetail(jobID), readcache.Credits(s.UserID),
	}
	// The job's bid count, and possibly its status, moved too.
	if buyerID, ok := c.cache.JobOwner(jobID); ok {
		keys = append(keys, readcache.JobList(buyerID))
	}
	c.observe(res.Bid, previous, "submit", keys...)
	c.metrics.Submit(res.Status)

	if expected := lifecycle.SubmitOutcomeStatus(res.Status); res.Bid.Status != expected {
		c.log.WithFields(logrus.Fields{
			"bid_id":   res.Bid.ID,
			"outcome":  res.Status,
			"status":   res.Bid.Status,
			"expected": expected,
		}).Warn("bid status does not match submit outcome")
	}

	if res.PaymentRequired() {
		c.log.WithFields(logrus.Fields{
			"bid_id": res.Bid.ID,
			"job_id": jobID,
		}).Info("bid saved as draft, payment required")
	}

	return res, nil
}

func (c *BidController) observe(bid *types.Bid, previous types.BidStatus, reason string, keys ...readcache.Key) {
	c.bus.Publish(readcache.Invalidation{Reason: reason, Keys: keys})
	c.cache.PutBid(bid)

	entry := c.log.WithFields(logrus.Fields{
		"bid_id": bid.ID,
		"action": reason,
		"status": bid.Status,
	})
	if !lifecycle.ExpectedBidChange(previous, bid.Status) {
		entry.WithField("previous", previous).Warn("backend reported unexpected bid status")
		return
	}
	entry.Debug("bid saved")
}
