package controller

import (
	"context"
	"testing"

	"homebid/internal/readcache"
	"homebid/internal/utils"
	"homebid/pkg/types"

	"github.com/stretchr/testify/require"
)

func openJob(t *testing.T, h *harness) *types.Job {
	t.Helper()
	job, err := h.Jobs.CreateAndPublish(context.Background(), buyer, completeJob())
	require.NoError(t, err)
	return job
}

func TestSubmitValidationMakesNoCalls(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := map[string]*types.BidFields{
		"nil":       nil,
		"no title":  {PriceMin: utils.StringPtr("1"), PriceMax: utils.StringPtr("2"), TimelineEstimate: utils.StringPtr("1 day")},
		"blank max": {Title: utils.StringPtr("t"), PriceMin: utils.StringPtr("1"), PriceMax: utils.StringPtr(" "), TimelineEstimate: utils.StringPtr("1 day")},
		"inverted":  {Title: utils.StringPtr("t"), PriceMin: utils.StringPtr("$900"), PriceMax: utils.StringPtr("$100"), TimelineEstimate: utils.StringPtr("1 day")},
	}

	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.Bids.SubmitNew(ctx, contractor, "job-1", fields)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)

			_, err = h.Bids.SubmitFromDraft(ctx, contractor, "bid-1", fields)
			require.ErrorAs(t, err, &verr)
		})
	}

	require.Zero(t, h.backend.TotalCalls())
}

func TestSubmitNewWithoutCreditSavesDraft(t *testing.T) {
	h := newHarness(t)
	job := openJob(t, h)

	res, err := h.Bids.SubmitNew(context.Background(), contractor, job.ID, completeBid())
	require.NoError(t, err)
	require.True(t, res.PaymentRequired())
	require.Equal(t, types.SubmitOutcomePaymentRequired, res.Status)
	require.Equal(t, types.BidStatusDraft, res.Bid.Status)
	require.Equal(t, "Replace trap and seals", res.Bid.Title)

	stored, ok := h.backend.StoredBid(res.Bid.ID)
	require.True(t, ok)
	require.Equal(t, types.BidStatusDraft, stored.Status)
}

func TestSubmitNewWithCreditSubmits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)
	h.backend.Grant(contractor.UserID, 2)

	balance, err := h.Credits.Balance(ctx, contractor)
	require.NoError(t, err)
	require.Equal(t, 2, balance.Balance)

	res, err := h.Bids.SubmitNew(ctx, contractor, job.ID, completeBid())
	require.NoError(t, err)
	require.False(t, res.PaymentRequired())
	require.Equal(t, types.BidStatusSubmitted, res.Bid.Status)

	// The balance is re-read, never decremented locally.
	require.False(t, h.cache.Has(readcache.Credits(contractor.UserID)))
	require.False(t, h.cache.Has(readcache.JobDetail(job.ID)))
	balance, err = h.Credits.Balance(ctx, contractor)
	require.NoError(t, err)
	require.Equal(t, 1, balance.Balance)
	require.Equal(t, 2, h.backend.Calls("CreditBalance"))
}

func TestPaymentRequiredThenPayAndResubmit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)

	fields := &types.BidFields{
		Title:            utils.StringPtr("Bid A"),
		PriceMin:         utils.StringPtr("500"),
		PriceMax:         utils.StringPtr("800"),
		TimelineEstimate: utils.StringPtr("3 days"),
	}

	res, err := h.Bids.SubmitNew(ctx, contractor, job.ID, fields)
	require.NoError(t, err)
	require.Equal(t, types.SubmitOutcomePaymentRequired, res.Status)
	require.Equal(t, types.BidStatusDraft, res.Bid.Status)

	checkout, err := h.Bids.InitiateSingleBidPayment(ctx, contractor, res.Bid.ID, "https://app.example.test/return")
	require.NoError(t, err)
	require.NotEmpty(t, checkout.CheckoutURL)

	// Paying does not submit anything by itself.
	stored, _ := h.backend.StoredBid(res.Bid.ID)
	require.Equal(t, types.BidStatusDraft, stored.Status)

	h.backend.Grant(contractor.UserID, 1)

	res, err = h.Bids.SubmitFromDraft(ctx, contractor, res.Bid.ID, fields)
	require.NoError(t, err)
	require.Equal(t, types.SubmitOutcomeSubmitted, res.Status)
	require.Equal(t, types.BidStatusSubmitted, res.Bid.Status)
}

func TestSubmitRejectedForJobNotTakingBids(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.Grant(contractor.UserID, 1)

	h.cache.PutJob(&types.Job{ID: "job-closed", Status: types.JobStatusClosed})
	h.cache.PutJob(&types.Job{ID: "job-full", Status: types.JobStatusOpen, BidCount: types.MaxBidSelections})

	for _, jobID := range []string{"job-closed", "job-full"} {
		_, err := h.Bids.SubmitNew(ctx, contractor, jobID, completeBid())
		var serr *types.InvalidStateError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, "job", serr.Entity)
	}
	require.Zero(t, h.backend.TotalCalls())
}

func TestBidStatusGates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)

	draft, err := h.Bids.CreateDraft(ctx, contractor, job.ID, &types.BidFields{Title: utils.StringPtr("Draft")})
	require.NoError(t, err)
	require.Equal(t, types.BidStatusDraft, draft.Status)

	var serr *types.InvalidStateError

	_, err = h.Bids.UpdateSubmitted(ctx, contractor, draft.ID, &types.BidFields{Title: utils.StringPtr("x")})
	require.ErrorAs(t, err, &serr)

	updated, err := h.Bids.UpdateDraft(ctx, contractor, draft.ID, &types.BidFields{TimelineEstimate: utils.StringPtr("1 week")})
	require.NoError(t, err)
	require.Equal(t, types.BidStatusDraft, updated.Status)
	require.Equal(t, "1 week", updated.TimelineEstimate)

	h.backend.Grant(contractor.UserID, 1)
	res, err := h.Bids.SubmitFromDraft(ctx, contractor, draft.ID, completeBid())
	require.NoError(t, err)
	require.Equal(t, types.BidStatusSubmitted, res.Bid.Status)

	before := h.backend.TotalCalls()

	_, err = h.Bids.UpdateDraft(ctx, contractor, draft.ID, &types.BidFields{Title: utils.StringPtr("x")})
	require.ErrorAs(t, err, &serr)
	_, err = h.Bids.SubmitFromDraft(ctx, contractor, draft.ID, completeBid())
	require.ErrorAs(t, err, &serr)
	require.ErrorAs(t, h.Bids.DeleteDraft(ctx, contractor, draft.ID), &serr)
	_, err = h.Bids.InitiateSingleBidPayment(ctx, contractor, draft.ID, "https://app.example.test/return")
	require.ErrorAs(t, err, &serr)

	require.Equal(t, before, h.backend.TotalCalls())

	updated, err = h.Bids.UpdateSubmitted(ctx, contractor, draft.ID, &types.BidFields{PriceMax: utils.StringPtr("$300")})
	require.NoError(t, err)
	require.Equal(t, types.BidStatusSubmitted, updated.Status)
	require.Equal(t, "$300", updated.PriceMax)
}

func TestDeleteDraftBid(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)

	draft, err := h.Bids.CreateDraft(ctx, contractor, job.ID, nil)
	require.NoError(t, err)

	bids, err := h.Bids.Bids(ctx, contractor)
	require.NoError(t, err)
	require.Len(t, bids, 1)

	require.NoError(t, h.Bids.DeleteDraft(ctx, contractor, draft.ID))
	require.False(t, h.cache.Has(readcache.BidDetail(draft.ID)))
	require.False(t, h.cache.Has(readcache.BidList(contractor.UserID)))

	bids, err = h.Bids.Bids(ctx, contractor)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestMalformedSubmitResponse(t *testing.T) {
	h := newHarness(t)
	job := openJob(t, h)

	h.backend.SubmitBidFunc = func(context.Context, string, string, *types.BidFields) (*types.SubmitResult, error) {
		return &types.SubmitResult{Status: "queued", Bid: &types.Bid{ID: "bid-x", Status: types.BidStatusDraft}}, nil
	}
	_, err := h.Bids.SubmitNew(context.Background(), contractor, job.ID, completeBid())
	require.ErrorIs(t, err, types.ErrMalformedResponse)

	h.backend.SubmitBidFunc = func(context.Context, string, string, *types.BidFields) (*types.SubmitResult, error) {
		return &types.SubmitResult{Status: types.SubmitOutcomeSubmitted}, nil
	}
	_, err = h.Bids.SubmitNew(context.Background(), contractor, job.ID, completeBid())
	require.ErrorIs(t, err, types.ErrMalformedResponse)
}

func TestPurchasePack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.Credits.Balance(ctx, contractor)
	require.NoError(t, err)
	require.True(t, h.cache.Has(readcache.Credits(contractor.UserID)))

	checkout, err := h.Credits.PurchasePack(ctx, contractor, "starter", "https://app.example.test/credits")
	require.NoError(t, err)
	require.Contains(t, checkout.CheckoutURL, "starter")

	h.backend.Grant(contractor.UserID, 5)
	h.Credits.PurchaseCompleted(contractor)
	require.False(t, h.cache.Has(readcache.Credits(contractor.UserID)))

	balance, err := h.Credits.Balance(ctx, contractor)
	require.NoError(t, err)
	require.Equal(t, 5, balance.Balance)
}

func TestCachedBidOnlyServesItsContractor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)

	draft, err := h.Bids.CreateDraft(ctx, contractor, job.ID, completeBid())
	require.NoError(t, err)

	bid, err := h.Bids.Bid(ctx, contractor, draft.ID)
	require.NoError(t, err)
	require.Equal(t, "$150", bid.PriceMin)
	require.Zero(t, h.backend.Calls("Bid"))

	var terr *types.TransportError

	_, err = h.Bids.Bid(ctx, rival, draft.ID)
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 403, terr.StatusCode)

	_, err = h.Bids.Bid(ctx, types.Session{Token: "unknown-token", UserID: "contractor-3"}, draft.ID)
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 401, terr.StatusCode)

	// A mutation by someone else is refused by the backend, not the local status gate.
	_, err = h.Bids.UpdateSubmitted(ctx, rival, draft.ID, &types.BidFields{Title: utils.StringPtr("x")})
	require.ErrorAs(t, err, &terr)
	require.Equal(t, 403, terr.StatusCode)
	require.Zero(t, h.backend.Calls("UpdateBid"))

	// The job's buyer may read it through the backend.
	bid, err = h.Bids.Bid(ctx, buyer, draft.ID)
	require.NoError(t, err)
	require.Equal(t, contractor.UserID, bid.ContractorID)
	require.Equal(t, 4, h.backend.Calls("Bid"))
}

func TestSubmitInvalidatesBuyerJobList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)
	h.backend.Grant(contractor.UserID, 1)

	jobs, err := h.Jobs.Jobs(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Zero(t, jobs[0].BidCount)

	res, err := h.Bids.SubmitNew(ctx, contractor, job.ID, completeBid())
	require.NoError(t, err)
	require.Equal(t, types.SubmitOutcomeSubmitted, res.Status)
	require.False(t, h.cache.Has(readcache.JobList(buyer.UserID)))

	jobs, err = h.Jobs.Jobs(ctx, buyer)
	require.NoError(t, err)
	require.Equal(t, 1, jobs[0].BidCount)
	require.Equal(t, 2, h.backend.Calls("JobsByBuyer"))
}

func TestUpdateSubmittedChecksMergedFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	job := openJob(t, h)
	h.backend.Grant(contractor.UserID, 1)

	res, err := h.Bids.SubmitNew(ctx, contractor, job.ID, completeBid())
	require.NoError(t, err)
	bidID := res.Bid.ID

	var verr *types.ValidationError

	_, err = h.Bids.UpdateSubmitted(ctx, contractor, bidID, &types.BidFields{Title: utils.StringPtr("")})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")

	_, err = h.Bids.UpdateSubmitted(ctx, contractor, bidID, &types.BidFields{PriceMin: utils.StringPtr("$900")})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "price_max")
	require.Zero(t, h.backend.Calls("UpdateBid"))

	stored, _ := h.backend.StoredBid(bidID)
	require.Equal(t, "Replace trap and seals", stored.Title)
	require.Equal(t, "$150", stored.PriceMin)

	updated, err := h.Bids.UpdateSubmitted(ctx, contractor, bidID, &types.BidFields{
		PriceMin: utils.StringPtr("$900"),
		PriceMax: utils.StringPtr("$1,200"),
	})
	require.NoError(t, err)
	require.Equal(t, "$900", updated.PriceMin)
	require.Equal(t, types.BidStatusSubmitted, updated.Status)
}
