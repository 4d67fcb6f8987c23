// Package controllertest provides an in-memory marketplace backend that
// satisfies the controller backend interfaces.
package controllertest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"homebid/pkg/types"
)

// Backend is an in-memory marketplace backend for tests. It keeps just enough
// state to play the server's side of the job and bid lifecycles and counts
// every call by method name.
type Backend struct {
	mu      sync.Mutex
	calls   map[string]int
	users   map[string]string
	jobs    map[string]*types.Job
	bids    map[string]*types.Bid
	credits map[string]int
	seq     int

	returnURL string

	// Optional overrides, checked before the in-memory behavior.
	SubmitBidFunc func(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.SubmitResult, error)
	UpdateJobFunc func(ctx context.Context, token, jobID string, fields *types.JobFields, publish bool) (*types.Job, error)
}

func NewBackend() *Backend {
	return &Backend{
		calls:   make(map[string]int),
		users:   make(map[string]string),
		jobs:    make(map[string]*types.Job),
		bids:    make(map[string]*types.Bid),
		credits: make(map[string]int),
	}
}

// AddUser maps a bearer token to the user it authenticates.
func (f *Backend) AddUser(token, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[token] = userID
}

func (f *Backend) count(name string) {
	f.calls[name]++
}

func (f *Backend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *Backend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *Backend) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *Backend) user(token string) (string, error) {
	id, ok := f.users[token]
	if !ok {
		return "", &types.TransportError{StatusCode: http.StatusUnauthorized, Message: "invalid token"}
	}
	return id, nil
}

func forbidden() error {
	return &types.TransportError{StatusCode: http.StatusForbidden, Message: "not allowed"}
}

func notFound(sentinel error) error {
	return fmt.Errorf("%w: %w", sentinel, &types.TransportError{StatusCode: http.StatusNotFound, Message: "not found"})
}

func applyJobFields(job *types.Job, fields *types.JobFields) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&job.Title, fields.Title)
	set(&job.JobType, fields.JobType)
	set(&job.JobBudget, fields.JobBudget)
	set(&job.Description, fields.Description)
	set(&job.LocationAddress, fields.LocationAddress)
	set(&job.City, fields.City)
	set(&job.OtherRequirements, fields.OtherRequirements)
	if fields.Images != nil {
		job.Images = append([]string(nil), fields.Images...)
	}
	job.UpdatedAt = time.Now()
}

func applyBidFields(bid *types.Bid, fields *types.BidFields) {
	if fields == nil {
		return
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&bid.Title, fields.Title)
	set(&bid.PriceMin, fields.PriceMin)
	set(&bid.PriceMax, fields.PriceMax)
	set(&bid.TimelineEstimate, fields.TimelineEstimate)
	bid.UpdatedAt = time.Now()
}

func copyJob(job *types.Job) *types.Job {
	out := *job
	return &out
}

func copyBid(bid *types.Bid) *types.Bid {
	out := *bid
	return &out
}

func (f *Backend) createJob(token string, fields *types.JobFields, status types.JobStatus) (*types.Job, error) {
	owner, err := f.user(token)
	if err != nil {
		return nil, err
	}
	job := &types.Job{ID: f.nextID("job"), BuyerID: owner, Status: status, CreatedAt: time.Now()}
	applyJobFields(job, fields)
	f.jobs[job.ID] = job
	return copyJob(job), nil
}

func (f *Backend) CreateJobDraft(_ context.Context, token string, fields *types.JobFields) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateJobDraft")
	return f.createJob(token, fields, types.JobStatusDraft)
}

func (f *Backend) CreateJob(_ context.Context, token string, fields *types.JobFields) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateJob")
	return f.createJob(token, fields, types.JobStatusOpen)
}

func (f *Backend) UpdateJob(ctx context.Context, token, jobID string, fields *types.JobFields, publish bool) (*types.Job, error) {
	if f.UpdateJobFunc != nil {
		f.mu.Lock()
		f.count("UpdateJob")
		f.mu.Unlock()
		return f.UpdateJobFunc(ctx, token, jobID, fields, publish)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateJob")
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, notFound(types.ErrJobNotFound)
	}
	applyJobFields(job, fields)
	if publish {
		job.Status = types.JobStatusOpen
	}
	return copyJob(job), nil
}

func (f *Backend) CloseJob(_ context.Context, _ string, jobID string) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CloseJob")
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, notFound(types.ErrJobNotFound)
	}
	job.Status = types.JobStatusClosed
	return copyJob(job), nil
}

func (f *Backend) DeleteJob(_ context.Context, _ string, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteJob")
	if _, ok := f.jobs[jobID]; !ok {
		return notFound(types.ErrJobNotFound)
	}
	delete(f.jobs, jobID)
	return nil
}

func (f *Backend) Job(_ context.Context, token, jobID string) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Job")
	if _, err := f.user(token); err != nil {
		return nil, err
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, notFound(types.ErrJobNotFound)
	}
	return copyJob(job), nil
}

func (f *Backend) JobsByBuyer(_ context.Context, _ string, buyerID string) ([]*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("JobsByBuyer")
	out := make([]*types.Job, 0)
	for _, job := range f.jobs {
		if job.BuyerID == buyerID {
			out = append(out, copyJob(job))
		}
	}
	return out, nil
}

// BidsByJob returns every bid to the job's buyer and only their own bids to
// anyone else.
func (f *Backend) BidsByJob(_ context.Context, token, jobID string) ([]*types.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BidsByJob")
	reader, err := f.user(token)
	if err != nil {
		return nil, err
	}
	owner := false
	if job, ok := f.jobs[jobID]; ok {
		owner = job.BuyerID == reader
	}
	out := make([]*types.Bid, 0)
	for _, bid := range f.bids {
		if bid.JobID == jobID && (owner || bid.ContractorID == reader) {
			out = append(out, copyBid(bid))
		}
	}
	return out, nil
}

func (f *Backend) CreateBidDraft(_ context.Context, token, jobID string, fields *types.BidFields) (*types.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateBidDraft")
	owner, err := f.user(token)
	if err != nil {
		return nil, err
	}
	bid := &types.Bid{ID: f.nextID("bid"), JobID: jobID, ContractorID: owner, Status: types.BidStatusDraft, CreatedAt: time.Now()}
	applyBidFields(bid, fields)
	f.bids[bid.ID] = bid
	return copyBid(bid), nil
}

// spend submits the bid when the contractor has a credit and otherwise
// leaves it as a draft waiting for payment.
func (f *Backend) spend(bid *types.Bid) *types.SubmitResult {
	if f.credits[bid.ContractorID] <= 0 {
		bid.Status = types.BidStatusDraft
		return &types.SubmitResult{Status: types.SubmitOutcomePaymentRequired, Bid: copyBid(bid)}
	}
	f.credits[bid.ContractorID]--
	bid.Status = types.BidStatusSubmitted
	if job, ok := f.jobs[bid.JobID]; ok {
		job.BidCount++
	}
	return &types.SubmitResult{Status: types.SubmitOutcomeSubmitted, Bid: copyBid(bid)}
}

func (f *Backend) SubmitBid(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.SubmitResult, error) {
	if f.SubmitBidFunc != nil {
		f.mu.Lock()
		f.count("SubmitBid")
		f.mu.Unlock()
		return f.SubmitBidFunc(ctx, token, jobID, fields)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("SubmitBid")
	owner, err := f.user(token)
	if err != nil {
		return nil, err
	}
	bid := &types.Bid{ID: f.nextID("bid"), JobID: jobID, ContractorID: owner, CreatedAt: time.Now()}
	applyBidFields(bid, fields)
	f.bids[bid.ID] = bid
	return f.spend(bid), nil
}

func (f *Backend) UpdateBid(_ context.Context, _ string, bidID string, fields *types.BidFields) (*types.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateBid")
	bid, ok := f.bids[bidID]
	if !ok {
		return nil, notFound(types.ErrBidNotFound)
	}
	applyBidFields(bid, fields)
	return copyBid(bid), nil
}

func (f *Backend) SubmitBidDraft(_ context.Context, _ string, bidID string, fields *types.BidFields) (*types.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("SubmitBidDraft")
	bid, ok := f.bids[bidID]
	if !ok {
		return nil, notFound(types.ErrBidNotFound)
	}
	applyBidFields(bid, fields)
	return f.spend(bid), nil
}

func (f *Backend) DeleteBid(_ context.Context, _ string, bidID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteBid")
	if _, ok := f.bids[bidID]; !ok {
		return notFound(types.ErrBidNotFound)
	}
	delete(f.bids, bidID)
	return nil
}

// Bid is readable by its contractor and by the buyer of its job.
func (f *Backend) Bid(_ context.Context, token, bidID string) (*types.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Bid")
	reader, err := f.user(token)
	if err != nil {
		return nil, err
	}
	bid, ok := f.bids[bidID]
	if !ok {
		return nil, notFound(types.ErrBidNotFound)
	}
	if bid.ContractorID != reader {
		if job, ok := f.jobs[bid.JobID]; !ok || job.BuyerID != reader {
			return nil, forbidden()
		}
	}
	return copyBid(bid), nil
}

func (f *Backend) BidsByContractor(_ context.Context, _ string, contractorID string) ([]*types.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("BidsByContractor")
	out := make([]*types.Bid, 0)
	for _, bid := range f.bids {
		if bid.ContractorID == contractorID {
			out = append(out, copyBid(bid))
		}
	}
	return out, nil
}

func (f *Backend) CreateDraftBidPayment(_ context.Context, _ string, draftBidID, returnURL string) (*types.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateDraftBidPayment")
	if _, ok := f.bids[draftBidID]; !ok {
		return nil, notFound(types.ErrBidNotFound)
	}
	f.returnURL = returnURL
	return &types.Checkout{
		CheckoutURL: "https://checkout.example.test/pay/" + draftBidID + "?return=" + returnURL,
		SessionID:   "cs_" + draftBidID,
	}, nil
}

func (f *Backend) CreditBalance(_ context.Context, token string) (*types.CreditBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreditBalance")
	owner, err := f.user(token)
	if err != nil {
		return nil, err
	}
	return &types.CreditBalance{ContractorID: owner, Balance: f.credits[owner]}, nil
}

func (f *Backend) CreateCreditCheckout(_ context.Context, _ string, pack, returnURL string) (*types.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateCreditCheckout")
	f.returnURL = returnURL
	return &types.Checkout{CheckoutURL: "https://checkout.example.test/pack/" + pack, SessionID: "cs_" + pack}, nil
}

// LastReturnURL is the return URL of the most recent checkout request.
func (f *Backend) LastReturnURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.returnURL
}

// Grant adds credits to a contractor as if a purchase had completed.
func (f *Backend) Grant(contractorID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credits[contractorID] += n
}

func (f *Backend) StoredJob(jobID string) (*types.Job, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, false
	}
	return copyJob(job), true
}

func (f *Backend) StoredBid(bidID string) (*types.Bid, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[bidID]
	if !ok {
		return nil, false
	}
	return copyBid(bid), true
}
