// Package readcache keeps the last server-reported job, bid and credit read
// models so that status checks can run without a round trip.
package readcache

import (
	"slices"
	"time"

	"homebid/pkg/types"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type Cache struct {
	store *cache.Cache
	log   *logrus.Entry
}

func New(ttl time.Duration, bus *Bus, logger *logrus.Logger) *Cache {
	c := &Cache{
		store: cache.New(ttl, 2*ttl),
		log:   logger.WithField("component", "readcache"),
	}
	if bus != nil {
		bus.Subscribe(c.apply)
	}
	return c
}

func (c *Cache) apply(inv Invalidation) {
	for _, key := range inv.Keys {
		c.store.Delete(string(key))
	}
	c.log.WithFields(logrus.Fields{
		"reason": inv.Reason,
		"keys":   inv.Keys,
	}).Debug("invalidated read models")
}

func get[T any](c *Cache, key Key) (T, bool) {
	var zero T
	v, ok := c.store.Get(string(key))
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	if !ok {
		return zero, false
	}
	return out, true
}

func cloneJob(job *types.Job) *types.Job {
	out := *job
	out.Images = slices.Clone(job.Images)
	return &out
}

func cloneBid(bid *types.Bid) *types.Bid {
	out := *bid
	return &out
}

func cloneAll[T any](in []*T, clone func(*T) *T) []*T {
	if in == nil {
		return nil
	}
	out := make([]*T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

// Job returns a copy of the cached job. Callers decide whether the session
// may see it.
func (c *Cache) Job(jobID string) (*types.Job, bool) {
	job, ok := get[*types.Job](c, JobDetail(jobID))
	if !ok {
		return nil, false
	}
	return cloneJob(job), true
}

func (c *Cache) PutJob(job *types.Job) {
	if job == nil || job.ID == "" {
		return
	}
	c.store.Set(string(JobDetail(job.ID)), cloneJob(job), cache.DefaultExpiration)
	if job.BuyerID != "" {
		c.store.Set(jobOwner(job.ID), job.BuyerID, cache.DefaultExpiration)
	}
}

// JobOwner returns the buyer of a job seen recently. It outlives
// invalidations of the job itself so that a mutation can still name the
// buyer's job list.
func (c *Cache) JobOwner(jobID string) (string, bool) {
	v, ok := c.store.Get(jobOwner(jobID))
	if !ok {
		return "", false
	}
	buyerID, ok := v.(string)
	return buyerID, ok
}

func (c *Cache) Jobs(buyerID string) ([]*types.Job, bool) {
	jobs, ok := get[[]*types.Job](c, JobList(buyerID))
	if !ok {
		return nil, false
	}
	return cloneAll(jobs, cloneJob), true
}

func (c *Cache) PutJobs(buyerID string, jobs []*types.Job) {
	c.store.Set(string(JobList(buyerID)), cloneAll(jobs, cloneJob), cache.DefaultExpiration)
	for _, job := range jobs {
		c.PutJob(job)
	}
}

// jobBids remembers who a bid list was fetched for, since the backend may
// filter it per viewer.
type jobBids struct {
	viewerID string
	bids     []*types.Bid
}

func (c *Cache) JobBids(jobID, viewerID string) ([]*types.Bid, bool) {
	entry, ok := get[jobBids](c, JobBids(jobID))
	if !ok || entry.viewerID != viewerID {
		return nil, false
	}
	return cloneAll(entry.bids, cloneBid), true
}

func (c *Cache) PutJobBids(jobID, viewerID string, bids []*types.Bid) {
	c.store.Set(string(JobBids(jobID)), jobBids{viewerID: viewerID, bids: cloneAll(bids, cloneBid)}, cache.DefaultExpiration)
}

func (c *Cache) Bid(bidID string) (*types.Bid, bool) {
	bid, ok := get[*types.Bid](c, BidDetail(bidID))
	if !ok {
		return nil, false
	}
	return cloneBid(bid), true
}

func (c *Cache) PutBid(bid *types.Bid) {
	if bid == nil || bid.ID == "" {
		return
	}
	c.store.Set(string(BidDetail(bid.ID)), cloneBid(bid), cache.DefaultExpiration)
}

func (c *Cache) Bids(contractorID string) ([]*types.Bid, bool) {
	bids, ok := get[[]*types.Bid](c, BidList(contractorID))
	if !ok {
		return nil, false
	}
	return cloneAll(bids, cloneBid), true
}

func (c *Cache) PutBids(contractorID string, bids []*types.Bid) {
	c.store.Set(string(BidList(contractorID)), cloneAll(bids, cloneBid), cache.DefaultExpiration)
	for _, bid := range bids {
		c.PutBid(bid)
	}
}

func (c *Cache) Credits(contractorID string) (*types.CreditBalance, bool) {
	balance, ok := get[*types.CreditBalance](c, Credits(contractorID))
	if !ok {
		return nil, false
	}
	out := *balance
	return &out, true
}

func (c *Cache) PutCredits(contractorID string, balance *types.CreditBalance) {
	if balance == nil {
		return
	}
	out := *balance
	c.store.Set(string(Credits(contractorID)), &out, cache.DefaultExpiration)
}

func (c *Cache) Has(key Key) bool {
	_, ok := c.store.Get(string(key))
	return ok
}

// Flush drops every read model.
func (c *Cache) Flush() {
	c.store.Flush()
}
