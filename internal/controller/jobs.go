package controller

import (
	"context"

	"homebid/internal/lifecycle"
	"homebid/internal/metrics"
	"homebid/internal/readcache"
	"homebid/internal/validate"
	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

type JobController struct {
	backend JobBackend
	cache   *readcache.Cache
	bus     *readcache.Bus
	metrics *metrics.Lifecycle
	log     *logrus.Entry
}

func NewJobController(backend JobBackend, cache *readcache.Cache, bus *readcache.Bus, logger *logrus.Logger, m *metrics.Lifecycle) *JobController {
	return &JobController{
		backend: backend,
		cache:   cache,
		bus:     bus,
		metrics: m,
		log:     logger.WithField("component", "job-lifecycle"),
	}
}

func nonNilJobFields(fields *types.JobFields) *types.JobFields {
	if fields == nil {
		return new(types.JobFields)
	}
	return fields
}

// CreateDraft saves a new draft job. Completeness is not checked.
func (c *JobController) CreateDraft(ctx context.Context, s types.Session, fields *types.JobFields) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "create_draft", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	fields = nonNilJobFields(fields)
	if err = validate.Error(validate.JobContent(fields)); err != nil {
		return nil, err
	}

	job, err = c.backend.CreateJobDraft(ctx, s.Token, fields)
	if err != nil {
		return nil, err
	}

	c.observe(job, "", types.JobStatusDraft, "create draft", readcache.JobList(s.UserID))
	return job, nil
}

// CreateAndPublish creates a job directly in open status.
func (c *JobController) CreateAndPublish(ctx context.Context, s types.Session, fields *types.JobFields) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "create", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	if err = validate.Error(validate.Job(fields)); err != nil {
		return nil, err
	}

	job, err = c.backend.CreateJob(ctx, s.Token, fields)
	if err != nil {
		return nil, err
	}

	c.observe(job, "", types.JobStatusOpen, "create job", readcache.JobList(s.UserID))
	return job, nil
}

func (c *JobController) UpdateDraft(ctx context.Context, s types.Session, jobID string, fields *types.JobFields) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "update_draft", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	fields = nonNilJobFields(fields)
	if err = validate.Error(validate.JobContent(fields)); err != nil {
		return nil, err
	}

	return c.update(ctx, s, jobID, fields, lifecycle.JobActionUpdateDraft)
}

// PublishDraft validates the full job and moves it from draft to open.
func (c *JobController) PublishDraft(ctx context.Context, s types.Session, jobID string, fields *types.JobFields) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "publish", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	if err = validate.Error(validate.Job(fields)); err != nil {
		return nil, err
	}

	return c.update(ctx, s, jobID, fields, lifecycle.JobActionPublish)
}

func (c *JobController) UpdateOpenJob(ctx context.Context, s types.Session, jobID string, fields *types.JobFields) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "update_open", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}
	fields = nonNilJobFields(fields)
	if err = validate.Error(validate.OpenJobUpdate(fields)); err != nil {
		return nil, err
	}

	return c.update(ctx, s, jobID, fields, lifecycle.JobActionUpdateOpen)
}

func (c *JobController) update(ctx context.Context, s types.Session, jobID string, fields *types.JobFields, action lifecycle.JobAction) (*types.Job, error) {
	current, err := c.current(ctx, s, jobID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.CheckJob(jobID, current.Status, action)
	if err != nil {
		return nil, err
	}

	job, err := c.backend.UpdateJob(ctx, s.Token, jobID, fields, action == lifecycle.JobActionPublish)
	if err != nil {
		return nil, err
	}

	c.observe(job, current.Status, next, string(action), readcache.JobDetail(jobID), readcache.JobList(current.BuyerID))
	return job, nil
}

// CloseJob stops an open job from taking more bids. Closed is terminal.
func (c *JobController) CloseJob(ctx context.Context, s types.Session, jobID string) (job *types.Job, err error) {
	defer func() { c.metrics.Mutation("job", "close", err) }()

	if err = requireSession(s); err != nil {
		return nil, err
	}

	current, err := c.current(ctx, s, jobID)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.CheckJob(jobID, current.Status, lifecycle.JobActionClose)
	if err != nil {
		return nil, err
	}

	job, err = c.backend.CloseJob(ctx, s.Token, jobID)
	if err != nil {
		return nil, err
	}

	c.observe(job, current.Status, next, "close job",
		readcache.JobDetail(jobID), readcache.JobList(current.BuyerID), readcache.JobBids(jobID))
	return job, nil
}

// DeleteJob removes a draft job. Anything past draft can only be closed.
func (c *JobController) DeleteJob(ctx context.Context, s types.Session, jobID string) (err error) {
	defer func() { c.metrics.Mutation("job", "delete", err) }()

	if err = requireSession(s); err != nil {
		return err
	}

	current, err := c.current(ctx, s, jobID)
	if err != nil {
		return err
	}

	if _, err = lifecycle.CheckJob(jobID, current.Status, lifecycle.JobActionDelete); err != nil {
		return err
	}

	if err = c.backend.DeleteJob(ctx, s.Token, jobID); err != nil {
		return err
	}

	c.bus.Publish(readcache.Invalidation{
		Reason: "delete job",
		Keys:   []readcache.Key{readcache.JobDetail(jobID), readcache.JobList(current.BuyerID), readcache.JobList(s.UserID)},
	})
	c.log.WithField("job_id", jobID).Debug("deleted draft job")
	return nil
}

// Job returns the job, from the read cache when it is fresh.
func (c *JobController) Job(ctx context.Context, s types.Session, jobID string) (*types.Job, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	return c.current(ctx, s, jobID)
}

// Jobs lists the session buyer's jobs.
func (c *JobController) Jobs(ctx context.Context, s types.Session) ([]*types.Job, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if jobs, ok := c.cache.Jobs(s.UserID); ok {
		return jobs, nil
	}

	jobs, err := c.backend.JobsByBuyer(ctx, s.Token, s.UserID)
	if err != nil {
		return nil, err
	}
	c.cache.PutJobs(s.UserID, jobs)
	return jobs, nil
}

// Bids lists the bids attached to a job. A cached list is only reused for
// the user it was fetched for.
func (c *JobController) Bids(ctx context.Context, s types.Session, jobID string) ([]*types.Bid, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if bids, ok := c.cache.JobBids(jobID, s.UserID); ok {
		return bids, nil
	}

	bids, err := c.backend.BidsByJob(ctx, s.Token, jobID)
	if err != nil {
		return nil, err
	}
	c.cache.PutJobBids(jobID, s.UserID, bids)
	return bids, nil
}

// current returns the last known job. The cache only answers for the job's
// own buyer; anyone else goes to the backend, which decides what they see.
func (c *JobController) current(ctx context.Context, s types.Session, jobID string) (*types.Job, error) {
	if job, ok := c.cache.Job(jobID); ok && job.BuyerID == s.UserID {
		return job, nil
	}

	job, err := c.backend.Job(ctx, s.Token, jobID)
	if err != nil {
		return nil, err
	}
	c.cache.PutJob(job)
	return job, nil
}

// observe publishes the invalidations for a mutation and records the
// backend's view of the job as the new locally known state.
func (c *JobController) observe(job *types.Job, previous, expected types.JobStatus, reason string, keys ...readcache.Key) {
	if job.BuyerID != "" {
		keys = append(keys, readcache.JobList(job.BuyerID))
	}
	c.bus.Publish(readcache.Invalidation{Reason: reason, Keys: keys})
	c.cache.PutJob(job)

	entry := c.log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"action": reason,
		"status": job.Status,
	})

	if job.Status != expected || !lifecycle.ExpectedJobChange(previous, job.Status) {
		entry.WithFields(logrus.Fields{
			"previous": previous,
			"expected": expected,
		}).Warn("backend reported unexpected job status")
		return
	}

	entry.Debug("job saved")
}
