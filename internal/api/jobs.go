package api

import (
	"context"
	"errors"

	"homebid/pkg/types"

	"github.com/go-resty/resty/v2"
)

func jobNotFound(err error) error {
	var terr *types.TransportError
	if errors.As(err, &terr) && terr.NotFound() {
		return errors.Join(types.ErrJobNotFound, err)
	}
	return err
}

func (c *Client) CreateJobDraft(ctx context.Context, token string, fields *types.JobFields) (*types.Job, error) {
	out := new(types.Job)
	err := c.send(ctx, token, resty.MethodPost, "/jobs/drafts", nil, nil, fields, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateJob(ctx context.Context, token string, fields *types.JobFields) (*types.Job, error) {
	out := new(types.Job)
	err := c.send(ctx, token, resty.MethodPost, "/jobs", nil, nil, fields, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateJob saves fields in place. With publish set the backend also moves a
// draft to open.
func (c *Client) UpdateJob(ctx context.Context, token, jobID string, fields *types.JobFields, publish bool) (*types.Job, error) {
	var query map[string]string
	if publish {
		query = map[string]string{"publish": "true"}
	}

	out := new(types.Job)
	err := c.send(ctx, token, resty.MethodPut, "/jobs/{id}", map[string]string{"id": jobID}, query, fields, out)
	if err != nil {
		return nil, jobNotFound(err)
	}
	return out, nil
}

func (c *Client) CloseJob(ctx context.Context, token, jobID string) (*types.Job, error) {
	out := new(types.Job)
	err := c.send(ctx, token, resty.MethodPost, "/jobs/{id}/close", map[string]string{"id": jobID}, nil, nil, out)
	if err != nil {
		return nil, jobNotFound(err)
	}
	return out, nil
}

func (c *Client) DeleteJob(ctx context.Context, token, jobID string) error {
	err := c.send(ctx, token, resty.MethodDelete, "/jobs/{id}", map[string]string{"id": jobID}, nil, nil, nil)
	return jobNotFound(err)
}

func (c *Client) Job(ctx context.Context, token, jobID string) (*types.Job, error) {
	out := new(types.Job)
	err := c.get(ctx, token, "/jobs/{id}", map[string]string{"id": jobID}, nil, out)
	if err != nil {
		return nil, jobNotFound(err)
	}
	return out, nil
}

func (c *Client) JobsByBuyer(ctx context.Context, token, buyerID string) ([]*types.Job, error) {
	out := make([]*types.Job, 0)
	err := c.get(ctx, token, "/jobs", nil, map[string]string{"buyer_id": buyerID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BidsByJob(ctx context.Context, token, jobID string) ([]*types.Bid, error) {
	out := make([]*types.Bid, 0)
	err := c.get(ctx, token, "/jobs/{id}/bids", map[string]string{"id": jobID}, nil, &out)
	if err != nil {
		return nil, jobNotFound(err)
	}
	return out, nil
}
