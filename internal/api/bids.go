package api

import (
	"context"
	"errors"

	"homebid/pkg/types"

	"github.com/go-resty/resty/v2"
)

type bidRequest struct {
	JobID string `json:"job_id,omitempty"`
	*types.BidFields
}

func bidNotFound(err error) error {
	var terr *types.TransportError
	if errors.As(err, &terr) && terr.NotFound() {
		return errors.Join(types.ErrBidNotFound, err)
	}
	return err
}

func (c *Client) CreateBidDraft(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.Bid, error) {
	out := new(types.Bid)
	err := c.send(ctx, token, resty.MethodPost, "/bids/drafts", nil, nil, &bidRequest{JobID: jobID, BidFields: fields}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitBid(ctx context.Context, token, jobID string, fields *types.BidFields) (*types.SubmitResult, error) {
	out := new(types.SubmitResult)
	err := c.send(ctx, token, resty.MethodPost, "/bids", nil, nil, &bidRequest{JobID: jobID, BidFields: fields}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateBid(ctx context.Context, token, bidID string, fields *types.BidFields) (*types.Bid, error) {
	out := new(types.Bid)
	err := c.send(ctx, token, resty.MethodPut, "/bids/{id}", map[string]string{"id": bidID}, nil, &bidRequest{BidFields: fields}, out)
	if err != nil {
		return nil, bidNotFound(err)
	}
	return out, nil
}

// SubmitBidDraft saves fields onto a draft and asks the backend to submit it.
func (c *Client) SubmitBidDraft(ctx context.Context, token, bidID string, fields *types.BidFields) (*types.SubmitResult, error) {
	out := new(types.SubmitResult)
	err := c.send(ctx, token, resty.MethodPut, "/bids/{id}", map[string]string{"id": bidID}, map[string]string{"submit": "true"}, &bidRequest{BidFields: fields}, out)
	if err != nil {
		return nil, bidNotFound(err)
	}
	return out, nil
}

func (c *Client) DeleteBid(ctx context.Context, token, bidID string) error {
	err := c.send(ctx, token, resty.MethodDelete, "/bids/{id}", map[string]string{"id": bidID}, nil, nil, nil)
	return bidNotFound(err)
}

func (c *Client) Bid(ctx context.Context, token, bidID string) (*types.Bid, error) {
	out := new(types.Bid)
	err := c.get(ctx, token, "/bids/{id}", map[string]string{"id": bidID}, nil, out)
	if err != nil {
		return nil, bidNotFound(err)
	}
	return out, nil
}

func (c *Client) BidsByContractor(ctx context.Context, token, contractorID string) ([]*types.Bid, error) {
	out := make([]*types.Bid, 0)
	err := c.get(ctx, token, "/bids", nil, map[string]string{"contractor_id": contractorID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
