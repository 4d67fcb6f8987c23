// Package api is the typed HTTP client for the marketplace backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"homebid/pkg/types"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// GetRetries bounds retries of idempotent reads. Writes are never retried.
	GetRetries    uint64
	RetryInterval time.Duration
}

type Client struct {
	http   *resty.Client
	log    *logrus.Entry
	config ClientConfig
}

func NewClient(config ClientConfig, logger *logrus.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryInterval == 0 {
		config.RetryInterval = 250 * time.Millisecond
	}

	c := &Client{
		config: config,
		log:    logger.WithField("component", "backend-client"),
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimSuffix(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "homebid").
		SetRetryCount(0)

	return c
}

type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func transportErrorFrom(resp *resty.Response) *types.TransportError {
	e := &types.TransportError{StatusCode: resp.StatusCode()}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Detail != "":
			e.Message = body.Detail
		case body.Message != "":
			e.Message = body.Message
		case body.Error != "":
			e.Message = body.Error
		}
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode())
	}

	return e
}

func (c *Client) request(ctx context.Context, token string) (*resty.Request, error) {
	if token == "" {
		return nil, types.ErrAuthRequired
	}

	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		ForceContentType("application/json"), nil
}

func (c *Client) execute(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return &types.TransportError{Message: err.Error(), Err: err}
	}

	if !resp.IsSuccess() {
		terr := transportErrorFrom(resp)
		c.log.WithFields(logrus.Fields{
			"method": method,
			"url":    resp.Request.URL,
			"status": resp.StatusCode(),
		}).Debug("backend returned error")
		return terr
	}

	return nil
}

// send performs a single, unretried write.
func (c *Client) send(ctx context.Context, token, method, path string, pathParams, query map[string]string, body, out any) error {
	req, err := c.request(ctx, token)
	if err != nil {
		return err
	}

	req.SetPathParams(pathParams).SetQueryParams(query)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	return c.execute(req, method, path)
}

func retryable(err error) bool {
	var terr *types.TransportError
	if !errors.As(err, &terr) {
		return false
	}
	return terr.StatusCode == 0 || terr.StatusCode >= http.StatusInternalServerError
}

// get reads a resource, retrying network failures and 5xx responses with
// exponential backoff.
func (c *Client) get(ctx context.Context, token, path string, pathParams, query map[string]string, out any) error {
	op := func() error {
		req, err := c.request(ctx, token)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.SetPathParams(pathParams).SetQueryParams(query).SetResult(out)

		err = c.execute(req, resty.MethodGet, path)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInterval
	b.MaxInterval = 10 * c.config.RetryInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.config.GetRetries), ctx)

	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.log.WithError(err).WithFields(logrus.Fields{
			"path":     path,
			"retry_in": wait.String(),
		}).Warn("retrying backend read")
	})
}
