// Package client calls the outreach trigger API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"outreach/internal/models"
	"outreach/internal/validation"
)

// TriggerPath is the trigger endpoint relative to the server base URL.
const TriggerPath = "/api/outreach/trigger"

// ErrTriggerFailed is returned when the server answers with a non-2xx status.
var ErrTriggerFailed = errors.New("trigger failed")

// Client triggers campaigns on an outreach server.
type Client struct {
	http   *resty.Client
	source string
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Source  string        // forwarded as the webhook source; empty keeps the server default
	Timeout time.Duration // 0 means no client-side timeout
}

// New creates a client for the server at opts.BaseURL.
func New(opts Options) (*Client, error) {
	if valid, msg := validation.ValidateURL(opts.BaseURL); !valid {
		return nil, fmt.Errorf("invalid base URL %q: %s", opts.BaseURL, msg)
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(base.String(), "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &Client{http: client, source: opts.Source}, nil
}

// Trigger starts one campaign run and waits for its metrics.
func (c *Client) Trigger(ctx context.Context) (models.OutreachResult, error) {
	var (
		result  models.OutreachResult
		failure models.ErrorResponse
	)

	req := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure)
	if c.source != "" {
		req.SetBody(models.TriggerRequest{
			Source:    c.source,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}

	resp, err := req.Post(TriggerPath)
	if err != nil {
		return models.OutreachResult{}, fmt.Errorf("post trigger: %w", err)
	}

	if !resp.IsSuccess() {
		if failure.Message != "" {
			return models.OutreachResult{}, fmt.Errorf("%w: %d %s: %s", ErrTriggerFailed, resp.StatusCode(), failure.Message, failure.Error)
		}
		return models.OutreachResult{}, fmt.Errorf("%w: %s", ErrTriggerFailed, resp.Status())
	}

	if err := validation.ValidateResult(result); err != nil {
		return models.OutreachResult{}, fmt.Errorf("server returned an invalid result: %w", err)
	}
	return result, nil
}
