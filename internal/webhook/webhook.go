// Package webhook calls the external automation workflow that starts an
// outreach campaign.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ISO8601 is the timestamp layout sent to the workflow (millisecond precision, UTC).
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

const userAgent = "Outreach-Trigger/1.0"

// Call describes one webhook invocation.
type Call struct {
	Timestamp time.Time
	Source    string
}

// Response is what the workflow answered.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body. The workflow is not required to answer JSON, so
// ok is false when the body is empty or not valid JSON.
func (r *Response) JSON() (data any, ok bool) {
	if len(r.Body) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(r.Body, &data); err != nil {
		return nil, false
	}
	return data, true
}

// Client invokes a single fixed webhook URL. It never retries.
type Client struct {
	http *resty.Client
	url  string
}

// New creates a client for url. A zero timeout keeps resty's default (none).
func New(url string, timeout time.Duration) *Client {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{http: client, url: url}
}

// URL returns the configured webhook URL.
func (c *Client) URL() string {
	return c.url
}

// Trigger issues GET <url>?timestamp=<ISO8601>&source=<source>. A transport
// failure is returned as an error; any HTTP answer, including non-2xx, is
// returned as a Response.
func (c *Client) Trigger(ctx context.Context, call Call) (*Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParams(map[string]string{
			"timestamp": call.Timestamp.UTC().Format(ISO8601),
			"source":    call.Source,
		}).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("call webhook: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Ping sends a HEAD request to the webhook URL. Any HTTP response means the
// endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.http.R().SetContext(ctx).Head(c.url); err != nil {
		return fmt.Errorf("ping webhook: %w", err)
	}
	return nil
}
