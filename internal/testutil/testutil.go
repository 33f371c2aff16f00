// Package testutil provides test utilities and helpers.
package testutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"outreach/internal/models"
)

// WebhookCall is a request observed by a test webhook server.
type WebhookCall struct {
	Method string
	Query  url.Values
	Header http.Header
}

// WebhookServer is a fake workflow webhook.
type WebhookServer struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []WebhookCall
	status int
	body   string
}

// NewWebhookServer starts a webhook that answers every request with status
// and body. It is closed when the test ends.
func NewWebhookServer(t *testing.T, status int, body string) *WebhookServer {
	t.Helper()

	ws := &WebhookServer{status: status, body: body}
	ws.Server = httptest.NewServer(http.HandlerFunc(ws.serve))
	t.Cleanup(ws.Close)
	return ws
}

func (ws *WebhookServer) serve(w http.ResponseWriter, r *http.Request) {
	ws.mu.Lock()
	ws.calls = append(ws.calls, WebhookCall{
		Method: r.Method,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
	status, body := ws.status, ws.body
	ws.mu.Unlock()

	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Calls returns a copy of the requests received so far.
func (ws *WebhookServer) Calls() []WebhookCall {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]WebhookCall(nil), ws.calls...)
}

// UnreachableURL returns the URL of a server that has already been shut down.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SampleResult returns a valid outreach result.
func SampleResult() models.OutreachResult {
	return models.OutreachResult{
		ClientsReached:     48,
		ExecutionTime:      9,
		EmailsSent:         48,
		SuccessRate:        98,
		AvgPersonalization: 93,
	}
}
