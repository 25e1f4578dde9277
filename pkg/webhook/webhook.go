// Package webhook posts chat analysis reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = config.DefaultWebhookTimeout

// EventReport is the event name carried by every payload.
const EventReport = "chatstat.report"

// maxResponseBody bounds how much of a response body is kept.
const maxResponseBody = 1 << 20

// Client sends analysis reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for delivery diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions configures a webhook request.
type SendOptions struct {
	Name    string
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Payload is the JSON document posted to an endpoint.
type Payload struct {
	Event     string         `json:"event"`
	SessionID string         `json:"session_id"`
	SentAt    time.Time      `json:"sent_at"`
	Report    *output.Report `json:"report"`
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts an analysis report to a webhook endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(Payload{
		Event:     EventReport,
		SessionID: report.Metadata.SessionID,
		SentAt:    start.UTC(),
		Report:    report,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to marshal report: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "chatstat-webhook")
	req.Header.Set("X-Chatstat-Session", report.Metadata.SessionID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// SendAll posts the report to every endpoint in turn. Failures do not stop
// later deliveries; they are collected into one error.
func (c *Client) SendAll(ctx context.Context, report *output.Report, hooks []SendOptions) error {
	var result *multierror.Error
	for _, h := range hooks {
		name := h.Name
		if name == "" {
			name = h.URL
		}

		resp := c.Send(ctx, report, h)
		if !resp.Success() {
			err := resp.Error
			if err == nil {
				err = fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			result = multierror.Append(result, fmt.Errorf("webhook %s: %w", name, err))
			continue
		}

		c.logger.Debug("webhook delivered",
			"webhook", name,
			"status", resp.StatusCode,
			"duration", resp.Duration)
	}
	return result.ErrorOrNil()
}

// FromConfig converts configured webhooks into send options.
func FromConfig(hooks []config.WebhookConfig) []SendOptions {
	opts := make([]SendOptions, 0, len(hooks))
	for _, h := range hooks {
		opts = append(opts, SendOptions{
			Name:    h.Name,
			URL:     h.URL,
			Token:   h.Token,
			Timeout: h.Timeout,
		})
	}
	return opts
}
