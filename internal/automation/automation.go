// Package automation triggers scenario simulations in the external
// workflow runner.
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow90/internal/model"
)

const (
	// DefaultTimeout bounds a single webhook call.
	DefaultTimeout = 10 * time.Second
	// DefaultSimulatedDelay mimics the latency of a real trigger.
	DefaultSimulatedDelay = 1500 * time.Millisecond

	maxBodySize = 64 << 10
)

// ErrTriggerRejected indicates the runner answered with a client error.
var ErrTriggerRejected = errors.New("automation: trigger rejected")

// Trigger starts a scenario simulation. A nil error means the runner
// accepted the request.
type Trigger interface {
	TriggerScenario(ctx context.Context, req model.ScenarioRequest) error
}

// Webhook posts scenario requests to an HTTP endpoint.
type Webhook struct {
	url     string
	timeout time.Duration
	http    *http.Client
}

// NewWebhook creates a webhook trigger. Returns nil if url is empty.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Webhook{url: url, timeout: timeout, http: &http.Client{}}
}

// TriggerScenario posts {name, growth_adjustment, payroll_adjustment}.
func (w *Webhook) TriggerScenario(ctx context.Context, req model.ScenarioRequest) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("automation: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("automation: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "github.com/theirongolddev/cashflow90/1.0")

	resp, err := w.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("automation: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d: %s", ErrTriggerRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	default:
		return fmt.Errorf("automation: unexpected status %d", resp.StatusCode)
	}
}

// Simulated accepts every request after Delay, standing in for a runner.
type Simulated struct {
	Delay time.Duration
}

// TriggerScenario waits for the delay or until ctx is done.
func (s Simulated) TriggerScenario(ctx context.Context, _ model.ScenarioRequest) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
