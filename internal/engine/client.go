package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
)

var (
	// ErrRejected is returned when the engine answers the intake call with a non-2xx status.
	ErrRejected = errors.New("engine rejected the workflow")
	// ErrUnreachable is returned when the engine could not be contacted at all.
	ErrUnreachable = errors.New("engine unreachable")
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an n8n-style automation engine over HTTP.
type Client struct {
	webhookURL string
	http       httpDoer
}

// compile-time check: *Client must satisfy port.Engine
var _ port.Engine = (*Client)(nil)

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: timeout},
	}
}

// Trigger posts the workflow to the engine intake webhook. A 2xx answer is
// decoded best-effort: an empty or non-JSON body yields an empty execution.
func (c *Client) Trigger(ctx context.Context, in port.EngineTriggerRequest) (port.EngineExecution, error) {
	logger.Infof(ctx, "triggering %q workflow #%s on %s...", in.Type, in.WorkflowID, c.webhookURL)

	body, err := json.Marshal(in)
	if err != nil {
		return port.EngineExecution{}, fmt.Errorf("marshal trigger request: %w", err)
	}

	resp, err := c.post(ctx, c.webhookURL, body)
	if err != nil {
		return port.EngineExecution{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return port.EngineExecution{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var exec port.EngineExecution
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &exec); err != nil {
			logger.Warnf(ctx, "engine acknowledged workflow #%s with a non-JSON body: %v", in.WorkflowID, err)
			return port.EngineExecution{}, nil
		}
	}
	return exec, nil
}

// Resume forwards data verbatim to a paused execution.
func (c *Client) Resume(ctx context.Context, resumeURL string, data json.RawMessage) error {
	logger.Infof(ctx, "resuming execution at %s...", resumeURL)

	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	resp, err := c.post(ctx, resumeURL, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}
