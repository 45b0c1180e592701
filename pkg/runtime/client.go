// Package runtime is an HTTP client for agent runtime data-plane
// invocations. It knows how to address a runtime by ARN, carry the session
// header, and hand back the raw streaming response body for draining.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the runtime session identifier. Session IDs
	// must be at least 33 characters.
	SessionHeader = "X-Amzn-Bedrock-AgentCore-Runtime-Session-Id"

	// DefaultQualifier selects the default runtime endpoint version.
	DefaultQualifier = "DEFAULT"

	defaultTimeout = 5 * time.Minute
)

// ClientConfig configures a runtime Client.
type ClientConfig struct {
	// Endpoint is the data-plane base URL, e.g.
	// https://bedrock-agentcore.us-west-2.amazonaws.com
	Endpoint string

	// BearerToken authorizes invocations on runtimes with inbound OAuth.
	// Empty means no Authorization header.
	BearerToken string

	// Timeout bounds the whole invocation including the streamed body.
	// Zero means 5 minutes, matching long-running agent invocations.
	Timeout time.Duration

	Logger *zap.Logger
}

// Client invokes agent runtimes.
type Client struct {
	endpoint    string
	bearerToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient returns a Client for the given configuration.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		bearerToken: cfg.BearerToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// InvokeRequest describes one agent invocation.
type InvokeRequest struct {
	RuntimeARN string
	SessionID  string

	// Qualifier selects the runtime endpoint version. Empty means DEFAULT.
	Qualifier string

	Prompt string
}

// Response is a streaming invocation response. The caller owns Body and
// must close it.
type Response struct {
	// ContentType routes the body to the SSE or raw drain path.
	ContentType string

	Body io.ReadCloser
}

// Invoke starts an agent invocation and returns the streaming response.
// The ARN is path-escaped into the invocation URL; the session ID rides in
// the session header so the runtime can correlate turns.
func (c *Client) Invoke(ctx context.Context, req InvokeRequest) (*Response, error) {
	if req.RuntimeARN == "" {
		return nil, fmt.Errorf("runtime ARN is required")
	}
	if req.SessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	qualifier := req.Qualifier
	if qualifier == "" {
		qualifier = DefaultQualifier
	}

	payload, err := json.Marshal(map[string]string{"prompt": req.Prompt})
	if err != nil {
		return nil, fmt.Errorf("encoding invocation payload: %w", err)
	}

	invokeURL := fmt.Sprintf("%s/runtimes/%s/invocations?qualifier=%s",
		c.endpoint, url.PathEscape(req.RuntimeARN), url.QueryEscape(qualifier))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, invokeURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building invocation request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(SessionHeader, req.SessionID)
	if c.bearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	c.logger.Debug("invoking runtime",
		zap.String("runtime_arn", req.RuntimeARN),
		zap.String("session_id", req.SessionID),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoking runtime: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("runtime returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	return &Response{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// NewSessionID generates a fresh session identifier. The "spool-" prefix
// plus a UUID comfortably clears the 33-character minimum.
func NewSessionID() string {
	return "spool-" + uuid.NewString()
}
