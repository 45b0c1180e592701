// Package mcpclient is a thin client for calling tools on a managed MCP
// (Model Context Protocol) server over streamable HTTP.
package mcpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/utils"
)

const defaultTimeout = 60 * time.Second

// Config configures a Client.
type Config struct {
	// Endpoint is the MCP service base URL.
	Endpoint string

	// Database and Schema scope the managed server path.
	Database string
	Schema   string

	// ServerName is the managed MCP server to address.
	ServerName string

	// AuthToken is sent as a bearer token on every request. Empty disables
	// the Authorization header.
	AuthToken string

	Timeout time.Duration

	Logger *zap.Logger
}

// Client calls tools on one managed MCP server. Each call opens a fresh
// session; the managed endpoint is stateless.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a Client for the configured managed server.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Database == "" || cfg.Schema == "" || cfg.ServerName == "" {
		return nil, fmt.Errorf("database, schema, and server name are required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := &http.Client{Timeout: timeout}
	if cfg.AuthToken != "" {
		hc.Transport = &bearerTransport{token: cfg.AuthToken, base: http.DefaultTransport}
	}

	return &Client{
		url:        ServerURL(cfg.Endpoint, cfg.Database, cfg.Schema, cfg.ServerName),
		httpClient: hc,
		logger:     logger,
	}, nil
}

// ServerURL builds the managed MCP server path from its coordinates.
func ServerURL(endpoint, database, schema, serverName string) string {
	return fmt.Sprintf("%s/api/v2/databases/%s/schemas/%s/mcp-servers/%s",
		strings.TrimSuffix(endpoint, "/"), database, schema, serverName)
}

// URL returns the resolved managed server URL.
func (c *Client) URL() string {
	return c.url
}

func (c *Client) connect(ctx context.Context) (*mcp.ClientSession, error) {
	client := mcp.NewClient(
		&mcp.Implementation{
			Name:    "spool",
			Version: utils.Version,
		},
		nil,
	)

	transport := &mcp.StreamableClientTransport{
		Endpoint:   c.url,
		HTTPClient: c.httpClient,
	}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server: %w", err)
	}

	return session, nil
}

// ListTools returns the tools the server advertises.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	listing, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}

	return listing.Tools, nil
}

// CallTool invokes one tool and returns the raw result.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error) {
	session, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	c.logger.Debug("calling tool", zap.String("tool", name))

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("calling tool %s: %w", name, err)
	}

	return result, nil
}

// CallToolText invokes one tool and flattens its text content blocks,
// joined with newlines.
func (c *Client) CallToolText(ctx context.Context, name string, arguments map[string]any) (string, error) {
	result, err := c.CallTool(ctx, name, arguments)
	if err != nil {
		return "", err
	}

	if result.IsError {
		return "", fmt.Errorf("tool %s returned an error: %s", name, flattenText(result))
	}

	return flattenText(result), nil
}

func flattenText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}

	return strings.Join(parts, "\n")
}

// bearerTransport injects the Authorization header on every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.token)

	return t.base.RoundTrip(cloned)
}
