// Package stubruntime is a local stand-in for an agent runtime data plane.
// It replays a scripted event stream over the same wire contract the real
// runtime uses, so the full invoke pipeline (transport, decoding,
// classification) can run without AWS access. It also mounts a small MCP
// server so tool calls can be exercised locally.
package stubruntime

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/runtime"
	"github.com/spoolhq/spool/pkg/utils"
)

// Config configures the stub runtime server.
type Config struct {
	// ListenAddr is the address to serve on, e.g. ":8085".
	ListenAddr string

	// Script is the event sequence to replay. Nil means DefaultScript.
	Script *Script

	// Logger is the configured zap logger.
	Logger *zap.Logger
}

// Server replays scripted invocation streams.
type Server struct {
	config Config
	script *Script
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a stub runtime server.
func NewServer(config Config) *Server {
	script := config.Script
	if script == nil {
		script = DefaultScript()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		// Enable streaming
		StreamRequestBody: true,
	})

	s := &Server{
		config: config,
		script: script,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/runtimes/:arn/invocations", s.handleInvocation)
	app.All("/mcp", adaptor.HTTPHandler(newMCPHandler()))

	return s
}

// Run starts the stub runtime on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting stub runtime",
		zap.String("listen", s.config.ListenAddr),
		zap.Int("script_events", len(s.script.Events)),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the stub runtime using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting stub runtime",
		zap.String("listen", listener.Addr().String()),
	)

	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the stub runtime.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": utils.Version})
}

type invocationPayload struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleInvocation(c *fiber.Ctx) error {
	sessionID := c.Get(runtime.SessionHeader)
	if len(sessionID) < 33 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session ID must be at least 33 characters",
		})
	}

	payload := invocationPayload{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid invocation payload",
		})
	}

	s.logger.Debug("replaying invocation",
		zap.String("runtime_arn", c.Params("arn")),
		zap.String("session_id", sessionID),
		zap.String("mode", c.Query("mode")),
	)

	if c.Query("mode") == "raw" {
		return s.respondRaw(c)
	}

	return s.respondSSE(c)
}

// respondRaw collapses the script's transcript-bearing events into one JSON
// object, exercising the client's non-SSE fallback path.
func (s *Server) respondRaw(c *fiber.Ctx) error {
	var b strings.Builder
	for _, raw := range s.script.Events {
		var event map[string]any
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		b.WriteString(contentText(event))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.JSON(fiber.Map{"content": b.String()})
}

func (s *Server) respondSSE(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe gives per-chunk delivery with backpressure; the writer side
	// blocks until fasthttp has flushed each frame to the socket.
	pr, pw := io.Pipe()
	go s.writeFrames(pw)

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) writeFrames(pw *io.PipeWriter) {
	defer pw.Close()

	for _, raw := range s.script.Events {
		if _, err := io.WriteString(pw, "data: "+string(raw)+"\n\n"); err != nil {
			return
		}

		// Space frames out slightly so consumers observe real streaming.
		time.Sleep(10 * time.Millisecond)
	}

	_, _ = io.WriteString(pw, "data: [DONE]\n\n")
}

// contentText extracts the transcript text an event would contribute.
func contentText(event map[string]any) string {
	if content, ok := event["content"]; ok {
		switch ct := content.(type) {
		case string:
			return ct
		case []any:
			var b strings.Builder
			for _, item := range ct {
				switch it := item.(type) {
				case map[string]any:
					if text, ok := it["text"].(string); ok {
						b.WriteString(text)
					}
				case string:
					b.WriteString(it)
				}
			}
			return b.String()
		}
	}

	if delta, ok := event["delta"].(map[string]any); ok {
		if text, ok := delta["content"].(string); ok {
			return text
		}
	}

	return ""
}

// newMCPHandler builds the stub's MCP server with two local tools, served
// over streamable HTTP.
func newMCPHandler() http.Handler {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "spool-stub",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	type echoInput struct {
		Message string `json:"message" jsonschema:"text to echo back"`
	}
	type echoOutput struct {
		Echo string `json:"echo" jsonschema:"the echoed text"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "echo",
		Description: "Echo a message back to the caller",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input echoInput) (*mcp.CallToolResult, echoOutput, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "echo: " + input.Message},
			},
		}, echoOutput{Echo: input.Message}, nil
	})

	type timeInput struct {
		Timezone string `json:"timezone,omitempty" jsonschema:"IANA timezone name, defaults to UTC"`
	}
	type timeOutput struct {
		Time string `json:"time" jsonschema:"current time in RFC 3339 format"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "current_time",
		Description: "Return the current time in the given timezone",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input timeInput) (*mcp.CallToolResult, timeOutput, error) {
		loc := time.UTC
		if input.Timezone != "" {
			parsed, err := time.LoadLocation(input.Timezone)
			if err == nil {
				loc = parsed
			}
		}

		now := time.Now().In(loc).Format(time.RFC3339)

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: now},
			},
		}, timeOutput{Time: now}, nil
	})

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
