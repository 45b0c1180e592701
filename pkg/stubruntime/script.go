package stubruntime

import (
	"encoding/json"
	"fmt"
	"os"
)

// Script is the sequence of events the stub runtime replays for each
// invocation. Events are emitted in order as SSE data frames (or, in raw
// mode, collapsed into a single response object).
type Script struct {
	Events []json.RawMessage `json:"events"`
}

// DefaultScript exercises every event shape a real agent run produces:
// status, thinking, a tool round-trip, streamed content, and a lifecycle
// marker.
func DefaultScript() *Script {
	raw := []string{
		`{"status": "initializing"}`,
		`{"thinking": "The user asked a question; I should check the current time first."}`,
		`{"step": {"number": 1, "description": "calling a tool"}}`,
		`{"tool_use": {"name": "current_time", "input": {"timezone": "UTC"}}}`,
		`{"tool_result": {"content": "2026-08-23T12:00:00Z"}}`,
		`{"content": [{"text": "Hello! "}, {"text": "This is the spool stub runtime. "}]}`,
		`{"delta": {"content": "Streaming works end to end."}}`,
		`{"event": "message_stop"}`,
	}

	events := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		events[i] = json.RawMessage(r)
	}

	return &Script{Events: events}
}

// LoadScript reads a Script from a JSON file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}

	script := &Script{}
	if err := json.Unmarshal(data, script); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}

	if len(script.Events) == 0 {
		return nil, fmt.Errorf("script has no events")
	}

	return script, nil
}
