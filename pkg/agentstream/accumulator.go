package agentstream

import (
	"encoding/json"
	"strings"
)

// Accumulator buffers text until it forms a complete JSON value. Raw
// (non-SSE) streams deliver a JSON object in arbitrary slices; the
// accumulator retries a full-buffer parse after each slice and resets once
// one succeeds.
type Accumulator struct {
	buf strings.Builder
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Feed appends text and attempts to parse the whole buffer as JSON.
// On success the buffer resets and the decoded value is returned.
func (a *Accumulator) Feed(text string) (any, bool) {
	a.buf.WriteString(text)

	trimmed := strings.TrimSpace(a.buf.String())
	if trimmed == "" {
		return nil, false
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
		return nil, false
	}

	a.buf.Reset()

	return value, true
}

// Rest returns the unparsed buffered text.
func (a *Accumulator) Rest() string {
	return a.buf.String()
}
