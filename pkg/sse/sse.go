// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// line splitter and payload extractor for consuming agent runtime response
// streams. Input arrives as decoded text increments rather than an io.Reader
// because read boundaries do not align with line boundaries; the Splitter
// carries the partial tail across calls.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

const (
	// DataPrefix marks an SSE data line. The runtime emits exactly one
	// space after the colon.
	DataPrefix = "data: "

	// DoneSentinel is the payload signalling end of stream.
	DoneSentinel = "[DONE]"
)

// Splitter breaks decoded text increments into complete lines. Text after
// the last newline is held until a later increment (or Flush) completes it.
type Splitter struct {
	partial string
}

// NewSplitter returns an empty Splitter.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Feed appends text to the held partial line and returns every line that is
// now complete. A trailing "\r" is stripped from each returned line so CRLF
// streams behave like LF streams.
func (s *Splitter) Feed(text string) []string {
	if text == "" {
		return nil
	}

	parts := strings.Split(s.partial+text, "\n")
	s.partial = parts[len(parts)-1]

	lines := parts[:len(parts)-1]
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// Flush returns the held partial line, if any, and resets the splitter.
// Streams that end without a trailing newline still yield their last line.
func (s *Splitter) Flush() (string, bool) {
	if s.partial == "" {
		return "", false
	}

	line := strings.TrimSuffix(s.partial, "\r")
	s.partial = ""

	return line, line != ""
}

// Payload extracts the event payload from a single SSE line.
//
// Blank lines (event separators) and terminal [DONE] sentinels yield
// ok=false. Lines carrying the data prefix yield their trimmed payload.
// Any other non-empty line is passed through as-is: runtimes that stream
// raw JSON lines without SSE framing still get classified.
func Payload(line string) (string, bool) {
	if line == "" {
		return "", false
	}

	if strings.HasPrefix(line, DataPrefix) {
		payload := strings.TrimSpace(line[len(DataPrefix):])
		if payload == "" || payload == DoneSentinel {
			return "", false
		}
		return payload, true
	}

	return line, true
}
