// Package agentstream decodes and classifies the streamed output of an agent
// runtime invocation. It turns raw response bytes (SSE-framed or not) into a
// sequence of display events and transcript fragments: tool activity and
// status updates become formatted display lines, while assistant text flows
// through as fragments that concatenate into the final transcript.
package agentstream

// Kind identifies the recognized shape of a streamed event payload.
type Kind int

const (
	// KindUnrecognized is a payload matching none of the known shapes.
	// It produces no display output and no fragment.
	KindUnrecognized Kind = iota

	// KindToolUse announces a tool invocation (tool_use or tool_call key).
	KindToolUse

	// KindToolResult reports a completed tool call. Result content is
	// display-only and capped; it never enters the transcript.
	KindToolResult

	// KindThinking carries model reasoning (thinking or reasoning key).
	KindThinking

	// KindStep marks a numbered agent step.
	KindStep

	// KindStatus is a lifecycle status update.
	KindStatus

	// KindContent is assistant text under a content key (string or
	// block list).
	KindContent

	// KindDelta is incremental assistant text under a delta key.
	KindDelta

	// KindText is assistant text under a bare text key.
	KindText

	// KindEventMarker labels a stream lifecycle event.
	KindEventMarker

	// KindPlainString is a payload that is itself a string, including
	// payloads that failed to parse as JSON.
	KindPlainString
)

var kindNames = map[Kind]string{
	KindUnrecognized: "unrecognized",
	KindToolUse:      "tool_use",
	KindToolResult:   "tool_result",
	KindThinking:     "thinking",
	KindStep:         "step",
	KindStatus:       "status",
	KindContent:      "content",
	KindDelta:        "delta",
	KindText:         "text",
	KindEventMarker:  "event_marker",
	KindPlainString:  "plain_string",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is the classification result for one streamed payload.
type Event struct {
	Kind Kind

	// Display is side-channel output for the terminal (tool banners, status
	// lines). It is never part of the transcript.
	Display string

	// Fragment is transcript text. Concatenating the fragments of a stream
	// in order yields the assistant's final response.
	Fragment string
}
