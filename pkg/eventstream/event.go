// Package eventstream defines the versioned events spool emits when an
// invocation completes, plus the Publisher interface backends implement.
package eventstream

import "time"

// SchemaVersionV1 is the first version of the invocation event schema.
const SchemaVersionV1 = 1

// EventTypeInvocationCompleted labels a completed-invocation event.
const EventTypeInvocationCompleted = "spool.invocation.completed"

// EventSource identifies where an invocation ran.
type EventSource struct {
	RuntimeARN string `json:"runtime_arn"`
	SessionID  string `json:"session_id"`
}

// InvocationMeta carries the measurable facts of one invocation. The
// transcript itself stays out of the event; consumers that need it read
// the history store by invocation ID.
type InvocationMeta struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationMs      int64     `json:"duration_ms"`
	Streaming       bool      `json:"streaming"`
	TranscriptChars int       `json:"transcript_chars"`
}

// InvocationCompletedEvent is emitted after an invocation's transcript has
// been assembled and persisted.
type InvocationCompletedEvent struct {
	SchemaVersion int            `json:"schema_version"`
	EventType     string         `json:"event_type"`
	EventID       string         `json:"event_id"`
	EmittedAt     time.Time      `json:"emitted_at"`
	Source        EventSource    `json:"source"`
	Invocation    InvocationMeta `json:"invocation"`
}
