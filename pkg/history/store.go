// Package history defines the invocation history store interface and the
// invocation record persisted after each agent run.
package history

import (
	"context"
	"time"
)

// Invocation is one completed agent invocation.
type Invocation struct {
	// ID is a UUID assigned when the record is created.
	ID string

	RuntimeARN string
	SessionID  string

	// Prompt is the user input sent to the runtime.
	Prompt string

	// Transcript is the assembled assistant response: stream fragments
	// concatenated in arrival order, tool chatter excluded.
	Transcript string

	CreatedAt time.Time
}

// Store defines the interface for persisting and retrieving invocations in
// a storage backend.
type Store interface {
	// Put stores an invocation record.
	Put(ctx context.Context, inv *Invocation) error

	// Get retrieves an invocation by its ID.
	Get(ctx context.Context, id string) (*Invocation, error)

	// List returns up to limit invocations, most recent first.
	// A limit of 0 means no limit.
	List(ctx context.Context, limit int) ([]*Invocation, error)

	// Close closes the store and releases any resources.
	Close() error
}
