// Package nop provides a Publisher that discards all events, for runs where
// event publishing is disabled.
package nop

import (
	"context"

	"github.com/spoolhq/spool/pkg/eventstream"
)

// Publisher implements eventstream.Publisher by dropping everything.
type Publisher struct{}

// NewPublisher returns a no-op publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishInvocation(_ context.Context, ev *eventstream.InvocationCompletedEvent) error {
	if ev == nil {
		return eventstream.ErrNilEvent
	}
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
