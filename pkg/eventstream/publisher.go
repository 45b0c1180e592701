package eventstream

import "context"

// Publisher delivers invocation events to an external consumer.
type Publisher interface {
	// PublishInvocation emits one completed-invocation event.
	PublishInvocation(ctx context.Context, ev *InvocationCompletedEvent) error

	// Close flushes and releases the publisher.
	Close() error
}
