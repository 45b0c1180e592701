// Package worker provides an asynchronous worker pool for persisting
// completed invocations using the provided history.Store and publishing
// completion events using the provided eventstream.Publisher.
//
// The pool decouples persistence from the CLI's interactive path so the
// terminal returns to the user as soon as the stream finishes.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/eventstream"
	"github.com/spoolhq/spool/pkg/history"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256

	// jobTimeout bounds each persistence attempt so a wedged backend
	// cannot hold up shutdown indefinitely.
	jobTimeout = 30 * time.Second
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Invocation *history.Invocation

	// StartedAt and CompletedAt bound the invocation for the emitted event.
	StartedAt   time.Time
	CompletedAt time.Time

	// Streaming records whether the response took the SSE path.
	Streaming bool
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Store is the history backend for persisting invocations.
	Store history.Store

	// Publisher is the optional event publisher. Nil disables publishing.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Pool processes history jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("a history store is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			zap.String("invocation_id", job.Invocation.ID),
			zap.String("session_id", job.Invocation.SessionID),
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			zap.String("invocation_id", job.Invocation.ID),
			zap.String("session_id", job.Invocation.SessionID),
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this before the CLI exits so queued invocations are not lost.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker continuously pulls jobs off the queue until it closes.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()

	for job := range p.queue {
		p.process(id, job)
	}
}

func (p *Pool) process(id uint, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if job.Invocation == nil {
		p.logger.Error("job with nil invocation dropped", zap.Uint("worker", id))
		return
	}

	if err := p.config.Store.Put(ctx, job.Invocation); err != nil {
		p.logger.Error("failed to persist invocation",
			zap.Uint("worker", id),
			zap.String("invocation_id", job.Invocation.ID),
			zap.Error(err),
		)
		return
	}

	if p.config.Publisher == nil {
		return
	}

	ev := &eventstream.InvocationCompletedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeInvocationCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: eventstream.EventSource{
			RuntimeARN: job.Invocation.RuntimeARN,
			SessionID:  job.Invocation.SessionID,
		},
		Invocation: eventstream.InvocationMeta{
			ID:              job.Invocation.ID,
			StartedAt:       job.StartedAt,
			CompletedAt:     job.CompletedAt,
			DurationMs:      job.CompletedAt.Sub(job.StartedAt).Milliseconds(),
			Streaming:       job.Streaming,
			TranscriptChars: len(job.Invocation.Transcript),
		},
	}

	if err := p.config.Publisher.PublishInvocation(ctx, ev); err != nil {
		p.logger.Error("failed to publish invocation event",
			zap.Uint("worker", id),
			zap.String("invocation_id", job.Invocation.ID),
			zap.Error(err),
		)
	}
}
