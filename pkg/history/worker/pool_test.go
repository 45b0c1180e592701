package worker_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolhq/spool/pkg/eventstream"
	"github.com/spoolhq/spool/pkg/history"
	"github.com/spoolhq/spool/pkg/history/inmemory"
	"github.com/spoolhq/spool/pkg/history/worker"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []*eventstream.InvocationCompletedEvent
}

func (p *capturePublisher) PublishInvocation(_ context.Context, ev *eventstream.InvocationCompletedEvent) error {
	if ev == nil {
		return eventstream.ErrNilEvent
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)

	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func (p *capturePublisher) published() []*eventstream.InvocationCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*eventstream.InvocationCompletedEvent(nil), p.events...)
}

var _ = Describe("Pool", func() {
	var (
		store     *inmemory.Store
		publisher *capturePublisher
	)

	BeforeEach(func() {
		store = inmemory.NewStore()
		publisher = &capturePublisher{}
	})

	It("requires a store", func() {
		_, err := worker.NewPool(&worker.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("persists enqueued invocations before Close returns", func() {
		pool, err := worker.NewPool(&worker.Config{Store: store})
		Expect(err).NotTo(HaveOccurred())

		inv := &history.Invocation{ID: "inv-1", SessionID: "s", Transcript: "done"}
		Expect(pool.Enqueue(worker.Job{Invocation: inv})).To(BeTrue())

		pool.Close()

		got, err := store.Get(context.Background(), "inv-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Transcript).To(Equal("done"))
	})

	It("publishes a completion event with invocation metadata", func() {
		pool, err := worker.NewPool(&worker.Config{Store: store, Publisher: publisher})
		Expect(err).NotTo(HaveOccurred())

		started := time.Now().Add(-2 * time.Second)
		completed := time.Now()

		inv := &history.Invocation{
			ID:         "inv-2",
			RuntimeARN: "arn:demo",
			SessionID:  "spool-abc",
			Transcript: "hello",
		}
		Expect(pool.Enqueue(worker.Job{
			Invocation:  inv,
			StartedAt:   started,
			CompletedAt: completed,
			Streaming:   true,
		})).To(BeTrue())

		pool.Close()

		events := publisher.published()
		Expect(events).To(HaveLen(1))

		ev := events[0]
		Expect(ev.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(ev.EventType).To(Equal(eventstream.EventTypeInvocationCompleted))
		Expect(ev.EventID).NotTo(BeEmpty())
		Expect(ev.Source.SessionID).To(Equal("spool-abc"))
		Expect(ev.Invocation.ID).To(Equal("inv-2"))
		Expect(ev.Invocation.Streaming).To(BeTrue())
		Expect(ev.Invocation.TranscriptChars).To(Equal(5))
		Expect(ev.Invocation.DurationMs).To(BeNumerically(">=", 2000))
	})

	It("drops jobs when the queue is full", func() {
		block := make(chan struct{})
		blocking := &blockingStore{Store: store, release: block}

		pool, err := worker.NewPool(&worker.Config{
			Store:      blocking,
			NumWorkers: 1,
			QueueSize:  1,
		})
		Expect(err).NotTo(HaveOccurred())

		// First job occupies the single worker, second fills the queue.
		Expect(pool.Enqueue(worker.Job{Invocation: &history.Invocation{ID: "a"}})).To(BeTrue())
		Eventually(blocking.busy).Should(BeTrue())
		Expect(pool.Enqueue(worker.Job{Invocation: &history.Invocation{ID: "b"}})).To(BeTrue())

		// Queue is now full.
		Expect(pool.Enqueue(worker.Job{Invocation: &history.Invocation{ID: "c"}})).To(BeFalse())

		close(block)
		pool.Close()
	})
})

// blockingStore holds Put until released, to fill the pool's queue in tests.
type blockingStore struct {
	history.Store

	mu      sync.Mutex
	started bool
	release chan struct{}
}

func (b *blockingStore) Put(ctx context.Context, inv *history.Invocation) error {
	b.mu.Lock()
	b.started = true
	b.mu.Unlock()

	<-b.release

	return b.Store.Put(ctx, inv)
}

func (b *blockingStore) busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started
}
