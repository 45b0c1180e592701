package inmemory_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolhq/spool/pkg/history"
	"github.com/spoolhq/spool/pkg/history/inmemory"
)

var _ = Describe("Store", func() {
	var (
		store *inmemory.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		store = inmemory.NewStore()
		ctx = context.Background()
	})

	It("round-trips an invocation", func() {
		inv := &history.Invocation{
			ID:         uuid.NewString(),
			SessionID:  "spool-session",
			Prompt:     "hello",
			Transcript: "hi there",
			CreatedAt:  time.Now(),
		}
		Expect(store.Put(ctx, inv)).To(Succeed())

		got, err := store.Get(ctx, inv.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Transcript).To(Equal("hi there"))
	})

	It("copies records so callers cannot mutate stored state", func() {
		inv := &history.Invocation{ID: "a", Transcript: "original"}
		Expect(store.Put(ctx, inv)).To(Succeed())

		inv.Transcript = "mutated"

		got, err := store.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Transcript).To(Equal("original"))
	})

	It("returns ErrNotFound for unknown IDs", func() {
		_, err := store.Get(ctx, "missing")
		Expect(err).To(MatchError(history.ErrNotFound{ID: "missing"}))
	})

	It("lists most recent first with a limit", func() {
		now := time.Now()
		for i, id := range []string{"old", "mid", "new"} {
			Expect(store.Put(ctx, &history.Invocation{
				ID:        id,
				CreatedAt: now.Add(time.Duration(i) * time.Minute),
			})).To(Succeed())
		}

		result, err := store.List(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(HaveLen(2))
		Expect(result[0].ID).To(Equal("new"))
		Expect(result[1].ID).To(Equal("mid"))
	})
})
