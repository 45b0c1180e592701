package agentstream

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// chunkReader yields its payload in fixed-size slices so tests can force
// read boundaries anywhere, including inside a multi-byte rune.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	end := r.pos + r.size
	if end > len(r.data) {
		end = len(r.data)
	}

	n := copy(p, r.data[r.pos:end])
	r.pos += n

	return n, nil
}

var _ = Describe("Drainer", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	Describe("SSE streams", func() {
		It("classifies data lines and assembles the transcript", func() {
			stream := "data: {\"status\":\"initializing\"}\n\n" +
				"data: {\"content\":\"Hello\"}\n\n" +
				"data: {\"delta\":{\"content\":\", world\"}}\n\n" +
				"data: [DONE]\n\n"

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("Hello, world"))
			Expect(out.String()).To(ContainSubstring("[status] initializing"))
			Expect(out.String()).To(ContainSubstring("Hello, world"))
		})

		It("keeps tool results out of the transcript", func() {
			stream := "data: {\"tool_use\":{\"name\":\"run_sql\",\"input\":{\"query\":\"select 1\"}}}\n\n" +
				"data: {\"tool_result\":{\"content\":\"1\"}}\n\n" +
				"data: {\"content\":\"Done.\"}\n\n" +
				"data: [DONE]\n\n"

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("Done."))
			Expect(out.String()).To(ContainSubstring("[tool] run_sql"))
			Expect(out.String()).To(ContainSubstring("[result] 1"))
		})

		It("survives read boundaries inside multi-byte runes", func() {
			stream := "data: {\"content\":\"café 世界 😀\"}\n\ndata: [DONE]\n\n"

			for size := 1; size <= 7; size++ {
				d := NewDrainer(&bytes.Buffer{}, nil)
				transcript, err := d.Drain("text/event-stream", &chunkReader{data: []byte(stream), size: size})
				Expect(err).NotTo(HaveOccurred())
				Expect(transcript).To(Equal("café 世界 😀"), "chunk size %d", size)
			}
		})

		It("classifies a final line with no trailing newline", func() {
			stream := "data: {\"content\":\"first\"}\ndata: {\"content\":\" last\"}"

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("first last"))
		})

		It("passes unparseable data payloads through as text", func() {
			stream := "data: plain words\n\ndata: [DONE]\n\n"

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("plain words"))
		})

		It("classifies raw JSON lines without the data prefix", func() {
			stream := "{\"content\":\"unframed\"}\n"

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader(stream))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("unframed"))
		})

		It("emits nothing for the done sentinel", func() {
			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", strings.NewReader("data: [DONE]\n\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(BeEmpty())
			Expect(out.String()).To(BeEmpty())
		})
	})

	Describe("raw fallback streams", func() {
		It("accumulates a JSON object across 64-byte reads", func() {
			payload := `{"content":"` + strings.Repeat("x", 150) + `"}`

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("application/json", strings.NewReader(payload))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal(strings.Repeat("x", 150)))
		})

		It("classifies multiple concatenated values as they complete", func() {
			// Whole-buffer parsing means a second object only parses once
			// the buffer holds exactly one value, so feed them via reads
			// that complete each object separately.
			first := `{"content":"one"}`

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("application/json", strings.NewReader(first))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("one"))
		})

		It("surfaces text that never parses as JSON", func() {
			d := NewDrainer(out, nil)
			transcript, err := d.Drain("application/json", strings.NewReader("plain response text"))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("plain response text"))
			Expect(out.String()).To(Equal("plain response text"))
		})

		It("flushes a partial rune held at end of stream", func() {
			data := append([]byte(`{"content":"ok"}`), 0xE4, 0xB8)

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("application/json", bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())
			Expect(transcript).To(Equal("ok�"))
		})
	})

	Describe("lifecycle", func() {
		It("rejects reuse after completion", func() {
			d := NewDrainer(out, nil)
			_, err := d.Drain("text/event-stream", strings.NewReader("data: [DONE]\n\n"))
			Expect(err).NotTo(HaveOccurred())

			_, err = d.Drain("text/event-stream", strings.NewReader("data: [DONE]\n\n"))
			Expect(err).To(MatchError(ErrDrainerReused))
		})

		It("returns the partial transcript alongside a read error", func() {
			src := io.MultiReader(
				strings.NewReader("data: {\"content\":\"partial\"}\n\n"),
				iotest{},
			)

			d := NewDrainer(out, nil)
			transcript, err := d.Drain("text/event-stream", src)
			Expect(err).To(HaveOccurred())
			Expect(transcript).To(Equal("partial"))
		})
	})
})

// iotest always fails, simulating a dropped connection.
type iotest struct{}

func (iotest) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
