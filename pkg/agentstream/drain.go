package agentstream

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/decode"
	"github.com/spoolhq/spool/pkg/sse"
)

const (
	// fallbackReadSize is the read window for raw (non-SSE) bodies. Small
	// on purpose: it exercises the reassembly path and keeps partial JSON
	// latency low.
	fallbackReadSize = 64

	// sseReadSize is the read window for SSE bodies, where lines arrive
	// densely and larger reads cost nothing.
	sseReadSize = 1024

	// SSEContentType marks a streaming response body.
	SSEContentType = "text/event-stream"
)

// ErrDrainerReused is returned when Drain is called on a Drainer that has
// already completed a stream.
var ErrDrainerReused = errors.New("agentstream: drainer already completed")

type drainState int

const (
	stateNotStarted drainState = iota
	stateDraining
	stateComplete
)

// Drainer consumes one invocation response body, writes display output and
// transcript fragments to out as they arrive, and returns the assembled
// transcript. A Drainer handles exactly one stream.
type Drainer struct {
	out    io.Writer
	logger *zap.Logger
	state  drainState

	transcript strings.Builder
}

// NewDrainer returns a Drainer writing live output to out. A nil logger
// disables logging.
func NewDrainer(out io.Writer, logger *zap.Logger) *Drainer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Drainer{
		out:    out,
		logger: logger,
	}
}

// Transcript returns the fragments accumulated so far, concatenated in
// arrival order.
func (d *Drainer) Transcript() string {
	return d.transcript.String()
}

// Drain reads body to exhaustion, classifying frames as they complete.
// The SSE path activates when contentType carries text/event-stream;
// anything else takes the raw fallback path with small reads and
// incremental JSON accumulation.
//
// Drain returns the full transcript. On a read error it returns the partial
// transcript alongside the error.
func (d *Drainer) Drain(contentType string, body io.Reader) (string, error) {
	if d.state == stateComplete {
		return d.transcript.String(), ErrDrainerReused
	}
	d.state = stateDraining

	defer func() { d.state = stateComplete }()

	if strings.Contains(contentType, SSEContentType) {
		d.logger.Debug("draining stream", zap.String("mode", "sse"))
		return d.drainSSE(body)
	}

	d.logger.Debug("draining stream", zap.String("mode", "raw"), zap.Int("read_size", fallbackReadSize))
	return d.drainRaw(body)
}

func (d *Drainer) drainSSE(body io.Reader) (string, error) {
	asm := decode.NewAssembler()
	split := sse.NewSplitter()
	buf := make([]byte, sseReadSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range split.Feed(asm.Feed(buf[:n])) {
				d.handleLine(line)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return d.transcript.String(), fmt.Errorf("reading stream: %w", err)
		}
	}

	// Flush bytes held back mid-rune, then the final unterminated line.
	for _, line := range split.Feed(asm.Finalize()) {
		d.handleLine(line)
	}
	if line, ok := split.Flush(); ok {
		d.handleLine(line)
	}

	return d.transcript.String(), nil
}

func (d *Drainer) handleLine(line string) {
	payload, ok := sse.Payload(line)
	if !ok {
		return
	}

	d.emit(ClassifyFrame(payload))
}

func (d *Drainer) drainRaw(body io.Reader) (string, error) {
	asm := decode.NewAssembler()
	acc := NewAccumulator()
	buf := make([]byte, fallbackReadSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if value, ok := acc.Feed(asm.Feed(buf[:n])); ok {
				d.emit(Classify(value))
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return d.transcript.String(), fmt.Errorf("reading stream: %w", err)
		}
	}

	// End of stream: flush the assembler, give the accumulator one last
	// chance at a complete parse, then surface whatever never parsed as
	// literal text.
	if value, ok := acc.Feed(asm.Finalize()); ok {
		d.emit(Classify(value))
	} else if rest := acc.Rest(); rest != "" {
		d.writeFragment(rest)
	}

	return d.transcript.String(), nil
}

// emit renders one classified event: display output goes to the terminal
// only, fragments go to both the terminal and the transcript.
func (d *Drainer) emit(ev Event) {
	if ev.Display != "" {
		_, _ = io.WriteString(d.out, ev.Display)
	}

	if ev.Fragment != "" {
		d.writeFragment(ev.Fragment)
	}
}

func (d *Drainer) writeFragment(text string) {
	_, _ = io.WriteString(d.out, text)
	d.transcript.WriteString(text)
}
