// Package decode reassembles text from a byte stream whose read boundaries
// can land in the middle of a multi-byte UTF-8 sequence. Network reads hand
// back arbitrary byte windows; the Assembler holds back a trailing partial
// rune until the bytes that complete it arrive.
package decode

import (
	"strings"
	"unicode/utf8"
)

// Assembler accumulates raw bytes and emits the longest decodable prefix on
// each Feed. At most utf8.UTFMax-1 bytes are ever held back between calls.
//
// Invalid byte sequences in the interior of the stream are replaced with
// U+FFFD rather than dropped, so downstream consumers always receive valid
// UTF-8 and never lose alignment.
type Assembler struct {
	pending []byte
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Feed appends chunk to the pending bytes and returns all text that can be
// decoded so far. A trailing incomplete rune is retained for the next call.
func (a *Assembler) Feed(chunk []byte) string {
	a.pending = append(a.pending, chunk...)

	keep := trailingIncomplete(a.pending)
	cut := len(a.pending) - keep

	out := lossyString(a.pending[:cut])

	// Shift the held-back tail to the front rather than re-slicing, so the
	// buffer never grows unboundedly across a long stream.
	copy(a.pending, a.pending[cut:])
	a.pending = a.pending[:keep]

	return out
}

// Finalize flushes any held-back bytes. A partial rune left at end of stream
// can never complete, so it decodes lossily (U+FFFD per undecodable byte run).
func (a *Assembler) Finalize() string {
	out := lossyString(a.pending)
	a.pending = a.pending[:0]
	return out
}

// trailingIncomplete reports how many bytes at the end of p form an
// incomplete UTF-8 sequence that a future read could complete. Only the last
// utf8.UTFMax bytes can matter; anything older is either complete or
// permanently invalid.
func trailingIncomplete(p []byte) int {
	n := len(p)
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax; i-- {
		if !utf8.RuneStart(p[i]) {
			continue
		}
		if !utf8.FullRune(p[i:]) {
			return n - i
		}
		return 0
	}
	return 0
}

// lossyString decodes p, substituting U+FFFD for invalid sequences.
func lossyString(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	return strings.ToValidUTF8(string(p), string(utf8.RuneError))
}
