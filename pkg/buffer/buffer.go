// Package buffer provides a growable owned byte buffer with an explicit
// capacity ceiling. It is the output-side primitive of the decompression
// growth loop: capacity rises in fixed, checked steps and can never exceed
// the ceiling fixed at construction, which is what bounds peak memory when
// decoding untrusted records.
package buffer

import (
	"fmt"
	"math"

	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

// Buffer is a write-once output buffer: bytes are appended through
// Tail/Advance, capacity grows through Grow, and the filled prefix is handed
// off through Bytes. Not safe for concurrent use.
type Buffer struct {
	data    []byte // capacity allocated so far; data[:written] is filled
	written int    // bytes written through Advance
	limit   int    // hard capacity ceiling, fixed at construction
}

// New creates a buffer with the given starting capacity and a hard capacity
// ceiling. The starting capacity is clamped into [0, limit].
func New(initial, limit int) *Buffer {
	if limit < 0 {
		limit = 0
	}
	if initial < 0 {
		initial = 0
	}
	if initial > limit {
		initial = limit
	}
	return &Buffer{data: make([]byte, initial), limit: limit}
}

// Grow raises capacity by increment, clamped to the ceiling. It reports
// whether any additional capacity was obtained; false with a nil error means
// the ceiling has been reached. A non-positive or overflowing increment is an
// allocation failure.
func (b *Buffer) Grow(increment int) (bool, error) {
	if increment <= 0 || increment > math.MaxInt-len(b.data) {
		return false, errors.New(
			errors.CodeAllocationFailed, "buffer.grow",
			fmt.Errorf("invalid growth increment %d at capacity %d", increment, len(b.data)),
		)
	}

	if len(b.data) >= b.limit {
		return false, nil
	}

	capacity := len(b.data) + increment
	if capacity > b.limit {
		capacity = b.limit
	}

	grown := make([]byte, capacity)
	copy(grown, b.data[:b.written])
	b.data = grown
	return true, nil
}

// Tail returns the unwritten region of the buffer. Callers fill some prefix
// of it and report the amount with Advance.
func (b *Buffer) Tail() []byte {
	return b.data[b.written:]
}

// Advance marks n more bytes of the tail as written.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > len(b.data)-b.written {
		panic(fmt.Sprintf("buffer: advance %d beyond tail of %d", n, len(b.data)-b.written))
	}
	b.written += n
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return b.written }

// Cap returns the currently allocated capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Free returns the unwritten capacity remaining before another Grow is needed.
func (b *Buffer) Free() int { return len(b.data) - b.written }

// Bytes returns the filled prefix, transferring ownership to the caller.
// The buffer must not be used afterwards.
func (b *Buffer) Bytes() []byte {
	out := b.data[:b.written:b.written]
	b.data = nil
	b.written = 0
	return out
}
