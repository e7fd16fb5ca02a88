package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/internal/core/ports"
	"github.com/iamNilotpal/recordcomp/pkg/buffer"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

// deflateCodec is the DEFLATE stream bound to one direction of one
// connection. The compress side keeps a single persistent flate writer whose
// window survives sync flushes, so later records may back-reference earlier
// plaintext. The decompress side keeps the trailing window of cumulative
// output and primes the inflater with it per record; sync flush ends every
// record on a byte-aligned block boundary, which makes the per-record reset
// equivalent to one continuous inflate stream.
//
// Not safe for concurrent use. Records on one connection are ordered, so the
// caller's natural serialization is the expected locking.
type deflateCodec struct {
	direction domain.Direction
	params    domain.CompressionParams

	// Compress direction only.
	sink       recordSink
	compressor *flate.Writer

	// Decompress direction only.
	src      *bytes.Reader
	inflater io.ReadCloser
	resetter flate.Resetter
	window   []byte
}

// recordSink collects the compressor's output for the current record. The
// accumulated slice is handed to the caller whole, so the codec never
// retains output past the call that produced it.
type recordSink struct {
	buf []byte
}

func (s *recordSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// newDeflate initializes DEFLATE stream state for one direction. A codec is
// only ever usable in the direction it was initialized for.
func newDeflate(direction domain.Direction, params *domain.CompressionParams) (ports.Codec, error) {
	if err := Validate(params); err != nil {
		return nil, errors.New(errors.CodeCodecInitFailed, "deflate.init", err)
	}

	codec := deflateCodec{direction: direction, params: *params}

	if direction == domain.DirectionCompress {
		compressor, err := flate.NewWriter(&codec.sink, params.Level)
		if err != nil {
			return nil, errors.New(errors.CodeCodecInitFailed, "deflate.init", err)
		}
		codec.compressor = compressor
		return &codec, nil
	}

	codec.src = bytes.NewReader(nil)
	inflater := flate.NewReader(codec.src)
	resetter, ok := inflater.(flate.Resetter)
	if !ok {
		inflater.Close()
		return nil, errors.New(
			errors.CodeCodecInitFailed, "deflate.init",
			fmt.Errorf("inflater does not support dictionary resets"),
		)
	}

	codec.inflater = inflater
	codec.resetter = resetter
	return &codec, nil
}

func (c *deflateCodec) Algorithm() domain.Algorithm {
	return domain.Deflate
}

// Compress encodes one plaintext record with a sync flush, draining all
// output for the record in a single call while keeping the window for the
// next one.
func (c *deflateCodec) Compress(plain []byte, maxCompressedSize int) ([]byte, error) {
	const op = "deflate.compress"

	if c.compressor == nil {
		return nil, errors.New(
			errors.CodeInternal, op,
			fmt.Errorf("codec was initialized for the %s direction", c.direction),
		)
	}

	bound := domain.CompressBound(len(plain))
	c.sink.buf = make([]byte, 0, bound)

	n, err := c.compressor.Write(plain)
	if err != nil || n != len(plain) {
		c.sink.buf = nil
		if err == nil {
			err = fmt.Errorf("codec consumed %d of %d input bytes", n, len(plain))
		}
		return nil, errors.New(errors.CodeCompressionFailed, op, err)
	}

	if err := c.compressor.Flush(); err != nil {
		c.sink.buf = nil
		return nil, errors.New(errors.CodeCompressionFailed, op, err)
	}

	compressed := c.sink.buf
	c.sink.buf = nil

	if len(compressed) > bound {
		return nil, errors.New(
			errors.CodeCompressionFailed, op,
			fmt.Errorf("compressed size %d exceeds worst-case bound %d", len(compressed), bound),
		)
	}

	if len(compressed) > maxCompressedSize {
		return nil, errors.New(
			errors.CodeCompressionFailed, op,
			fmt.Errorf("compressed size %d exceeds ceiling %d", len(compressed), maxCompressedSize),
		)
	}

	return compressed, nil
}

// Decompress decodes one compressed record. Output capacity starts at twice
// the compressed length and grows by fixed increments under a hard
// allocation limit tied to the plaintext ceiling, which bounds peak memory
// against decompression bombs.
func (c *deflateCodec) Decompress(compressed []byte, maxPlainSize int) ([]byte, error) {
	const op = "deflate.decompress"

	if c.inflater == nil {
		return nil, errors.New(
			errors.CodeInternal, op,
			fmt.Errorf("codec was initialized for the %s direction", c.direction),
		)
	}

	// Zero input can never decode: even an empty record carries the sync
	// flush marker.
	if len(compressed) == 0 {
		return nil, errors.New(
			errors.CodeDecompressionFailed, op,
			fmt.Errorf("empty compressed record"),
		)
	}

	c.src.Reset(compressed)
	// Input buffers are only borrowed for the duration of the call.
	defer c.src.Reset(nil)

	if err := c.resetter.Reset(c.src, c.window); err != nil {
		return nil, errors.New(errors.CodeDecompressionFailed, op, err)
	}

	// Capacity may start above the plaintext ceiling (incompressible
	// records), so the allocation limit is whichever is larger plus one
	// growth step. The declared-size pre-check upstream keeps the initial
	// capacity itself O(maxPlainSize).
	initial := domain.DecompressInitialCap(len(compressed))
	limit := maxPlainSize
	if initial > limit {
		limit = initial
	}
	out := buffer.New(initial, limit+domain.DecompressGrowth)

	for {
		grew, err := out.Grow(domain.DecompressGrowth)
		if err != nil {
			return nil, err
		}
		if !grew {
			return nil, errors.New(
				errors.CodeDecompressionFailed, op,
				fmt.Errorf("decompressed size exceeds ceiling %d", maxPlainSize),
			)
		}

		err = c.fill(out)
		if err == nil {
			// Output space exhausted with the record still decoding.
			continue
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if c.src.Len() > 0 {
				return nil, errors.New(
					errors.CodeDecompressionFailed, op,
					fmt.Errorf("codec finished with %d input bytes unconsumed", c.src.Len()),
				)
			}
			break
		}
		return nil, errors.New(errors.CodeDecompressionFailed, op, err)
	}

	if out.Len() > maxPlainSize {
		return nil, errors.New(
			errors.CodeDecompressionFailed, op,
			fmt.Errorf("decompressed size %d exceeds ceiling %d", out.Len(), maxPlainSize),
		)
	}

	plain := out.Bytes()
	c.retain(plain)
	return plain, nil
}

// fill drains decoded bytes into the buffer's tail until the tail is full or
// the codec reports a condition. A sync-flushed record signals its end as an
// unexpected EOF once all input is consumed.
func (c *deflateCodec) fill(out *buffer.Buffer) error {
	for out.Free() > 0 {
		n, err := c.inflater.Read(out.Tail())
		out.Advance(n)
		if err != nil {
			return err
		}
	}
	return nil
}

// retain keeps the trailing window of cumulative decompressed output as the
// dictionary for the next record. The plain slice is copied, never aliased:
// ownership of it has already passed to the caller.
func (c *deflateCodec) retain(plain []byte) {
	if len(plain) >= domain.MaxWindowSize {
		c.window = append(c.window[:0], plain[len(plain)-domain.MaxWindowSize:]...)
		return
	}

	c.window = append(c.window, plain...)
	if len(c.window) > domain.MaxWindowSize {
		c.window = append(c.window[:0], c.window[len(c.window)-domain.MaxWindowSize:]...)
	}
}

// Close finalizes the direction-appropriate stream state. Teardown is best
// effort: the state is released exactly once regardless of what finalize
// reports.
func (c *deflateCodec) Close() error {
	var err error

	if c.compressor != nil {
		err = c.compressor.Close()
		c.compressor = nil
	}

	if c.inflater != nil {
		if cerr := c.inflater.Close(); err == nil {
			err = cerr
		}
		c.inflater = nil
		c.resetter = nil
	}

	c.window = nil
	c.sink.buf = nil
	return err
}
