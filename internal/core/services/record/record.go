// Package record implements the compression transform of the transport
// record layer: a per-direction stateful context that compresses outgoing
// plaintext records before encryption and decompresses incoming records
// after decryption.
//
// A connection holds one context per direction. Each context owns its codec
// stream state across records and must be driven serially; two contexts are
// fully independent and may run in parallel. Cost is bounded by the size
// ceilings the caller passes per record, not by cancellation.
package record

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iamNilotpal/recordcomp/internal/adapters/compression"
	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/internal/core/ports"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

const (
	opInit       = "record.init"
	opCompress   = "record.compress"
	opDecompress = "record.decompress"
)

// Context carries one direction's compression state for the lifetime of a
// connection's compression method. Algorithm and direction never change
// after Init. The codec is nil when the algorithm is NoCompression or has no
// binding; transforms on such a context fail, they never crash.
type Context struct {
	algorithm domain.Algorithm
	direction domain.Direction
	codec     ports.Codec
	logger    *zap.SugaredLogger
}

// Options tunes context construction. Zero value is valid: the default
// parameter table is used and nothing is logged.
type Options struct {
	// Params overrides the tuning-parameter lookup for negotiated
	// algorithms. Defaults to the static built-in table.
	Params ports.ParamSource

	// Logger, when set, receives per-record debug output such as the
	// achieved compression ratio.
	Logger *zap.SugaredLogger
}

// Init creates a context for one algorithm and one direction with default
// options.
func Init(algorithm domain.Algorithm, direction domain.Direction) (*Context, error) {
	return InitWithOptions(algorithm, direction, Options{})
}

// InitWithOptions creates a context for one algorithm and one direction.
//
// NoCompression yields a context with no codec; callers route such records
// around the transform entirely. An algorithm with no codec binding also
// yields a codec-less context rather than failing construction: the failure
// surfaces as unsupported-algorithm on the first transform call instead.
// Codec initialization failures release all partially constructed state and
// return no context.
func InitWithOptions(
	algorithm domain.Algorithm,
	direction domain.Direction,
	opts Options,
) (*Context, error) {
	opts = prepareDefaults(opts)
	ctx := Context{algorithm: algorithm, direction: direction, logger: opts.Logger}

	if algorithm == domain.NoCompression || !compression.Supported(algorithm) {
		return &ctx, nil
	}

	params, err := opts.Params.Params(algorithm)
	if err != nil {
		return nil, errors.New(
			errors.CodeCodecInitFailed, opInit,
			fmt.Errorf("parameter lookup for %s: %w", algorithm, err),
		)
	}

	codec, err := compression.New(algorithm, direction, params)
	if err != nil {
		return nil, err
	}

	ctx.codec = codec
	return &ctx, nil
}

// Algorithm reports the method this context was created for.
func (c *Context) Algorithm() domain.Algorithm { return c.algorithm }

// Direction reports the direction this context was created for.
func (c *Context) Direction() domain.Direction { return c.direction }

// Compress transforms one plaintext record into its compressed form.
//
// The produced length is enforced against maxCompressedSize: exceeding the
// caller's budget is a failure, never a truncation. Success hands the output
// buffer to the caller and advances the codec's window history, so later
// records on this context may reference the current plaintext. On every
// failure path no output is returned.
func (c *Context) Compress(plain []byte, maxCompressedSize int) ([]byte, error) {
	if c == nil {
		return nil, errors.New(errors.CodeInternal, opCompress, fmt.Errorf("nil context"))
	}
	if c.algorithm == domain.NoCompression {
		return nil, errors.New(
			errors.CodeInternal, opCompress,
			fmt.Errorf("null compression must not be routed through the transform"),
		)
	}
	if c.codec == nil {
		return nil, errors.New(
			errors.CodeUnsupportedAlgorithm, opCompress,
			fmt.Errorf("no codec bound for algorithm %d", c.algorithm),
		)
	}

	compressed, err := c.codec.Compress(plain, maxCompressedSize)
	if err != nil {
		return nil, err
	}

	if c.logger != nil && len(plain) > 0 {
		c.logger.Debugw("compressed record",
			"algorithm", c.algorithm.String(),
			"plain", len(plain),
			"compressed", len(compressed),
			"ratio", float64(len(compressed))/float64(len(plain)),
		)
	}

	return compressed, nil
}

// Decompress transforms one compressed record back into plaintext.
//
// The declared input length is rejected before any decode work when it
// exceeds maxPlainSize plus a fixed slack, the first line of defense against
// oversized records. The decode itself grows output in bounded steps and the
// ceiling stays authoritative even when the codec succeeds: output longer
// than maxPlainSize is a failure. On every failure path no output is
// returned.
func (c *Context) Decompress(compressed []byte, maxPlainSize int) ([]byte, error) {
	if len(compressed) > maxPlainSize+domain.MaxCompressedSlack {
		return nil, errors.New(
			errors.CodeDecompressionFailed, opDecompress,
			fmt.Errorf("declared compressed size %d exceeds %d",
				len(compressed), maxPlainSize+domain.MaxCompressedSlack),
		)
	}

	if c == nil {
		return nil, errors.New(errors.CodeInternal, opDecompress, fmt.Errorf("nil context"))
	}
	if c.algorithm == domain.NoCompression {
		return nil, errors.New(
			errors.CodeInternal, opDecompress,
			fmt.Errorf("null compression must not be routed through the transform"),
		)
	}
	if c.codec == nil {
		return nil, errors.New(
			errors.CodeUnsupportedAlgorithm, opDecompress,
			fmt.Errorf("no codec bound for algorithm %d", c.algorithm),
		)
	}

	plain, err := c.codec.Decompress(compressed, maxPlainSize)
	if err != nil {
		return nil, err
	}

	if c.logger != nil && len(compressed) > 0 {
		c.logger.Debugw("decompressed record",
			"algorithm", c.algorithm.String(),
			"compressed", len(compressed),
			"plain", len(plain),
		)
	}

	return plain, nil
}

// Close releases the context's codec stream state. Teardown is best effort:
// finalize failures are not surfaced, the state is released regardless. Safe
// on a nil context and on a context whose construction bound no codec.
func (c *Context) Close() {
	if c == nil || c.codec == nil {
		return
	}

	if err := c.codec.Close(); err != nil && c.logger != nil {
		c.logger.Debugw("codec finalize reported failure",
			"algorithm", c.algorithm.String(),
			"direction", c.direction.String(),
			"error", err,
		)
	}
	c.codec = nil
}
