package ports

import "github.com/iamNilotpal/recordcomp/internal/core/domain"

// Codec is the stream-state boundary between the record service and a
// concrete compression backend. One codec instance is bound to exactly one
// algorithm and one direction for its whole lifetime; its internal stream
// state (window history) carries across calls, so a codec must never be
// shared between contexts or invoked concurrently.
type Codec interface {
	// Compress transforms one plaintext record. The produced length is
	// checked against maxCompressedSize; exceeding it is a failure, never
	// a truncation. The returned buffer is owned by the caller.
	Compress(plain []byte, maxCompressedSize int) ([]byte, error)

	// Decompress transforms one compressed record, growing its output
	// buffer in bounded steps up to maxPlainSize. The returned buffer is
	// owned by the caller.
	Decompress(compressed []byte, maxPlainSize int) ([]byte, error)

	// Algorithm reports the method this codec was built for.
	Algorithm() domain.Algorithm

	// Close releases the codec's stream state. Best effort: finalize
	// failures are reported but the state is released regardless.
	Close() error
}

// ParamSource looks up the tuning parameters for a negotiated algorithm.
// The record layer never hardcodes tuning values; they come from whatever
// table the handshake layer negotiated against.
type ParamSource interface {
	Params(algorithm domain.Algorithm) (*domain.CompressionParams, error)
}
