package domain

import "fmt"

// Algorithm identifies the compression method negotiated for a connection.
// Values follow the transport protocol's compression-method registry, so an
// Algorithm can be stored directly from a negotiated method identifier.
type Algorithm uint8

const (
	// NoCompression is the identity method. Records using it bypass the
	// compression layer entirely; a context created for it carries no codec.
	NoCompression Algorithm = 0

	// Deflate is the DEFLATE stream compression method. Records compressed
	// with it share one codec stream per direction, so window history from
	// earlier records stays referenceable by later ones.
	Deflate Algorithm = 1
)

// String returns the protocol-facing name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case NoCompression:
		return "null"
	case Deflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a protocol-facing method name to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "null":
		return NoCompression, nil
	case "deflate":
		return Deflate, nil
	default:
		return NoCompression, fmt.Errorf("unknown compression method: %q", name)
	}
}

// Direction fixes a context to one half of a connection. A context created
// for one direction must only ever service that direction; a connection
// needing both holds two independent contexts.
type Direction uint8

const (
	// DirectionCompress marks a context used on the sending side,
	// compressing plaintext records before encryption.
	DirectionCompress Direction = 0

	// DirectionDecompress marks a context used on the receiving side,
	// decompressing records after decryption. Any non-zero value is
	// treated as decompress.
	DirectionDecompress Direction = 1
)

// String returns a human readable direction name.
func (d Direction) String() string {
	if d == DirectionCompress {
		return "compress"
	}
	return "decompress"
}

// CompressionParams carries the tuning values looked up for a negotiated
// algorithm. They come from an external parameter table, not from this layer.
type CompressionParams struct {
	// WindowBits sets the codec's history window as a power of two.
	// DEFLATE accepts 8 through 15; the record layer negotiates the full
	// 32KB window (15) unless constrained by the peer.
	WindowBits int

	// MemLevel tunes how much internal state the compressor keeps (1-9).
	// Higher values trade memory for speed and ratio.
	MemLevel int

	// Level is the compression effort (0-9). Record layers favor low
	// levels: records are small and latency matters more than ratio.
	Level int
}

// Sizing policy for the transform operations. These are deliberate policy
// constants, not derived values; changing them changes the byte-exact
// behavior of the layer and must stay in sync with peer expectations.
const (
	// CompressOverhead pads the compressed-output bound beyond twice the
	// plaintext length, covering codec framing and the sync flush marker
	// on incompressible input.
	CompressOverhead = 10

	// DecompressGrowth is the increment, in bytes, by which the output
	// buffer grows on each iteration of the decompression growth loop.
	DecompressGrowth = 512

	// MaxCompressedSlack is how far a record's compressed length may
	// exceed the plaintext ceiling before the record is rejected outright,
	// ahead of any decode work. Compression can expand adversarial input
	// slightly; this bounds how much expansion a peer may declare.
	MaxCompressedSlack = 2048

	// MaxWindowSize is the DEFLATE history window: the number of trailing
	// plaintext bytes later records may back-reference.
	MaxWindowSize = 1 << 15
)

// CompressBound returns the worst-case compressed size allocated for a
// plaintext of n bytes before the codec runs.
func CompressBound(n int) int {
	return 2*n + CompressOverhead
}

// DecompressInitialCap returns the starting output capacity for decoding a
// compressed record of n bytes, before the growth loop takes over.
func DecompressInitialCap(n int) int {
	return 2 * n
}
