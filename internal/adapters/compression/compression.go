// Package compression binds negotiated compression methods to concrete
// codec implementations. Each codec owns one underlying stream state for one
// direction of one connection; the registry here only constructs and
// validates, it holds no state of its own.
package compression

import (
	"fmt"

	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/internal/core/ports"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

// Tuning bounds for DEFLATE, matching the zlib parameter ranges the
// negotiated values are drawn from.
const (
	MinWindowBits = 8
	MaxWindowBits = 15

	MinMemLevel = 1
	MaxMemLevel = 9

	MinLevel = 0
	MaxLevel = 9
)

// New constructs the codec bound to the given algorithm, initialized for the
// given direction. NoCompression needs no codec and yields (nil, nil); an
// algorithm with no binding yields a CodeUnsupportedAlgorithm failure, which
// context construction deliberately tolerates.
func New(
	algorithm domain.Algorithm,
	direction domain.Direction,
	params *domain.CompressionParams,
) (ports.Codec, error) {
	switch algorithm {
	case domain.Deflate:
		return newDeflate(direction, params)
	case domain.NoCompression:
		return nil, nil
	default:
		return nil, errors.New(
			errors.CodeUnsupportedAlgorithm, "compression.new",
			fmt.Errorf("no codec binding for algorithm %d", algorithm),
		)
	}
}

// Supported reports whether the algorithm has a codec binding.
func Supported(algorithm domain.Algorithm) bool {
	return algorithm == domain.Deflate
}

// Validate checks tuning parameters against the codec's accepted ranges.
func Validate(params *domain.CompressionParams) error {
	if params == nil {
		return errors.NewValidationError("params", nil, fmt.Errorf("compression params are required"))
	}

	if params.WindowBits < MinWindowBits || params.WindowBits > MaxWindowBits {
		return errors.NewValidationError(
			"windowBits", params.WindowBits,
			fmt.Errorf("window bits must be between %d and %d, got %d", MinWindowBits, MaxWindowBits, params.WindowBits),
		)
	}

	if params.MemLevel < MinMemLevel || params.MemLevel > MaxMemLevel {
		return errors.NewValidationError(
			"memLevel", params.MemLevel,
			fmt.Errorf("mem level must be between %d and %d, got %d", MinMemLevel, MaxMemLevel, params.MemLevel),
		)
	}

	if params.Level < MinLevel || params.Level > MaxLevel {
		return errors.NewValidationError(
			"level", params.Level,
			fmt.Errorf("compression level must be between %d and %d, got %d", MinLevel, MaxLevel, params.Level),
		)
	}

	return nil
}
