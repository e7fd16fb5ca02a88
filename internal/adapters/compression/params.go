package compression

import (
	"fmt"

	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

// StaticParams is the default parameter table: fixed tuning values per
// algorithm, the shape the handshake layer's negotiated method table takes
// when nothing overrides it.
type StaticParams struct {
	table map[domain.Algorithm]domain.CompressionParams
}

// DefaultParams returns the tuning values used for an algorithm when the
// negotiation supplies none: the full 32KB window, standard memory level and
// a low effort level suited to small, latency sensitive records.
func DefaultParams(algorithm domain.Algorithm) *domain.CompressionParams {
	if algorithm != domain.Deflate {
		return nil
	}
	return &domain.CompressionParams{
		WindowBits: MaxWindowBits,
		MemLevel:   8,
		Level:      3,
	}
}

// NewStaticParams builds a parameter source preloaded with the default
// tuning values for every bound algorithm.
func NewStaticParams() *StaticParams {
	return &StaticParams{
		table: map[domain.Algorithm]domain.CompressionParams{
			domain.Deflate: *DefaultParams(domain.Deflate),
		},
	}
}

// Params returns the tuning values recorded for the algorithm.
func (s *StaticParams) Params(algorithm domain.Algorithm) (*domain.CompressionParams, error) {
	params, ok := s.table[algorithm]
	if !ok {
		return nil, errors.NewValidationError(
			"algorithm", algorithm,
			fmt.Errorf("no tuning parameters for algorithm %s", algorithm),
		)
	}
	return &params, nil
}

// Set records tuning values for an algorithm, replacing any previous entry.
func (s *StaticParams) Set(algorithm domain.Algorithm, params domain.CompressionParams) error {
	if err := Validate(&params); err != nil {
		return err
	}
	s.table[algorithm] = params
	return nil
}
