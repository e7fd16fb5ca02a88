package record

import "github.com/iamNilotpal/recordcomp/internal/adapters/compression"

func prepareDefaults(opts Options) Options {
	if opts.Params == nil {
		opts.Params = compression.NewStaticParams()
	}
	return opts
}
