package planquery

import "log/slog"

type options struct {
	searchRadius float64
	log          *slog.Logger
}

type Option interface {
	apply(*options)
}

type searchRadiusOption float64

func (r searchRadiusOption) apply(o *options) {
	o.searchRadius = float64(r)
}

// WithSearchRadius sets how far Nearest looks, in degrees.
// Default: 0.01.
func WithSearchRadius(radius float64) Option {
	return searchRadiusOption(radius)
}

type loggerOption struct {
	log *slog.Logger
}

func (l loggerOption) apply(o *options) {
	o.log = l.log
}

// WithLogger routes index diagnostics to log instead of slog.Default.
func WithLogger(log *slog.Logger) Option {
	return loggerOption{log: log}
}

func loadOptions(opts ...Option) options {
	o := options{
		searchRadius: defaultSearchRadius,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}
