package kmlparser

import "log/slog"

type options struct {
	log *slog.Logger
}

type Option func(*options)

// WithLogger routes parse diagnostics to log instead of slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
