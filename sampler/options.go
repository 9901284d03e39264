package sampler

import "log/slog"

type Option interface {
	apply(*Orchestrator)
}

type loggerOption struct {
	log *slog.Logger
}

func (l loggerOption) apply(o *Orchestrator) {
	o.log = l.log
}

func WithLogger(log *slog.Logger) Option {
	return loggerOption{log: log}
}

type progressOption func(done, total int)

func (p progressOption) apply(o *Orchestrator) {
	o.progress = p
}

// WithProgress registers a callback invoked after each parcel finishes.
// The orchestrator itself does no IO, the callback is where a progress bar
// hooks in.
func WithProgress(fn func(done, total int)) Option {
	return progressOption(fn)
}
