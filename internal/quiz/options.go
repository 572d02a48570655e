package quiz

import (
	"log/slog"

	"github.com/abhisek/langquiz/internal/observe"
)

type options struct {
	metrics    *observe.Metrics
	logger     *slog.Logger
	structured bool
}

// Option configures a Generator or Evaluator.
type Option func(*options)

// WithMetrics records pipeline outcomes.
func WithMetrics(m *observe.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStructuredOutput sends the response schema to providers that support
// native JSON output. For a Generator it is the same as
// Config.StructuredOutput.
func WithStructuredOutput(on bool) Option {
	return func(o *options) { o.structured = on }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
