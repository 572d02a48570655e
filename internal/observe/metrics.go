// Package observe provides the application's observability primitives:
// OpenTelemetry metric instruments for the practice pipeline and slog
// logger construction.
//
// Instruments are created from any [metric.MeterProvider]. [DefaultMetrics]
// uses the global provider (a no-op unless one is installed); tests should
// use [NewMetrics] with an SDK provider and a manual reader.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/abhisek/langquiz"

// Metrics holds all metric instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// GenerationDuration tracks model call latency. Attributes: purpose, status.
	GenerationDuration metric.Float64Histogram

	// GenerationRequests counts model calls. Attributes: purpose, status.
	GenerationRequests metric.Int64Counter

	// QuestionsGenerated counts questions that passed validation.
	QuestionsGenerated metric.Int64Counter

	// ParseFailures counts model responses that could not be used.
	// Attribute: kind ("question", "feedback", "translation", ...).
	ParseFailures metric.Int64Counter

	// FeedbackFallbacks counts feedback built without a usable model verdict.
	// Attribute: reason.
	FeedbackFallbacks metric.Int64Counter

	// VerdictDisagreements counts feedback where the model verdict differed
	// from the locally computed one. Attribute: policy.
	VerdictDisagreements metric.Int64Counter

	// RetrievedExamples tracks how many examples each search returned.
	RetrievedExamples metric.Int64Histogram

	// HandwritingVerdicts counts handwriting reviews. Attributes: verdict, source.
	HandwritingVerdicts metric.Int64Counter
}

var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.GenerationDuration, err = m.Float64Histogram("langquiz.generation.duration",
		metric.WithDescription("Latency of model generation calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GenerationRequests, err = m.Int64Counter("langquiz.generation.requests",
		metric.WithDescription("Model generation calls by purpose and status."),
	); err != nil {
		return nil, err
	}
	if met.QuestionsGenerated, err = m.Int64Counter("langquiz.questions.generated",
		metric.WithDescription("Quiz questions generated and validated."),
	); err != nil {
		return nil, err
	}
	if met.ParseFailures, err = m.Int64Counter("langquiz.parse.failures",
		metric.WithDescription("Model responses that could not be parsed."),
	); err != nil {
		return nil, err
	}
	if met.FeedbackFallbacks, err = m.Int64Counter("langquiz.feedback.fallbacks",
		metric.WithDescription("Feedback produced without a usable model verdict."),
	); err != nil {
		return nil, err
	}
	if met.VerdictDisagreements, err = m.Int64Counter("langquiz.feedback.disagreements",
		metric.WithDescription("Feedback where model and local correctness differed."),
	); err != nil {
		return nil, err
	}
	if met.RetrievedExamples, err = m.Int64Histogram("langquiz.retrieval.examples",
		metric.WithDescription("Examples returned per similarity search."),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	); err != nil {
		return nil, err
	}
	if met.HandwritingVerdicts, err = m.Int64Counter("langquiz.handwriting.verdicts",
		metric.WithDescription("Handwriting reviews by verdict and verdict source."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns a Metrics bound to the global meter provider.
// Returns nil if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err == nil {
			defaultMetrics = m
		}
	})
	return defaultMetrics
}

func status(kind string) string {
	if kind == "none" || kind == "" {
		return "ok"
	}
	return kind
}

// RecordGeneration records one model call. errKind "none" means success.
func (m *Metrics) RecordGeneration(ctx context.Context, purpose, errKind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("purpose", purpose),
		attribute.String("status", status(errKind)),
	)
	m.GenerationRequests.Add(ctx, 1, attrs)
	m.GenerationDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordQuestion counts a validated question.
func (m *Metrics) RecordQuestion(ctx context.Context) {
	if m == nil {
		return
	}
	m.QuestionsGenerated.Add(ctx, 1)
}

// RecordParseFailure counts an unusable response of the given kind.
func (m *Metrics) RecordParseFailure(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.ParseFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordFeedbackFallback counts feedback built without the model.
func (m *Metrics) RecordFeedbackFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.FeedbackFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordDisagreement counts a model/local verdict mismatch.
func (m *Metrics) RecordDisagreement(ctx context.Context, policy string) {
	if m == nil {
		return
	}
	m.VerdictDisagreements.Add(ctx, 1, metric.WithAttributes(attribute.String("policy", policy)))
}

// RecordRetrieval records the size of a search result.
func (m *Metrics) RecordRetrieval(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RetrievedExamples.Record(ctx, int64(n))
}

// RecordHandwriting counts a handwriting review outcome.
func (m *Metrics) RecordHandwriting(ctx context.Context, verdict, source string) {
	if m == nil {
		return
	}
	m.HandwritingVerdicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verdict", verdict),
		attribute.String("source", source),
	))
}
