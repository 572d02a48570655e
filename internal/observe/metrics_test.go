package observe

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("metric %s not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, want Sum[int64]", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordHelpers(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordGeneration(ctx, "quiz-question", "none", 200*time.Millisecond)
	m.RecordGeneration(ctx, "quiz-question", "timeout", 30*time.Second)
	m.RecordQuestion(ctx)
	m.RecordParseFailure(ctx, "question")
	m.RecordFeedbackFallback(ctx, "generation_failed")
	m.RecordDisagreement(ctx, "trust-model")
	m.RecordRetrieval(ctx, 3)
	m.RecordHandwriting(ctx, "correct", "marker")

	rm := collect(t, reader)

	counters := map[string]int64{
		"langquiz.generation.requests":    2,
		"langquiz.questions.generated":    1,
		"langquiz.parse.failures":         1,
		"langquiz.feedback.fallbacks":     1,
		"langquiz.feedback.disagreements": 1,
		"langquiz.handwriting.verdicts":   1,
	}
	for name, want := range counters {
		if got := sumCounter(t, rm, name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}

	h := findMetric(rm, "langquiz.generation.duration")
	if h == nil {
		t.Fatal("duration histogram not found")
	}
	hist := h.Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Errorf("histogram count = %d, want 2", count)
	}
}

func TestGenerationStatusAttribute(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordGeneration(context.Background(), "quiz-feedback", "none", time.Second)

	rm := collect(t, reader)
	sum := findMetric(rm, "langquiz.generation.requests").Data.(metricdata.Sum[int64])
	v, ok := sum.DataPoints[0].Attributes.Value("status")
	if !ok || v.AsString() != "ok" {
		t.Fatalf("status attribute = %v, want ok", v.AsString())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordGeneration(ctx, "x", "none", time.Second)
	m.RecordQuestion(ctx)
	m.RecordParseFailure(ctx, "x")
	m.RecordFeedbackFallback(ctx, "x")
	m.RecordDisagreement(ctx, "x")
	m.RecordRetrieval(ctx, 1)
	m.RecordHandwriting(ctx, "x", "y")
}

func TestInProcessSummary(t *testing.T) {
	p := NewInProcess()
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	m, err := NewMetrics(p.Provider)
	if err != nil {
		t.Fatal(err)
	}
	m.RecordQuestion(context.Background())
	m.RecordParseFailure(context.Background(), "feedback")

	lines, err := p.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Metric != "langquiz.parse.failures" || lines[0].Labels != "kind=feedback" || lines[0].Value != "1" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "purpose", "quiz-question")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "purpose=quiz-question") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
