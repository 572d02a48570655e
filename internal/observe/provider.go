package observe

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var labelEncoder = attribute.DefaultEncoder()

// InProcess is an SDK meter provider read on demand, for printing a
// metrics summary when a command exits.
type InProcess struct {
	Provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewInProcess creates an in-process meter provider with a manual reader.
func NewInProcess() *InProcess {
	reader := sdkmetric.NewManualReader()
	return &InProcess{
		Provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Shutdown flushes and stops the provider.
func (p *InProcess) Shutdown(ctx context.Context) error {
	return p.Provider.Shutdown(ctx)
}

// SummaryLine is one aggregated data point.
type SummaryLine struct {
	Metric string
	Labels string
	Value  string
}

// Summary collects every counter and histogram into sorted lines.
func (p *InProcess) Summary(ctx context.Context) ([]SummaryLine, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	var out []SummaryLine
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out = append(out, SummaryLine{m.Name, dp.Attributes.Encoded(labelEncoder), fmt.Sprintf("%d", dp.Value)})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					out = append(out, SummaryLine{m.Name, dp.Attributes.Encoded(labelEncoder),
						fmt.Sprintf("n=%d sum=%.3f", dp.Count, dp.Sum)})
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					out = append(out, SummaryLine{m.Name, dp.Attributes.Encoded(labelEncoder),
						fmt.Sprintf("n=%d sum=%d", dp.Count, dp.Sum)})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric < out[j].Metric
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
