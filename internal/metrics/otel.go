package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var descriptions = map[MetricName]struct {
	desc string
	unit string
}{
	ScanRequested:  {"Number of missing-derivative scans", "{scan}"},
	ScanPageRead:   {"Catalog pages read by scans", "{page}"},
	ScanRowsRead:   {"Catalog rows examined by scans", "{row}"},
	MissingFound:   {"Derivative URLs reported as missing", "{url}"},
	RegenSucceeded: {"Derivatives generated by the regen driver", "{derivative}"},
	RegenFailed:    {"Derivatives the regen driver could not generate", "{derivative}"},
}

// OtelMetricsSvc records counters on the globally registered meter provider.
type OtelMetricsSvc struct {
	counters      map[MetricName]metric.Int64Counter
	shutDownFuncs []func(ctx context.Context) error
}

// NewExportingMetricsSvc installs an OTLP/gRPC meter provider pushing to
// endpoint and records counters on it.
func NewExportingMetricsSvc(ctx context.Context, endpoint string) (*OtelMetricsSvc, error) {
	shutDownFuncs, err := initOtel(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	svc, err := NewOtelMetricsSvc()
	if err != nil {
		return nil, err
	}
	svc.shutDownFuncs = shutDownFuncs
	return svc, nil
}

func NewOtelMetricsSvc() (*OtelMetricsSvc, error) {
	meter := otel.Meter("customderiv")
	counters := make(map[MetricName]metric.Int64Counter, len(descriptions))
	for name, d := range descriptions {
		c, err := meter.Int64Counter(
			string(name),
			metric.WithDescription(d.desc),
			metric.WithUnit(d.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("metrics: counter %s: %w", name, err)
		}
		counters[name] = c
	}
	return &OtelMetricsSvc{counters: counters}, nil
}

func (s *OtelMetricsSvc) Add(ctx context.Context, name MetricName, n int64, attrs map[string]string) {
	c, ok := s.counters[name]
	if !ok || n == 0 {
		return
	}
	kvAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		kvAttrs = append(kvAttrs, attribute.String(key, value))
	}
	c.Add(ctx, n, metric.WithAttributeSet(attribute.NewSet(kvAttrs...)))
}

// Shutdown flushes and stops the exporter, if one was installed.
func (s *OtelMetricsSvc) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, fn := range s.shutDownFuncs {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
