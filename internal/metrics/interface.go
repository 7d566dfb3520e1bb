package metrics

import (
	"context"
)

// MetricName identifies a counter.
type MetricName string

const (
	ScanRequested  MetricName = "derivatives.scan.requested"
	ScanPageRead   MetricName = "derivatives.scan.pages"
	ScanRowsRead   MetricName = "derivatives.scan.rows"
	MissingFound   MetricName = "derivatives.missing.found"
	RegenSucceeded MetricName = "derivatives.regen.succeeded"
	RegenFailed    MetricName = "derivatives.regen.failed"
)

type MetricsSvc interface {
	Add(ctx context.Context, metric MetricName, n int64, attrs map[string]string)
	Shutdown(ctx context.Context) error
}
