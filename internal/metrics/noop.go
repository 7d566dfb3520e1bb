package metrics

import (
	"context"
)

type NoopMetricsSvc struct{}

func NewNoopMetricsSvc() *NoopMetricsSvc {
	return &NoopMetricsSvc{}
}

func (n *NoopMetricsSvc) Add(ctx context.Context, metric MetricName, v int64, attrs map[string]string) {
}

func (n *NoopMetricsSvc) Shutdown(ctx context.Context) error {
	return nil
}
