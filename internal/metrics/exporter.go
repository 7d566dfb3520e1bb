package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const exportInterval = 15 * time.Second

var serviceName = semconv.ServiceNameKey.String("customderiv")

func initOtel(ctx context.Context, endpoint string) ([]func(ctx context.Context) error, error) {
	if endpoint == "" {
		return nil, errors.New("metrics: collector endpoint is required")
	}
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("metrics: collector connection: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(serviceName))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("metrics: resource: %w", err)
	}

	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("metrics: exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(provider)

	// the provider flushes through conn, so it must stop first
	return []func(ctx context.Context) error{
		provider.Shutdown,
		func(context.Context) error { return conn.Close() },
	}, nil
}
