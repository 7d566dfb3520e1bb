// Package bootstrap assembles the scanner from configuration. Both commands
// share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"customderiv/internal/catalog"
	"customderiv/internal/derivative"
	"customderiv/internal/infra"
	"customderiv/internal/metrics"
	"customderiv/internal/registry"
	"customderiv/internal/scan"
	"customderiv/internal/storage"
)

// Registry combines DERIVATIVE_TYPES with the optional types file. The
// environment list comes first.
func Registry(cfg *infra.Config) (*registry.Registry, error) {
	reg := registry.New(cfg.DerivativeTypes...)
	if cfg.DerivativeTypesFile != "" {
		fromFile, err := registry.LoadFile(cfg.DerivativeTypesFile)
		if err != nil {
			return nil, err
		}
		reg = reg.Merge(fromFile)
	}
	return reg, nil
}

// NewScanner wires the scanner over exec. exec is usually a pgx pool.
func NewScanner(cfg *infra.Config, exec infra.SQLExecutor, logger infra.Logger, m metrics.MetricsSvc) (*scan.Scanner, error) {
	reg, err := Registry(cfg)
	if err != nil {
		return nil, err
	}
	if reg.Len() == 0 {
		logger.Warn().Msg("no custom derivative types configured")
	}

	store, err := catalog.NewStore(infra.NewSQLRunner(exec, logger), cfg.CatalogTable)
	if err != nil {
		return nil, err
	}
	files, err := storage.NewFileStore(cfg.GalleryRoot)
	if err != nil {
		return nil, fmt.Errorf("gallery root: %w", err)
	}
	resolver := derivative.NewResolver(cfg.DataDir, cfg.PublicBaseURL, cfg.PictureExts)

	return scan.NewScanner(reg, store, resolver, files, scan.Options{
		PictureExts: cfg.PictureExts,
		Tuning: scan.Tuning{
			RowsPerPageDivisor: cfg.RowsPerPageDivisor,
			MaxPageRows:        cfg.MaxPageRows,
			DefaultMaxResults:  cfg.DefaultMaxURLs,
		},
		Logger:  logger,
		Metrics: m,
	}), nil
}

// Runtime owns the long-lived resources behind a scanner.
type Runtime struct {
	Scanner *scan.Scanner
	Pool    *pgxpool.Pool
	Metrics metrics.MetricsSvc
}

// Open connects the database, installs metrics and builds the scanner.
func Open(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Runtime, error) {
	m, err := newMetrics(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		_ = m.Shutdown(ctx)
		return nil, err
	}
	scanner, err := NewScanner(cfg, pool, logger, m)
	if err != nil {
		pool.Close()
		_ = m.Shutdown(ctx)
		return nil, err
	}
	return &Runtime{Scanner: scanner, Pool: pool, Metrics: m}, nil
}

// Close releases the pool and flushes metrics.
func (r *Runtime) Close(ctx context.Context) error {
	r.Pool.Close()
	return r.Metrics.Shutdown(ctx)
}

func newMetrics(ctx context.Context, cfg *infra.Config) (metrics.MetricsSvc, error) {
	if !cfg.OtelEnabled {
		return metrics.NewNoopMetricsSvc(), nil
	}
	m, err := metrics.NewExportingMetricsSvc(ctx, cfg.OtelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	return m, nil
}
