// Package catalog reads the gallery image table.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"customderiv/internal/domain"
	"customderiv/internal/infra"
	"customderiv/internal/sqlinline"
)

// Store implements domain.CatalogStore on top of a Postgres image table.
type Store struct {
	sql   infra.SQLExecutor
	table string
}

// NewStore returns a store reading from table. The name is quoted, so it may
// contain a schema only as a single identifier.
func NewStore(sql infra.SQLExecutor, table string) (*Store, error) {
	if sql == nil {
		return nil, errors.New("catalog: executor is required")
	}
	if table == "" {
		return nil, errors.New("catalog: table is required")
	}
	return &Store{sql: sql, table: pq.QuoteIdentifier(table)}, nil
}

// CountAndMaxID returns the highest image id and the number of images.
func (s *Store) CountAndMaxID(ctx context.Context) (int64, int64, error) {
	var maxID, count int64
	row := s.sql.QueryRow(ctx, fmt.Sprintf(sqlinline.QCatalogBounds, s.table))
	if err := row.Scan(&maxID, &count); err != nil {
		return 0, 0, fmt.Errorf("catalog: bounds: %w", err)
	}
	return maxID, count, nil
}

// QueryPage returns up to limit images with id < beforeID matching filter,
// ordered by id descending.
func (s *Store) QueryPage(ctx context.Context, filter domain.CatalogFilter, beforeID int64, limit int) ([]domain.CatalogImage, error) {
	if limit <= 0 {
		return nil, nil
	}
	where := newWhereBuilder(limit)
	where.applyRanges(filter.Ranges)
	if len(filter.ImageIDs) > 0 {
		where.add("id = any(%s::bigint[])", filter.ImageIDs)
	}
	where.add("id < %s::bigint", beforeID)

	query := fmt.Sprintf(sqlinline.QCatalogPage, s.table, where.sql())
	rows, err := s.sql.Query(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: page below %d: %w", beforeID, err)
	}
	defer rows.Close()

	images := make([]domain.CatalogImage, 0, limit)
	for rows.Next() {
		var row domain.CatalogRow
		if err := rows.Scan(&row.ID, &row.Path, &row.RepresentativeExt, &row.Width, &row.Height, &row.Rotation); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		img, err := domain.NewCatalogImage(row)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: rows: %w", err)
	}
	return images, nil
}

var _ domain.CatalogStore = (*Store)(nil)
