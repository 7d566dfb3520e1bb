package handlers_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

func (testRowsBase) Err() error { return nil }

func (testRowsBase) Close() {}

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type imageRecord struct {
	id     int64
	path   string
	width  int
	height int
}

type imageRows struct {
	testRowsBase
	rows []imageRecord
	pos  int
}

func (r *imageRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *imageRows) Scan(dest ...any) error {
	rec := r.rows[r.pos-1]
	w, h := rec.width, rec.height
	*(dest[0].(*int64)) = rec.id
	*(dest[1].(*string)) = rec.path
	*(dest[2].(**string)) = nil
	*(dest[3].(**int)) = &w
	*(dest[4].(**int)) = &h
	*(dest[5].(**int)) = nil
	return nil
}

// fakeImageTable answers the catalog queries from an in-memory table sorted
// by id descending. It understands the limit ($1) and the trailing id bound.
type fakeImageTable struct {
	images []imageRecord
	fail   bool
}

func (f *fakeImageTable) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if f.fail {
		return simpleRow{scan: func(dest ...any) error { return fmt.Errorf("connection refused") }}
	}
	if !strings.Contains(query, "count(*)") {
		return simpleRow{}
	}
	return simpleRow{scan: func(dest ...any) error {
		var maxID int64
		if len(f.images) > 0 {
			maxID = f.images[0].id
		}
		*(dest[0].(*int64)) = maxID
		*(dest[1].(*int64)) = int64(len(f.images))
		return nil
	}}
}

func (f *fakeImageTable) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.fail {
		return nil, fmt.Errorf("connection refused")
	}
	limit := args[0].(int)
	before := args[len(args)-1].(int64)
	var out []imageRecord
	for _, img := range f.images {
		if img.id < before && len(out) < limit {
			out = append(out, img)
		}
	}
	return &imageRows{rows: out}, nil
}
