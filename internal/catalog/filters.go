package catalog

import (
	"fmt"
	"strings"

	"customderiv/internal/domain"
)

// whereBuilder collects predicates with positional arguments. The first
// argument position is reserved for the row limit.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhereBuilder(limit int) *whereBuilder {
	return &whereBuilder{args: []any{limit}}
}

// add appends a predicate; the single %s in clause becomes the next placeholder.
func (b *whereBuilder) add(clause string, arg any) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, fmt.Sprintf(clause, fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return "true"
	}
	return strings.Join(b.clauses, "\n  and ")
}

// applyRanges translates the optional range filters into predicates on the
// catalog columns.
func (b *whereBuilder) applyRanges(f domain.RangeFilters) {
	if f.MinRating != nil {
		b.add("rating_score >= %s::float8", *f.MinRating)
	}
	if f.MaxRating != nil {
		b.add("rating_score <= %s::float8", *f.MaxRating)
	}
	if f.MinHits != nil {
		b.add("hit >= %s::int", *f.MinHits)
	}
	if f.MaxHits != nil {
		b.add("hit <= %s::int", *f.MaxHits)
	}
	if f.MinRatio != nil {
		b.add("(height > 0 and width::float8 / height >= %s::float8)", *f.MinRatio)
	}
	if f.MaxRatio != nil {
		b.add("(height > 0 and width::float8 / height <= %s::float8)", *f.MaxRatio)
	}
	if f.MaxLevel != nil {
		b.add("level <= %s::int", *f.MaxLevel)
	}
	if f.MinDateAvailable != nil {
		b.add("date_available >= %s", *f.MinDateAvailable)
	}
	if f.MaxDateAvailable != nil {
		b.add("date_available <= %s", *f.MaxDateAvailable)
	}
	if f.MinDateCreated != nil {
		b.add("date_creation >= %s", *f.MinDateCreated)
	}
	if f.MaxDateCreated != nil {
		b.add("date_creation <= %s", *f.MaxDateCreated)
	}
}
