package domain

import "context"

// TypeRegistry lists the custom derivative types configured in the gallery.
type TypeRegistry interface {
	KnownTypes() []string
	CharToFraction(c byte) float64
}

// CatalogStore reads the image catalog. Image ids are assigned in increasing
// order and never reused after deletion; scan cursors rely on it.
type CatalogStore interface {
	CountAndMaxID(ctx context.Context) (maxID int64, count int64, err error)
	// QueryPage returns up to limit images with id < beforeID, newest first.
	QueryPage(ctx context.Context, filter CatalogFilter, beforeID int64, limit int) ([]CatalogImage, error)
}

// URLStyle selects how derivative URLs are formatted.
type URLStyle int

const (
	// URLStyleScript routes through the gallery image script so a request
	// generates the file when it is missing.
	URLStyleScript URLStyle = iota
	// URLStyleDirect points at the cached file.
	URLStyleDirect
)

// URLOptions controls URL formatting for a single resolve call.
type URLOptions struct {
	Style URLStyle
}

// DerivativeResolver computes where a derivative lives and how it is served.
type DerivativeResolver interface {
	Resolve(spec SizeSpec, img CatalogImage, opts URLOptions) Derivative
}

// ExistenceChecker tests whether a derivative file is on disk. Any I/O
// failure reports false.
type ExistenceChecker interface {
	Exists(ctx context.Context, path string) bool
}
