package domain

import "fmt"

// Size is a pixel dimension pair.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Fits reports whether s fits inside other on both axes.
func (s Size) Fits(other Size) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}

// SizeSpec describes one custom derivative: target size, crop fraction and an
// optional minimum size. Values are built by the size spec parser and are not
// modified afterwards; two specs with the same Identifier are interchangeable.
type SizeSpec struct {
	Size       Size
	Crop       float64
	MinSize    *Size
	Identifier string
}

// DerivativeKind classifies what a resolved derivative points at.
type DerivativeKind string

const (
	// DerivativeKindCustom is a generated custom-size rendition.
	DerivativeKindCustom DerivativeKind = "custom"
	// DerivativeKindOriginal means the source is served unmodified.
	DerivativeKindOriginal DerivativeKind = "original"
)

// Derivative is the resolved location of one (spec, image) pair.
type Derivative struct {
	Path string
	Kind DerivativeKind
	URL  string
}
