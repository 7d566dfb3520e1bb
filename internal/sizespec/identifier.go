package sizespec

import (
	"strconv"
	"strings"

	"customderiv/internal/domain"
)

// Identifier encodes spec back into its compact token form. A spec without
// crop encodes as s<size>; its minimum size plays no part in fitting.
func Identifier(spec domain.SizeSpec) string {
	switch {
	case spec.Crop == 0:
		return "s" + sizeToken(spec.Size)
	case spec.Crop == 1 && spec.MinSize != nil && *spec.MinSize == spec.Size:
		return "e" + sizeToken(spec.Size)
	}
	minSize := spec.Size
	if spec.MinSize != nil {
		minSize = *spec.MinSize
	}
	return strings.Join([]string{
		sizeToken(spec.Size),
		string(FractionToChar(spec.Crop)),
		sizeToken(minSize),
	}, "_")
}

func sizeToken(s domain.Size) string {
	if s.Width == s.Height {
		return strconv.Itoa(s.Width)
	}
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}
