// Package sizespec parses the compact identifiers naming custom derivative sizes.
//
// An identifier is a set of tokens joined by '_':
//
//	s<size>                   fit into size, no crop
//	e<size>                   exact crop to size
//	<size>_<c>_<minsize>      crop fraction c, never smaller than minsize
//
// where <size> is WxH, or a single integer for a square.
package sizespec

import (
	"strings"

	"customderiv/internal/domain"
)

// Parser turns identifier tokens into size specs.
type Parser struct {
	fraction FractionFunc
}

// NewParser returns a parser using the given crop table. A nil table falls
// back to CharToFraction.
func NewParser(fraction FractionFunc) *Parser {
	if fraction == nil {
		fraction = CharToFraction
	}
	return &Parser{fraction: fraction}
}

// ParseIdentifier splits id on '_' and parses the tokens.
func (p *Parser) ParseIdentifier(id string) (domain.SizeSpec, bool) {
	if id == "" {
		return domain.SizeSpec{}, false
	}
	spec, ok := p.Parse(strings.Split(id, "_"))
	if !ok {
		return domain.SizeSpec{}, false
	}
	spec.Identifier = id
	return spec, true
}

// Parse builds a spec from identifier tokens. Unrecognized token sequences
// return false; callers skip them.
func (p *Parser) Parse(tokens []string) (domain.SizeSpec, bool) {
	if len(tokens) < 1 || tokens[0] == "" {
		return domain.SizeSpec{}, false
	}
	first, rest := tokens[0], tokens[1:]
	switch first[0] {
	case 's':
		return domain.SizeSpec{Size: ParseSize(first[1:]), Identifier: strings.Join(tokens, "_")}, true
	case 'e':
		size := ParseSize(first[1:])
		minSize := size
		return domain.SizeSpec{Size: size, Crop: 1, MinSize: &minSize, Identifier: strings.Join(tokens, "_")}, true
	}
	if len(rest) != 2 || rest[0] == "" {
		return domain.SizeSpec{}, false
	}
	minSize := ParseSize(rest[1])
	return domain.SizeSpec{
		Size:       ParseSize(first),
		Crop:       p.fraction(rest[0][0]),
		MinSize:    &minSize,
		Identifier: strings.Join(tokens, "_"),
	}, true
}

// ParseSize reads a size token: "WxH", or a single integer used for both sides.
// Each side is read leniently, a missing or non-numeric value counting as 0.
func ParseSize(s string) domain.Size {
	w, h, found := strings.Cut(s, "x")
	if !found {
		n := leadingInt(s)
		return domain.Size{Width: n, Height: n}
	}
	return domain.Size{Width: leadingInt(w), Height: leadingInt(h)}
}

// leadingInt parses the decimal digits at the start of s after optional
// whitespace. Overflowing values read as 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > 1<<31-1 {
			return 0
		}
	}
	return n
}
