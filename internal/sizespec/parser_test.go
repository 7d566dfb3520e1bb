package sizespec

import (
	"testing"

	"customderiv/internal/domain"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Size
	}{
		{in: "100x200", want: domain.Size{Width: 100, Height: 200}},
		{in: "150", want: domain.Size{Width: 150, Height: 150}},
		{in: "x50", want: domain.Size{Width: 0, Height: 50}},
		{in: "50x", want: domain.Size{Width: 50, Height: 0}},
		{in: "12px", want: domain.Size{Width: 12, Height: 0}},
		{in: "abc", want: domain.Size{}},
		{in: "", want: domain.Size{}},
		{in: "10x20x30", want: domain.Size{Width: 10, Height: 20}},
		{in: "99999999999", want: domain.Size{}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseSize(tc.in); got != tc.want {
				t.Fatalf("ParseSize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func fixedFraction(c byte) float64 {
	if c == 'c' {
		return 0.5
	}
	return 0
}

func TestParserParse(t *testing.T) {
	p := NewParser(fixedFraction)

	spec, ok := p.Parse([]string{"s100x200"})
	if !ok {
		t.Fatalf("s100x200 should parse")
	}
	if spec.Size != (domain.Size{Width: 100, Height: 200}) || spec.Crop != 0 || spec.MinSize != nil {
		t.Fatalf("s100x200 = %+v", spec)
	}

	spec, ok = p.Parse([]string{"e80"})
	if !ok {
		t.Fatalf("e80 should parse")
	}
	if spec.Size != (domain.Size{Width: 80, Height: 80}) || spec.Crop != 1 || spec.MinSize == nil || *spec.MinSize != spec.Size {
		t.Fatalf("e80 = %+v", spec)
	}

	spec, ok = p.Parse([]string{"100x100", "c", "50x50"})
	if !ok {
		t.Fatalf("general form should parse")
	}
	if spec.Size != (domain.Size{Width: 100, Height: 100}) || spec.Crop != 0.5 || spec.MinSize == nil || *spec.MinSize != (domain.Size{Width: 50, Height: 50}) {
		t.Fatalf("general form = %+v", spec)
	}

	rejected := [][]string{
		nil,
		{},
		{""},
		{"100x100", "c"},
		{"100x100"},
		{"100x100", "c", "50", "extra"},
		{"100x100", "", "50"},
	}
	for _, tokens := range rejected {
		if _, ok := p.Parse(tokens); ok {
			t.Fatalf("Parse(%q) should be rejected", tokens)
		}
	}
}

func TestParseIdentifierKeepsIdentifier(t *testing.T) {
	p := NewParser(nil)
	spec, ok := p.ParseIdentifier("300x200_m_150x100")
	if !ok {
		t.Fatalf("identifier should parse")
	}
	if spec.Identifier != "300x200_m_150x100" {
		t.Fatalf("Identifier = %q", spec.Identifier)
	}
	if spec.Crop != CharToFraction('m') {
		t.Fatalf("Crop = %v, want %v", spec.Crop, CharToFraction('m'))
	}
	if _, ok := p.ParseIdentifier(""); ok {
		t.Fatalf("empty identifier should be rejected")
	}
	if _, ok := p.ParseIdentifier("medium"); ok {
		t.Fatalf("built-in type name should be rejected")
	}
}

func TestIdentifierRoundTrip(t *testing.T) {
	p := NewParser(nil)
	for _, id := range []string{"s100x200", "s150", "e80", "e120x90", "300x200_m_150x100", "400_z_100"} {
		spec, ok := p.ParseIdentifier(id)
		if !ok {
			t.Fatalf("%q should parse", id)
		}
		if got := Identifier(spec); got != id {
			t.Fatalf("Identifier(%q) = %q", id, got)
		}
	}
}

func TestIdentifierIgnoresMinSizeWithoutCrop(t *testing.T) {
	spec, ok := NewParser(nil).ParseIdentifier("100_a_50")
	if !ok {
		t.Fatalf("100_a_50 should parse")
	}
	if got := Identifier(spec); got != "s100" {
		t.Fatalf("Identifier = %q, want s100", got)
	}
}

func TestCharToFraction(t *testing.T) {
	if got := CharToFraction('a'); got != 0 {
		t.Fatalf("a = %v", got)
	}
	if got := CharToFraction('z'); got != 1 {
		t.Fatalf("z = %v", got)
	}
	if got := CharToFraction('A'); got != 0 {
		t.Fatalf("A should clamp to 0, got %v", got)
	}
	for c := byte('a'); c <= 'z'; c++ {
		if back := FractionToChar(CharToFraction(c)); back != c {
			t.Fatalf("FractionToChar(CharToFraction(%q)) = %q", c, back)
		}
	}
}
