package sizespec

import "math"

// FractionFunc maps the single-character crop encoding to a fraction in [0,1].
type FractionFunc func(c byte) float64

// CharToFraction is the gallery's crop table: 'a' is 0, 'z' is 1, in steps of 1/25.
func CharToFraction(c byte) float64 {
	f := float64(int(c)-int('a')) / 25
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// FractionToChar is the inverse of CharToFraction.
func FractionToChar(f float64) byte {
	if f <= 0 {
		return 'a'
	}
	if f >= 1 {
		return 'z'
	}
	return byte('a' + int(math.Round(f*25)))
}
