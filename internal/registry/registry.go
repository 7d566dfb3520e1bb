// Package registry holds the custom derivative types configured for the gallery.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"customderiv/internal/domain"
	"customderiv/internal/sizespec"
)

// Registry is an ordered set of custom derivative identifiers.
type Registry struct {
	ids      []string
	fraction sizespec.FractionFunc
}

// New builds a registry from identifiers, dropping blanks and duplicates while
// keeping first-seen order.
func New(ids ...string) *Registry {
	r := &Registry{fraction: sizespec.CharToFraction}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		r.ids = append(r.ids, id)
	}
	return r
}

// WithFraction replaces the crop table.
func (r *Registry) WithFraction(fn sizespec.FractionFunc) *Registry {
	if fn != nil {
		r.fraction = fn
	}
	return r
}

type fileFormat struct {
	Custom []string `yaml:"custom"`
}

// LoadFile reads a YAML document of the form
//
//	custom:
//	  - s300
//	  - e120x90
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	if len(doc.Custom) == 0 {
		return nil, errors.New("registry: no custom types in " + path)
	}
	return New(doc.Custom...), nil
}

// Merge returns a registry containing r's identifiers followed by other's.
func (r *Registry) Merge(other *Registry) *Registry {
	if other == nil {
		return r
	}
	merged := New(append(append([]string{}, r.ids...), other.ids...)...)
	merged.fraction = r.fraction
	return merged
}

// KnownTypes returns a copy of the identifiers in registry order.
func (r *Registry) KnownTypes() []string {
	return append([]string(nil), r.ids...)
}

// CharToFraction maps a crop character through the registry's table.
func (r *Registry) CharToFraction(c byte) float64 {
	return r.fraction(c)
}

// Len returns the number of identifiers.
func (r *Registry) Len() int {
	return len(r.ids)
}

var _ domain.TypeRegistry = (*Registry)(nil)
