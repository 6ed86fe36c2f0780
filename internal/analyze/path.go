package analyze

import (
	"strings"
)

// TypePath builds a readable path string for diagnostics.
// Examples:
//   - "Point" for a struct
//   - "Point.X" for one of its fields
//   - "Shape.Circle.Radius" for a field of a sum type variant
//   - "Meters.0" for the positional field of a wrapped type
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field or variant name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}
