package config

import (
	"animate-generator/internal/analyze"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "animate.yaml"

// File represents the root of a config file.
type File struct {
	// Version of the config schema.
	Version string `yaml:"version,omitempty"`

	// Packages lists the package patterns to process (e.g., "./...").
	Packages []string `yaml:"packages,omitempty"`

	// Output is the name of the file generated in each package.
	Output string `yaml:"output,omitempty"`

	// Runtime is the import path of the runtime package.
	Runtime string `yaml:"runtime,omitempty"`

	// Types lists derive targets declared outside their source.
	Types []TypeConfig `yaml:"types,omitempty"`
}

// TypeConfig makes a type a derive target and sets attributes on it.
type TypeConfig struct {
	// Package is the import path of the type's package. Empty matches a type
	// of that name in any processed package.
	Package string `yaml:"package,omitempty"`

	// Name is the Go type name.
	Name string `yaml:"name"`

	// Error marks the implicit variant of a struct or named type as an
	// error variant.
	Error bool `yaml:"error,omitempty"`

	// Variants sets attributes of sum type variants, keyed by variant type
	// name.
	Variants map[string]analyze.VariantAttrs `yaml:"variants,omitempty"`

	// Fields sets field attributes, keyed by "Field" for structs and by
	// "Variant.Field" for sum types. Positional fields use their index.
	Fields map[string]analyze.FieldAttrs `yaml:"fields,omitempty"`
}

// ID returns a printable identifier of the configured type.
func (t *TypeConfig) ID() string {
	return analyze.TypeID{PkgPath: t.Package, Name: t.Name}.String()
}

// Overrides converts the type entries into analyzer overrides.
func (f *File) Overrides() []analyze.Override {
	out := make([]analyze.Override, 0, len(f.Types))
	for _, t := range f.Types {
		out = append(out, analyze.Override{
			Package:  t.Package,
			Name:     t.Name,
			Attrs:    analyze.VariantAttrs{Error: t.Error},
			Variants: t.Variants,
			Fields:   t.Fields,
		})
	}

	return out
}
