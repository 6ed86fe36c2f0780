// Package analyze provides package loading and shape extraction for
// animate-generator.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find every
// derive target and describe it as a TypeDefinition:
//   - a struct (one implicit variant whose fields are the struct fields)
//   - a named non-struct type (one variant with a single positional field)
//   - a sealed interface (one variant per implementing type of the package)
//
// Variant attributes come from the //animate:error directive, field
// attributes from the `animate:"equal"` struct tag; both can be supplied by
// the config file as well.
package analyze
