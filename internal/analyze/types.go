package analyze

import (
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"animate-generator/internal/diagnostic"
)

//go:generate go tool stringer -type=DefKind,VariantShape -output=kind_string.go

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "animate-generator/examples/shapes"
	Name    string // e.g., "Shape"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// DefKind is the shape of a derive target.
type DefKind int

const (
	DefStruct  DefKind = iota // struct type, single implicit variant
	DefSum                    // sealed interface, one variant per implementation
	DefWrapped                // named non-struct type, single positional field
)

// VariantShape describes how a variant stores its fields.
type VariantShape int

const (
	ShapeStruct  VariantShape = iota // named fields
	ShapeWrapped                     // one positional field holding the underlying value
	ShapeUnit                        // no fields
)

// TypeDefinition describes one derive target.
type TypeDefinition struct {
	ID TypeID
	// PkgName is the package clause name (may differ from the path base).
	PkgName string
	Kind    DefKind
	// Named is the declared (uninstantiated) type.
	Named      *types.Named
	TypeParams []TypeParam
	Variants   []Variant
	Pos        token.Position
}

// IsGeneric returns true if the definition declares type parameters.
func (d *TypeDefinition) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// Variant returns the variant with the given name, or nil.
func (d *TypeDefinition) Variant(name string) *Variant {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return &d.Variants[i]
		}
	}

	return nil
}

// Params returns the go/types parameters of the definition.
func (d *TypeDefinition) Params() []*types.TypeParam {
	out := make([]*types.TypeParam, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		out = append(out, tp.Type)
	}

	return out
}

// TypeParam is a type parameter of a generic definition.
type TypeParam struct {
	Name       string
	Constraint types.Type
	Type       *types.TypeParam
}

// Variant is one alternative shape of a definition.
type Variant struct {
	// Name is the Go type name of the variant. For structs and wrapped types
	// it equals the definition name.
	Name   string
	Shape  VariantShape
	Type   types.Type
	Fields []Field
	Attrs  VariantAttrs
	Pos    token.Position
}

// Field describes a variant field.
type Field struct {
	Name     string            // Go field name, empty for positional fields
	Index    int               // position among the variant's fields
	Type     types.Type        // declared type
	Tag      reflect.StructTag // raw struct tag
	Embedded bool              // whether the field is embedded (anonymous)
	Attrs    FieldAttrs
	Pos      token.Position
}

// IsPositional returns true if the field has no name.
func (f *Field) IsPositional() bool {
	return f.Name == ""
}

// Label returns the field name, or its index for positional fields.
func (f *Field) Label() string {
	if f.IsPositional() {
		return strconv.Itoa(f.Index)
	}

	return f.Name
}

// TypeGraph holds every derive target found in the loaded packages.
type TypeGraph struct {
	// Types maps TypeID to the definition of each derive target.
	Types map[TypeID]*TypeDefinition
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	// Diagnostics collects shape and attribute problems found while loading.
	Diagnostics diagnostic.Diagnostics
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeDefinition),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the definition for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeDefinition {
	return g.Types[id]
}

// Lookup returns the derive target declared by a *types.Named (generic or
// instantiated), or nil.
func (g *TypeGraph) Lookup(t types.Type) *TypeDefinition {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return nil
	}

	return g.Types[TypeID{PkgPath: named.Obj().Pkg().Path(), Name: named.Obj().Name()}]
}

// Definitions returns the derive targets of a package in declaration order.
func (g *TypeGraph) Definitions(pkgPath string) []*TypeDefinition {
	info := g.Packages[pkgPath]
	if info == nil {
		return nil
	}

	defs := make([]*TypeDefinition, 0, len(info.Types))
	for _, id := range info.Types {
		defs = append(defs, g.Types[id])
	}

	return defs
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string         // Import path
	Name  string         // Package name
	Dir   string         // Directory holding the package sources
	Types []TypeID       // Derive targets defined in this package, in source order
	Pkg   *types.Package // Type-checked package
}
