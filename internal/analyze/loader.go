package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"sort"

	"golang.org/x/tools/go/packages"

	"animate-generator/internal/diagnostic"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Override supplies attributes for a type from outside its source, and makes
// the type a derive target even without the //animate:derive directive.
type Override struct {
	// Package is the import path; empty matches a type of that name in any
	// loaded package.
	Package string
	Name    string
	// Attrs applies to the implicit variant of a struct or wrapped type.
	Attrs VariantAttrs
	// Variants maps variant type names to their attributes.
	Variants map[string]VariantAttrs
	// Fields maps "Field" or "Variant.Field" labels to their attributes.
	Fields map[string]FieldAttrs
}

// Config controls how packages are loaded.
type Config struct {
	// Dir is the working directory for the go command. Empty means the
	// current directory.
	Dir string
	// OutputFile is the name of the generated file inside each package. An
	// existing file of that name is replaced by an empty stub before type
	// checking so stale generated code cannot break the analysis.
	OutputFile string
	// Overlay is passed to go/packages on top of the generated-file stubs.
	Overlay map[string][]byte
	// Overrides lists config-supplied derive targets and attributes.
	Overrides []Override
}

// Analyzer loads Go packages and extracts derive targets.
type Analyzer struct {
	config Config
	graph  *TypeGraph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{
		config: config,
		graph:  NewTypeGraph(),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/shapes").
// Shape and attribute problems are recorded in graph.Diagnostics; the error
// return is reserved for failures to load or type-check the packages.
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	overlay, stubbed, err := a.stubOverlay(patterns)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Mode:    LoadMode,
		Dir:     a.config.Dir,
		Overlay: overlay,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors. Once a generated file is stubbed, hand-written
	// code calling the generated functions no longer type-checks; go/types
	// still records every declaration, so those errors are not fatal.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if stubbed && e.Kind == packages.TypeError {
				continue
			}

			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	// Process each package
	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// stubOverlay replaces previously generated files with a bare package clause.
// stubbed reports whether any file was replaced.
func (a *Analyzer) stubOverlay(patterns []string) (overlay map[string][]byte, stubbed bool, err error) {
	overlay = make(map[string][]byte, len(a.config.Overlay))
	if a.config.OutputFile != "" {
		cfg := &packages.Config{
			Mode: packages.NeedName | packages.NeedFiles,
			Dir:  a.config.Dir,
		}

		pkgs, err := packages.Load(cfg, patterns...)
		if err != nil {
			return nil, false, fmt.Errorf("failed to list packages: %w", err)
		}

		for _, pkg := range pkgs {
			for _, file := range pkg.GoFiles {
				if filepath.Base(file) != a.config.OutputFile {
					continue
				}

				overlay[file] = []byte("package " + pkg.Name + "\n")
				stubbed = true
			}
		}
	}

	for path, content := range a.config.Overlay {
		overlay[path] = content
	}

	return overlay, stubbed, nil
}

// declaredType is a type declaration of the package with its doc comment.
type declaredType struct {
	obj *types.TypeName
	doc *ast.CommentGroup
	pos token.Pos
}

// processPackage extracts derive targets from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return fmt.Errorf("package %s has no type information", pkg.PkgPath)
	}

	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
		Pkg:  pkg.Types,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	decls := collectDeclarations(pkg)

	diags := &a.graph.Diagnostics

	var (
		// errorOnly holds types marked //animate:error without being targets.
		errorOnly []declaredType
		variants  = make(map[string]bool)
	)

	for _, decl := range decls {
		dirs, err := parseDirectives(decl.doc)
		if err != nil {
			addAttrError(diags, pkg.Fset.Position(decl.pos), err, decl.obj.Name(), "")
			continue
		}

		override := a.override(pkg.PkgPath, decl.obj.Name())
		if !dirs.derive && override == nil {
			if dirs.attrs.Error {
				errorOnly = append(errorOnly, decl)
			}

			continue
		}

		def, ok := a.buildDefinition(pkg, decl, dirs, override, decls)
		if def != nil {
			for _, v := range def.Variants {
				variants[v.Name] = true
			}
		}

		if !ok {
			continue
		}

		a.graph.Types[def.ID] = def
		pkgInfo.Types = append(pkgInfo.Types, def.ID)
	}

	for _, decl := range errorOnly {
		if variants[decl.obj.Name()] {
			continue
		}

		diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     diagnostic.CodeAttributeMisplaced,
			Message: fmt.Sprintf("//animate:error has no effect: %s is neither a derive target nor a variant of one",
				decl.obj.Name()),
			Type: decl.obj.Name(),
			Pos:  pkg.Fset.Position(decl.pos),
		})
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	return nil
}

// collectDeclarations returns the package's type declarations in source order.
func collectDeclarations(pkg *packages.Package) []declaredType {
	var decls []declaredType

	for _, file := range pkg.Syntax {
		for _, d := range file.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				decls = append(decls, declaredType{obj: obj, doc: doc, pos: ts.Pos()})
			}
		}
	}

	// Files come in go list order; positions within one FileSet are ordered
	// by file first, which keeps the result deterministic.
	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].pos < decls[j].pos
	})

	return decls
}

// override returns the config override for a type, or nil.
func (a *Analyzer) override(pkgPath, name string) *Override {
	for i := range a.config.Overrides {
		o := &a.config.Overrides[i]
		if o.Name != name {
			continue
		}

		if o.Package == "" || o.Package == pkgPath {
			return o
		}
	}

	return nil
}

// buildDefinition describes one derive target.
func (a *Analyzer) buildDefinition(
	pkg *packages.Package,
	decl declaredType,
	dirs typeDirectives,
	override *Override,
	decls []declaredType,
) (*TypeDefinition, bool) {
	diags := &a.graph.Diagnostics
	name := decl.obj.Name()
	pos := pkg.Fset.Position(decl.pos)
	before := len(diags.Errors)

	if decl.obj.IsAlias() {
		diags.AddErrorAt(pos, diagnostic.CodeUnsupportedShape,
			"type aliases cannot be derive targets; annotate the aliased type", name, "")
		return nil, false
	}

	named, ok := decl.obj.Type().(*types.Named)
	if !ok {
		diags.AddErrorAt(pos, diagnostic.CodeUnsupportedShape, "not a named type", name, "")
		return nil, false
	}

	def := &TypeDefinition{
		ID:      TypeID{PkgPath: pkg.PkgPath, Name: name},
		PkgName: pkg.Name,
		Named:   named,
		Pos:     pos,
	}

	if tparams := named.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			tp := tparams.At(i)
			def.TypeParams = append(def.TypeParams, TypeParam{
				Name:       tp.Obj().Name(),
				Constraint: tp.Constraint(),
				Type:       tp,
			})
		}
	}

	attrs := dirs.attrs
	if override != nil {
		attrs = attrs.Merge(override.Attrs)
	}

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		if attrs.Error {
			diags.AddErrorAt(pos, diagnostic.CodeAttributeMisplaced,
				"the error attribute belongs on variant types, not on the interface", name, "")
			return nil, false
		}

		if def.IsGeneric() {
			diags.AddErrorAt(pos, diagnostic.CodeUnsupportedShape,
				"generic interfaces are not supported as sum types", name, "")
			return nil, false
		}

		def.Kind = DefSum
		def.Variants = a.sumVariants(pkg, def, ut, override, decls)

		if len(def.Variants) == 0 {
			diags.AddErrorAt(pos, diagnostic.CodeNoVariants,
				fmt.Sprintf("no type in package %s implements %s", pkg.PkgPath, name), name, "")
			return nil, false
		}

	case *types.Struct:
		def.Kind = DefStruct
		def.Variants = []Variant{a.structVariant(pkg, def, name, named, ut, attrs, override, pos)}

	default:
		def.Kind = DefWrapped
		def.Variants = []Variant{a.wrappedVariant(def, name, named, ut, attrs, override, pos)}
	}

	return def, len(diags.Errors) == before
}

// sumVariants finds the implementations of a sealed interface declared in the
// same package, in source order.
func (a *Analyzer) sumVariants(
	pkg *packages.Package,
	def *TypeDefinition,
	iface *types.Interface,
	override *Override,
	decls []declaredType,
) []Variant {
	diags := &a.graph.Diagnostics

	var variants []Variant

	for _, decl := range decls {
		obj := decl.obj
		if obj == def.Named.Obj() || obj.IsAlias() {
			continue
		}

		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}

		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}

		pos := pkg.Fset.Position(decl.pos)
		path := NewTypePath(def.ID.Name).Field(obj.Name()).String()

		if named.TypeParams().Len() > 0 {
			if types.Implements(named, iface) || types.Implements(types.NewPointer(named), iface) {
				diags.AddWarning(diagnostic.CodeUnsupportedShape,
					"generic variant types are skipped", def.ID.Name, path)
			}

			continue
		}

		if !types.Implements(named, iface) {
			if types.Implements(types.NewPointer(named), iface) {
				diags.AddWarning(diagnostic.CodePointerVariant,
					fmt.Sprintf("%s implements %s only through pointer receivers and is skipped",
						obj.Name(), def.ID.Name), def.ID.Name, path)
			}

			continue
		}

		dirs, err := parseDirectives(decl.doc)
		if err != nil {
			// Reported when the declaration itself is processed.
			continue
		}

		attrs := dirs.attrs
		if override != nil {
			attrs = attrs.Merge(override.Variants[obj.Name()])
		}

		switch ut := named.Underlying().(type) {
		case *types.Struct:
			variants = append(variants, a.structVariant(pkg, def, obj.Name(), named, ut, attrs, override, pos))
		default:
			variants = append(variants, a.wrappedVariant(def, obj.Name(), named, ut, attrs, override, pos))
		}
	}

	return variants
}

// structVariant describes a struct-shaped variant.
func (a *Analyzer) structVariant(
	pkg *packages.Package,
	def *TypeDefinition,
	name string,
	typ types.Type,
	st *types.Struct,
	attrs VariantAttrs,
	override *Override,
	pos token.Position,
) Variant {
	v := Variant{
		Name:  name,
		Shape: ShapeStruct,
		Type:  typ,
		Attrs: attrs,
		Pos:   pos,
	}

	for i := range st.NumFields() {
		field := st.Field(i)
		if field.Name() == "_" {
			continue
		}

		f := Field{
			Name:     field.Name(),
			Index:    len(v.Fields),
			Type:     field.Type(),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Pos:      pkg.Fset.Position(field.Pos()),
		}

		fieldAttrs, err := ParseFieldTag(f.Tag)
		if err != nil {
			addAttrError(&a.graph.Diagnostics, f.Pos, err, def.ID.Name, a.fieldPath(def, name, f.Label()))
		}

		f.Attrs = fieldAttrs.Merge(a.fieldOverride(def, name, f.Label(), override))
		v.Fields = append(v.Fields, f)
	}

	if len(v.Fields) == 0 {
		v.Shape = ShapeUnit
	}

	return v
}

// wrappedVariant describes a named non-struct variant holding one positional
// field of its underlying type.
func (a *Analyzer) wrappedVariant(
	def *TypeDefinition,
	name string,
	typ types.Type,
	underlying types.Type,
	attrs VariantAttrs,
	override *Override,
	pos token.Position,
) Variant {
	f := Field{Index: 0, Type: underlying, Pos: pos}
	f.Attrs = a.fieldOverride(def, name, f.Label(), override)

	return Variant{
		Name:   name,
		Shape:  ShapeWrapped,
		Type:   typ,
		Fields: []Field{f},
		Attrs:  attrs,
		Pos:    pos,
	}
}

// fieldOverride looks up config attributes for a field. Fields of sum
// variants are addressed as "Variant.Field", fields of single-variant types
// as "Field".
func (a *Analyzer) fieldOverride(def *TypeDefinition, variant, label string, override *Override) FieldAttrs {
	if override == nil {
		return FieldAttrs{}
	}

	if def.Kind == DefSum {
		return override.Fields[variant+"."+label]
	}

	return override.Fields[label]
}

func (a *Analyzer) fieldPath(def *TypeDefinition, variant, label string) string {
	path := NewTypePath(def.ID.Name)
	if variant != def.ID.Name {
		path = path.Field(variant)
	}

	return path.Field(label).String()
}

func addAttrError(diags *diagnostic.Diagnostics, pos token.Position, err error, typeName, fieldPath string) {
	code := diagnostic.CodeInvalidAttribute

	var attrErr *AttrError
	if errors.As(err, &attrErr) {
		code = attrErr.Code
	}

	diags.AddErrorAt(pos, code, err.Error(), typeName, fieldPath)
}
