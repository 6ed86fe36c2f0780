package plan

import (
	"fmt"
	"go/types"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"animate-generator/internal/analyze"
	"animate-generator/internal/common"
	"animate-generator/internal/diagnostic"
)

// Identifiers with a fixed meaning inside every generated function.
const (
	ThisVar      = "this"
	OtherVar     = "other"
	ProcedureVar = "procedure"
	ErrVar       = "err"
	OkVar        = "ok"
)

// Plan builds and resolves the plans of every derive target in graph,
// package by package in path order and in declaration order within a
// package. Resolution only runs when every build succeeded.
func Plan(graph *analyze.TypeGraph, runtimeName string) ([]*AnimatePlan, diagnostic.Diagnostics) {
	var (
		plans []*AnimatePlan
		diags diagnostic.Diagnostics
	)

	builder := NewBuilder(graph, runtimeName)

	for _, pkgPath := range slices.Sorted(maps.Keys(graph.Packages)) {
		for _, def := range graph.Definitions(pkgPath) {
			p, d := builder.Build(def)
			diags.Merge(d)
			plans = append(plans, p)
		}
	}

	if diags.HasErrors() {
		return plans, diags
	}

	diags.Merge(NewResolver(graph, plans).Resolve())

	return plans, diags
}

// Builder turns definitions into plans.
type Builder struct {
	graph *analyze.TypeGraph
	// runtimeName is the package name generated code uses for the runtime.
	runtimeName string
}

// NewBuilder creates a Builder for the definitions of graph. runtimeName is
// the identifier generated files import the runtime package as.
func NewBuilder(graph *analyze.TypeGraph, runtimeName string) *Builder {
	return &Builder{graph: graph, runtimeName: runtimeName}
}

// buildContext is the state of one generation pass over one definition.
type buildContext struct {
	*Builder
	def    *analyze.TypeDefinition
	pkg    *types.Package
	params []*types.TypeParam
	plan   *AnimatePlan
	diags  diagnostic.Diagnostics
}

// Build walks every variant of def and produces its plan. Problems are
// returned as diagnostics; a plan with error diagnostics must not be
// rendered.
func (b *Builder) Build(def *analyze.TypeDefinition) (*AnimatePlan, diagnostic.Diagnostics) {
	ctx := &buildContext{
		Builder: b,
		def:     def,
		params:  def.Params(),
		plan: &AnimatePlan{
			Def:     def,
			Bounds:  NewBoundSet(),
			Imports: make(map[string]string),
		},
	}

	if info := b.graph.Packages[def.ID.PkgPath]; info != nil {
		ctx.pkg = info.Pkg
	}

	if ctx.pkg == nil && def.Named != nil {
		ctx.pkg = def.Named.Obj().Pkg()
	}

	if ctx.conflicts() {
		return ctx.plan, ctx.diags
	}

	// Cross-variant combinations can never succeed.
	ctx.plan.CatchAll = common.IsMultiple(def.Variants)

	for i := range def.Variants {
		v := &def.Variants[i]
		if v.Attrs.Error {
			ctx.plan.CatchAll = true
			continue
		}

		ctx.plan.Arms = append(ctx.plan.Arms, ctx.arm(v))
	}

	return ctx.plan, ctx.diags
}

// conflicts reports a hand-written declaration under the name the generated
// code would take. Generated files are stubbed out before loading, so
// anything found here would be declared twice.
func (c *buildContext) conflicts() bool {
	def := c.def

	if def.Kind == analyze.DefSum || def.IsGeneric() {
		name := FuncName(def.ID.Name)
		if c.pkg == nil || c.pkg.Scope().Lookup(name) == nil {
			return false
		}

		c.diags.AddErrorAt(def.Pos, diagnostic.CodeNameConflict,
			fmt.Sprintf("%s is already declared in package %s", name, def.ID.PkgPath), def.ID.Name, "")

		return true
	}

	if def.Named == nil {
		return false
	}

	for i := range def.Named.NumMethods() {
		if def.Named.Method(i).Name() == "Animate" {
			c.diags.AddErrorAt(def.Pos, diagnostic.CodeNameConflict,
				fmt.Sprintf("%s already declares an Animate method", def.ID.Name), def.ID.Name, "")

			return true
		}
	}

	if st, ok := def.Named.Underlying().(*types.Struct); ok {
		for i := range st.NumFields() {
			if st.Field(i).Name() == "Animate" {
				c.diags.AddErrorAt(def.Pos, diagnostic.CodeNameConflict,
					fmt.Sprintf("field %s.Animate collides with the generated method", def.ID.Name),
					def.ID.Name, analyze.NewTypePath(def.ID.Name).Field("Animate").String())

				return true
			}
		}
	}

	return false
}

// arm builds the pattern triple and statements of one live variant.
func (c *buildContext) arm(v *analyze.Variant) Arm {
	namer := common.NewNamer(c.reserved()...)

	arm := Arm{
		Variant:  v,
		TypeExpr: c.variantTypeExpr(v),
	}

	for _, f := range v.Fields {
		binding := Binding{
			Field:  f,
			This:   c.project(ThisVar, v, &f),
			Other:  c.project(OtherVar, v, &f),
			Result: namer.Name(common.LowerFirst(f.Label())),
		}

		stmt, ok := c.statement(v, binding)
		if !ok {
			continue
		}

		arm.Bindings = append(arm.Bindings, binding)
		arm.Statements = append(arm.Statements, stmt)
	}

	return arm
}

// statement applies the per-field policy: an equal field is compared and
// copied, any other field is interpolated by its own Animate.
func (c *buildContext) statement(v *analyze.Variant, binding Binding) (Statement, bool) {
	f := binding.Field

	if f.Attrs.Equal {
		if MentionsTypeParam(f.Type, c.params) {
			c.plan.Bounds.Add(f.Type, TraitComparable)
			c.plan.Bounds.Add(f.Type, TraitClone)
		} else if !types.Comparable(f.Type) {
			c.diags.AddErrorAt(f.Pos, diagnostic.CodeNotComparable,
				fmt.Sprintf("field of type %s is marked equal but the type is not comparable",
					c.typeExpr(f.Type)), c.def.ID.Name, c.fieldPath(v, &f))

			return Statement{}, false
		}

		return Statement{Kind: StatementEqual, Binding: binding}, true
	}

	callee, err := c.callee(f.Type)
	if err != nil {
		c.diags.AddErrorAt(f.Pos, diagnostic.CodeNotAnimatable, err.Error(),
			c.def.ID.Name, c.fieldPath(v, &f))

		return Statement{}, false
	}

	c.plan.Bounds.Add(f.Type, TraitAnimate)

	return Statement{Kind: StatementAnimate, Binding: binding, Callee: callee}, true
}

// callee decides how a value of type t is interpolated.
func (c *buildContext) callee(t types.Type) (Callee, error) {
	switch tt := types.Unalias(t).(type) {
	case *types.TypeParam:
		if !slices.Contains(c.params, tt) {
			return Callee{}, fmt.Errorf("type parameter %s does not belong to %s", tt, c.def.ID.Name)
		}

		if callee, ok := numericParam(tt); ok {
			return callee, nil
		}

		return Callee{Kind: CallMethod}, nil

	case *types.Basic:
		return numericCallee(tt)

	case *types.Named:
		if target := c.graph.Lookup(tt); target != nil {
			if target.Kind == analyze.DefSum || target.IsGeneric() {
				return Callee{Kind: CallFunc, Func: c.funcRef(tt.Obj().Pkg(), FuncName(target.ID.Name))}, nil
			}

			return Callee{Kind: CallMethod}, nil
		}

		if HasAnimateMethod(tt) {
			return Callee{Kind: CallMethod}, nil
		}

		if pkg := tt.Obj().Pkg(); pkg != nil {
			name := FuncName(tt.Obj().Name())
			if _, ok := pkg.Scope().Lookup(name).(*types.Func); ok {
				return Callee{Kind: CallFunc, Func: c.funcRef(pkg, name)}, nil
			}
		}

		if basic, ok := tt.Underlying().(*types.Basic); ok {
			return numericCallee(basic)
		}
	}

	return Callee{}, fmt.Errorf("%s cannot be animated: it has no Animate method and is not a number or a derive target",
		c.typeExpr(t))
}

func numericCallee(b *types.Basic) (Callee, error) {
	info := b.Info()

	switch {
	case info&types.IsUntyped != 0:
		return Callee{}, fmt.Errorf("untyped %s cannot be animated", b)
	case info&types.IsFloat != 0:
		return Callee{Kind: CallFloat}, nil
	case info&types.IsInteger != 0:
		return Callee{Kind: CallInteger}, nil
	default:
		return Callee{}, fmt.Errorf("%s cannot be animated", b)
	}
}

// numericParam reports whether every type in the type set of tp is a float,
// or every one is an integer, so the runtime helpers accept it.
func numericParam(tp *types.TypeParam) (Callee, bool) {
	iface, ok := tp.Constraint().Underlying().(*types.Interface)
	if !ok || iface.NumEmbeddeds() == 0 {
		return Callee{}, false
	}

	var (
		kind  CalleeKind
		found bool
	)

	for i := range iface.NumEmbeddeds() {
		union, ok := iface.EmbeddedType(i).(*types.Union)
		if !ok {
			return Callee{}, false
		}

		for j := range union.Len() {
			basic, ok := union.Term(j).Type().Underlying().(*types.Basic)
			if !ok {
				return Callee{}, false
			}

			callee, err := numericCallee(basic)
			if err != nil || (found && callee.Kind != kind) {
				return Callee{}, false
			}

			kind, found = callee.Kind, true
		}
	}

	return Callee{Kind: kind}, found
}

// HasAnimateMethod reports whether t has a method
// Animate(t, Procedure) (t, error) in its value method set.
func HasAnimateMethod(t types.Type) bool {
	sel := types.NewMethodSet(t).Lookup(nil, "Animate")
	if sel == nil {
		return false
	}

	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 2 || sig.Results().Len() != 2 {
		return false
	}

	if !types.Identical(sig.Params().At(0).Type(), t) || !types.Identical(sig.Results().At(0).Type(), t) {
		return false
	}

	return types.Identical(sig.Results().At(1).Type(), types.Universe.Lookup("error").Type())
}

// FuncName returns the name of the generated function deriving typeName.
// It is exported exactly when the type is.
func FuncName(typeName string) string {
	r, size := utf8.DecodeRuneInString(typeName)
	if unicode.IsUpper(r) {
		return "Animate" + typeName
	}

	return "animate" + string(unicode.ToUpper(r)) + typeName[size:]
}

// funcRef qualifies a package-level function name for use in pkg c.pkg.
func (c *buildContext) funcRef(pkg *types.Package, name string) string {
	if q := c.qualify(pkg); q != "" {
		return q + "." + name
	}

	return name
}

// qualify is a types.Qualifier relative to the definition's package that
// records every other package it names.
func (c *buildContext) qualify(pkg *types.Package) string {
	if pkg == nil || pkg == c.pkg {
		return ""
	}

	c.plan.Imports[pkg.Path()] = pkg.Name()

	return pkg.Name()
}

func (c *buildContext) typeExpr(t types.Type) string {
	return types.TypeString(t, c.qualify)
}

// project returns the expression reading field f of operand.
func (c *buildContext) project(operand string, v *analyze.Variant, f *analyze.Field) string {
	if v.Shape != analyze.ShapeWrapped {
		return operand + "." + f.Name
	}

	typ := c.typeExpr(f.Type)
	if needsParens(typ) {
		typ = "(" + typ + ")"
	}

	return typ + "(" + operand + ")"
}

func needsParens(typeExpr string) bool {
	for _, prefix := range []string{"*", "func", "<-", "chan"} {
		if strings.HasPrefix(typeExpr, prefix) {
			return true
		}
	}

	return false
}

// variantTypeExpr renders the variant type, instantiated with the
// definition's own parameters when it is generic.
func (c *buildContext) variantTypeExpr(v *analyze.Variant) string {
	if v.Name != c.def.ID.Name || !c.def.IsGeneric() {
		return v.Name
	}

	return TypeExpr(c.def)
}

// TypeExpr renders a definition's type instantiated with its own
// parameters, e.g. "Pair[T, U]".
func TypeExpr(def *analyze.TypeDefinition) string {
	if !def.IsGeneric() {
		return def.ID.Name
	}

	names := make([]string, len(def.TypeParams))
	for i, tp := range def.TypeParams {
		names[i] = tp.Name
	}

	return def.ID.Name + "[" + strings.Join(names, ", ") + "]"
}

// reserved lists identifiers locals must not shadow: the fixed names, every
// package-level identifier including the functions generated next to them,
// and every imported package name.
func (c *buildContext) reserved() []string {
	names := []string{ThisVar, OtherVar, ProcedureVar, ErrVar, OkVar, c.runtimeName}

	for _, tp := range c.def.TypeParams {
		names = append(names, tp.Name)
	}

	for _, def := range c.graph.Definitions(c.def.ID.PkgPath) {
		names = append(names, FuncName(def.ID.Name))
	}

	if c.pkg != nil {
		names = append(names, c.pkg.Scope().Names()...)
		for _, imp := range c.pkg.Imports() {
			names = append(names, imp.Name())
		}
	}

	return names
}

func (c *buildContext) fieldPath(v *analyze.Variant, f *analyze.Field) string {
	path := analyze.NewTypePath(c.def.ID.Name)
	if v.Name != c.def.ID.Name {
		path = path.Field(v.Name)
	}

	return path.Field(f.Label()).String()
}

// ZeroValue returns the expression returned alongside a failure.
func (p *AnimatePlan) ZeroValue() string {
	switch p.Def.Kind {
	case analyze.DefSum:
		return "nil"
	case analyze.DefStruct:
		return TypeExpr(p.Def) + "{}"
	default:
		return "*new(" + TypeExpr(p.Def) + ")"
	}
}

func resultValue(typeExpr string, shape analyze.VariantShape, bindings []Binding) string {
	switch shape {
	case analyze.ShapeWrapped:
		if len(bindings) == 0 {
			return "*new(" + typeExpr + ")"
		}

		return typeExpr + "(" + bindings[0].Result + ")"

	case analyze.ShapeUnit:
		return typeExpr + "{}"

	default:
		parts := make([]string, len(bindings))
		for i, b := range bindings {
			parts[i] = b.Field.Name + ": " + b.Result
		}

		return typeExpr + "{" + strings.Join(parts, ", ") + "}"
	}
}
