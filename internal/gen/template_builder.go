package gen

import (
	"fmt"
	"go/types"
	"strings"

	"animate-generator/internal/analyze"
	"animate-generator/internal/common"
	"animate-generator/internal/plan"
)

// fileData holds all data needed for one generated file.
type fileData struct {
	PackageName string
	Imports     []importSpec
	// Runtime is the name the runtime package is imported as.
	Runtime string
	// Assertions are type expressions that must implement the runtime's
	// Animator interface.
	Assertions []string
	Decls      []declData
}

// declData is one generated method or function.
type declData struct {
	Runtime string
	// Method selects the receiver form used by non-generic single-variant
	// types; everything else is a package-level function.
	Method     bool
	Sum        bool
	Name       string
	Doc        string
	TypeParams string
	TypeExpr   string
	Zero       string
	// BindThis is set when at least one arm reads fields of this, so the
	// type switch needs a binding.
	BindThis bool
	Arms     []armData
}

// armData is one live variant.
type armData struct {
	TypeExpr   string
	Bind       bool
	Statements []stmtData
	Result     string
}

// stmtData is the statement of one field.
type stmtData struct {
	Runtime string
	Zero    string
	Equal   bool
	Local   string
	This    string
	Other   string
	Call    string
}

// buildDecl constructs the template data of one plan.
func (g *Generator) buildDecl(p *plan.AnimatePlan, imports *importSet, rt string) declData {
	def := p.Def

	d := declData{
		Runtime:  rt,
		Sum:      def.Kind == analyze.DefSum,
		TypeExpr: plan.TypeExpr(def),
		Zero:     p.ZeroValue(),
	}

	if d.Sum || def.IsGeneric() {
		d.Name = plan.FuncName(def.ID.Name)
		d.Doc = fmt.Sprintf("interpolates between two %s values according to procedure.", def.ID.Name)
		d.TypeParams = typeParams(p, imports, rt)
	} else {
		d.Method = true
		d.Name = "Animate"
		d.Doc = "interpolates between this and other according to procedure."
	}

	for i := range p.Arms {
		arm := &p.Arms[i]

		a := armData{
			TypeExpr: arm.TypeExpr,
			Bind:     !common.IsEmpty(arm.Bindings),
			Result:   arm.ResultValue(),
		}

		d.BindThis = d.BindThis || a.Bind

		for _, st := range arm.Statements {
			a.Statements = append(a.Statements, stmtData{
				Runtime: rt,
				Zero:    d.Zero,
				Equal:   st.Kind == plan.StatementEqual,
				Local:   st.Binding.Result,
				This:    st.Binding.This,
				Other:   st.Binding.Other,
				Call:    callExpr(st, rt),
			})
		}

		d.Arms = append(d.Arms, a)
	}

	return d
}

// callExpr renders the interpolation of an animated field.
func callExpr(st plan.Statement, rt string) string {
	args := st.Binding.This + ", " + st.Binding.Other + ", " + plan.ProcedureVar

	switch st.Callee.Kind {
	case plan.CallFloat:
		return rt + ".Float(" + args + ")"
	case plan.CallInteger:
		return rt + ".Integer(" + args + ")"
	case plan.CallFunc:
		return st.Callee.Func + "(" + args + ")"
	default:
		return st.Binding.This + ".Animate(" + st.Binding.Other + ", " + plan.ProcedureVar + ")"
	}
}

// typeParams renders the type parameter list of a generic function, or ""
// for non-generic definitions.
func typeParams(p *plan.AnimatePlan, imports *importSet, rt string) string {
	if common.IsEmpty(p.Constraints) {
		return ""
	}

	parts := make([]string, len(p.Constraints))
	for i, c := range p.Constraints {
		parts[i] = c.Param.Name + " " + ConstraintExpr(c, imports.typeString, rt)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// ConstraintExpr renders the constraint of one type parameter: the derived
// requirements combined with the declared constraint.
func ConstraintExpr(c plan.Constraint, typeString func(types.Type) string, rt string) string {
	var (
		parts    []string
		declared = c.Param.Constraint
	)

	comparableType := types.Universe.Lookup("comparable").Type()

	if c.Comparable && (declared == nil || !types.Identical(declared, comparableType)) {
		parts = append(parts, "comparable")
	}

	if c.Animator {
		parts = append(parts, rt+".Animator["+c.Param.Name+"]")
	}

	if declared != nil && !isEmptyInterface(declared) {
		parts = append(parts, typeString(declared))
	}

	switch len(parts) {
	case 0:
		return "any"
	case 1:
		return parts[0]
	default:
		return "interface{ " + strings.Join(parts, "; ") + " }"
	}
}

func isEmptyInterface(t types.Type) bool {
	iface, ok := t.Underlying().(*types.Interface)

	return ok && iface.Empty()
}
