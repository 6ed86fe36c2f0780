package plan

import (
	"go/types"

	"animate-generator/internal/analyze"
	"animate-generator/internal/common"
)

// AnimatePlan is the output of the synthesis engine for one definition.
// It contains everything needed for code generation.
type AnimatePlan struct {
	// Def is the definition being derived.
	Def *analyze.TypeDefinition
	// Arms holds one arm per live (non-error) variant, in variant order.
	Arms []Arm
	// CatchAll is set when combinations not covered by Arms must fail: the
	// definition has more than one variant, or an error variant.
	CatchAll bool
	// Bounds accumulates the predicates the generated code relies on.
	Bounds *BoundSet
	// Constraints holds one entry per type parameter, filled by the Resolver.
	Constraints []Constraint
	// Assertions lists concrete types that must implement animated.Animator,
	// filled by the Resolver.
	Assertions []types.Type
	// Imports maps import paths to package names referenced by the
	// projections and callees of this plan.
	Imports map[string]string
}

// Arm handles one live variant: it destructures this and other, runs one
// statement per field and builds the result.
type Arm struct {
	// Variant is the variant matched by this arm.
	Variant *analyze.Variant
	// TypeExpr is the Go type of the variant as written in generated code
	// (e.g. "Circle" or "Pair[T]").
	TypeExpr string
	// Bindings pairs the this/other projections with the result local of
	// each field, in declared field order.
	Bindings []Binding
	// Statements holds one statement per binding, in the same order.
	Statements []Statement
}

// ThisPattern returns the projections of the this operand.
func (a *Arm) ThisPattern() []string {
	out := make([]string, len(a.Bindings))
	for i, b := range a.Bindings {
		out[i] = b.This
	}

	return out
}

// OtherPattern returns the projections of the other operand.
func (a *Arm) OtherPattern() []string {
	out := make([]string, len(a.Bindings))
	for i, b := range a.Bindings {
		out[i] = b.Other
	}

	return out
}

// ResultValue returns the expression constructing the arm's result from the
// field locals.
func (a *Arm) ResultValue() string {
	return resultValue(a.TypeExpr, a.Variant.Shape, a.Bindings)
}

// Binding is one field of a variant seen through the pattern triple.
type Binding struct {
	Field analyze.Field
	// This is the expression reading the field from the this operand.
	This string
	// Other is the expression reading the field from the other operand.
	Other string
	// Result is the local holding the field of the result.
	Result string
}

// StatementKind selects the generated statement for a field.
type StatementKind int

const (
	// StatementAnimate delegates to the field type's interpolation.
	StatementAnimate StatementKind = iota
	// StatementEqual requires both values to be equal and copies one.
	StatementEqual
)

// String returns a human-readable statement kind.
func (k StatementKind) String() string {
	switch k {
	case StatementAnimate:
		return "animate"
	case StatementEqual:
		return "equal"
	default:
		return common.UnknownStr
	}
}

// Statement is the generated logic of one field.
type Statement struct {
	Kind    StatementKind
	Binding Binding
	// Callee is set for StatementAnimate.
	Callee Callee
}

// CalleeKind describes how a field is interpolated.
type CalleeKind int

const (
	// CallFloat uses the runtime's Float helper.
	CallFloat CalleeKind = iota
	// CallInteger uses the runtime's Integer helper.
	CallInteger
	// CallMethod calls the Animate method of the value.
	CallMethod
	// CallFunc calls a generated Animate<Name> function.
	CallFunc
)

// String returns a human-readable callee kind.
func (k CalleeKind) String() string {
	switch k {
	case CallFloat:
		return "float"
	case CallInteger:
		return "integer"
	case CallMethod:
		return "method"
	case CallFunc:
		return "func"
	default:
		return common.UnknownStr
	}
}

// Callee identifies the interpolation of a field.
type Callee struct {
	Kind CalleeKind
	// Func is the (possibly package-qualified) function name for CallFunc.
	Func string
}

// Constraint is the resolved requirement set of one type parameter.
type Constraint struct {
	Param analyze.TypeParam
	// Comparable requires the parameter to satisfy comparable.
	Comparable bool
	// Animator requires the parameter to implement animated.Animator[P].
	Animator bool
}
