package main

import (
	"go/types"

	"animate-generator/internal/plan"
)

// planSummary is the printable form of a plan. go/types values are reduced
// to strings so dumps stay readable.
type planSummary struct {
	Type        string
	Kind        string
	Func        string
	TypeParams  []string
	Arms        []armSummary
	CatchAll    bool
	Bounds      []string
	Assertions  []string
	Constraints []string
}

type armSummary struct {
	Variant    string
	Statements []string
}

func summarize(p *plan.AnimatePlan) planSummary {
	qual := types.RelativeTo(nil)
	if p.Def.Named != nil {
		qual = types.RelativeTo(p.Def.Named.Obj().Pkg())
	}

	s := planSummary{
		Type:     p.Def.ID.String(),
		Kind:     p.Def.Kind.String(),
		Func:     plan.FuncName(p.Def.ID.Name),
		CatchAll: p.CatchAll,
	}

	for _, tp := range p.Def.TypeParams {
		s.TypeParams = append(s.TypeParams, tp.Name+" "+types.TypeString(tp.Constraint, qual))
	}

	for _, arm := range p.Arms {
		a := armSummary{Variant: arm.TypeExpr}
		for _, st := range arm.Statements {
			line := st.Binding.Result + " = " + st.Kind.String()
			if st.Kind == plan.StatementAnimate {
				line += " via " + st.Callee.Kind.String()
				if st.Callee.Func != "" {
					line += " " + st.Callee.Func
				}
			}

			a.Statements = append(a.Statements, line)
		}

		s.Arms = append(s.Arms, a)
	}

	for _, b := range p.Bounds.Bounds() {
		s.Bounds = append(s.Bounds, b.Trait.String()+" "+types.TypeString(b.Type, qual))
	}

	for _, t := range p.Assertions {
		s.Assertions = append(s.Assertions, types.TypeString(t, qual))
	}

	for _, c := range p.Constraints {
		line := c.Param.Name + ":"
		if c.Comparable {
			line += " comparable"
		}

		if c.Animator {
			line += " animator"
		}

		s.Constraints = append(s.Constraints, line)
	}

	return s
}
