package plan

import (
	"fmt"
	"go/types"
	"sort"

	"animate-generator/internal/analyze"
	"animate-generator/internal/diagnostic"
)

// Resolver turns the bound sets of every plan in a run into Go
// type-parameter constraints and compile-time assertions.
//
// A bound on a bare type parameter becomes a constraint on that parameter.
// A bound on another generic derive target G[A...] requires of each A what G
// requires of its own parameter, so constraints are propagated to a fixpoint
// across all generic plans before anything is reported.
type Resolver struct {
	graph *analyze.TypeGraph
	plans []*AnimatePlan
	byID  map[analyze.TypeID]*AnimatePlan
}

// NewResolver creates a Resolver over the plans of one run.
func NewResolver(graph *analyze.TypeGraph, plans []*AnimatePlan) *Resolver {
	r := &Resolver{
		graph: graph,
		plans: plans,
		byID:  make(map[analyze.TypeID]*AnimatePlan, len(plans)),
	}

	for _, p := range plans {
		r.byID[p.Def.ID] = p
	}

	return r
}

// resolution is the state of resolving one plan.
type resolution struct {
	plan       *AnimatePlan
	params     []*types.TypeParam
	report     bool
	diags      *diagnostic.Diagnostics
	assertions map[string]types.Type
	changed    bool
}

// Resolve fills Constraints and Assertions of every plan.
func (r *Resolver) Resolve() diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for _, p := range r.plans {
		p.Constraints = make([]Constraint, len(p.Def.TypeParams))
		for i, tp := range p.Def.TypeParams {
			p.Constraints[i] = Constraint{Param: tp}
		}
	}

	// Constraints only ever turn on, so this terminates.
	for changed := true; changed; {
		changed = false

		for _, p := range r.plans {
			if !p.Def.IsGeneric() {
				continue
			}

			res := &resolution{plan: p, params: p.Def.Params()}
			r.apply(res)
			changed = changed || res.changed
		}
	}

	for _, p := range r.plans {
		res := &resolution{
			plan:       p,
			params:     p.Def.Params(),
			report:     true,
			diags:      &diags,
			assertions: make(map[string]types.Type),
		}
		r.apply(res)

		keys := make([]string, 0, len(res.assertions))
		for k := range res.assertions {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		p.Assertions = p.Assertions[:0]
		for _, k := range keys {
			p.Assertions = append(p.Assertions, res.assertions[k])
		}
	}

	return diags
}

func (r *Resolver) apply(res *resolution) {
	for _, b := range res.plan.Bounds.Bounds() {
		switch b.Trait {
		case TraitAnimate:
			r.requireAnimator(res, b.Type, true)
		case TraitComparable:
			r.requireComparable(res, b.Type, make(map[types.Type]bool))
		case TraitClone:
			// Go assignment copies values: nothing to require.
		}
	}
}

// requireAnimator records that t must be interpolatable. direct is set for
// bounds coming straight from a field, whose callee was already resolved.
func (r *Resolver) requireAnimator(res *resolution, t types.Type, direct bool) {
	switch tt := types.Unalias(t).(type) {
	case *types.TypeParam:
		if _, numeric := numericParam(tt); numeric {
			return
		}

		if i := paramIndex(res.params, tt); i >= 0 && !res.plan.Constraints[i].Animator {
			res.plan.Constraints[i].Animator = true
			res.changed = true
		}

		return

	case *types.Named:
		if target := r.graph.Lookup(tt); target != nil && target.IsGeneric() {
			r.requireInstance(res, tt, target)
			return
		}
	}

	if MentionsTypeParam(t, res.params) {
		if !direct {
			r.errorf(res, diagnostic.CodeUnsupportedBound,
				"%s must implement animated.Animator; only bare type parameters and derive targets can be constrained",
				typeString(res, t))
		}

		return
	}

	if r.animatesByMethod(t) {
		if res.assertions != nil {
			res.assertions[typeString(res, t)] = t
		}

		return
	}

	if !direct {
		r.errorf(res, diagnostic.CodeUnsupportedBound,
			"%s does not implement animated.Animator[%s]", typeString(res, t), typeString(res, t))
	}
}

// requireInstance propagates the constraints of a generic derive target to
// the type arguments of one of its instances.
func (r *Resolver) requireInstance(res *resolution, inst *types.Named, target *analyze.TypeDefinition) {
	tp := r.byID[target.ID]
	if tp == nil {
		return
	}

	args := inst.TypeArgs()
	for i, cons := range tp.Constraints {
		if i >= args.Len() {
			break
		}

		if cons.Animator {
			r.requireAnimator(res, args.At(i), false)
		}

		if cons.Comparable {
			r.requireComparable(res, args.At(i), make(map[types.Type]bool))
		}
	}
}

// requireComparable records that t must support ==. Parameters reached
// through value positions become comparable; pointers, channels and
// interfaces are comparable whatever they point to.
func (r *Resolver) requireComparable(res *resolution, t types.Type, seen map[types.Type]bool) {
	switch tt := types.Unalias(t).(type) {
	case *types.TypeParam:
		if i := paramIndex(res.params, tt); i >= 0 && !res.plan.Constraints[i].Comparable {
			res.plan.Constraints[i].Comparable = true
			res.changed = true
		}

	case *types.Basic, *types.Pointer, *types.Chan, *types.Interface:

	case *types.Array:
		r.requireComparable(res, tt.Elem(), seen)

	case *types.Struct:
		for i := range tt.NumFields() {
			r.requireComparable(res, tt.Field(i).Type(), seen)
		}

	case *types.Named:
		if seen[tt] {
			return
		}

		seen[tt] = true

		if !MentionsTypeParam(tt, res.params) {
			if !types.Comparable(tt) {
				r.errorf(res, diagnostic.CodeNotComparable, "%s is not comparable", typeString(res, t))
			}

			return
		}

		r.requireComparable(res, tt.Underlying(), seen)

	default:
		r.errorf(res, diagnostic.CodeNotComparable, "%s is not comparable", typeString(res, t))
	}
}

// animatesByMethod reports whether values of t are interpolated by calling
// their Animate method.
func (r *Resolver) animatesByMethod(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}

	if target := r.graph.Lookup(named); target != nil {
		return target.Kind != analyze.DefSum && !target.IsGeneric()
	}

	return HasAnimateMethod(named)
}

func (r *Resolver) errorf(res *resolution, code, format string, args ...any) {
	if !res.report {
		return
	}

	res.diags.AddErrorAt(res.plan.Def.Pos, code, fmt.Sprintf(format, args...), res.plan.Def.ID.Name, "")
}

func paramIndex(params []*types.TypeParam, tp *types.TypeParam) int {
	for i, p := range params {
		if p == tp {
			return i
		}
	}

	return -1
}

func typeString(res *resolution, t types.Type) string {
	var pkg *types.Package
	if res.plan.Def.Named != nil {
		pkg = res.plan.Def.Named.Obj().Pkg()
	}

	return types.TypeString(t, types.RelativeTo(pkg))
}
