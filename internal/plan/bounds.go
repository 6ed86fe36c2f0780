package plan

import (
	"go/types"
	"sort"

	"animate-generator/internal/common"
)

// Trait is a predicate the generated code requires of a field type.
type Trait int

const (
	// TraitAnimate requires the type to be interpolatable.
	TraitAnimate Trait = iota
	// TraitComparable requires == and != on the type.
	TraitComparable
	// TraitClone requires the value to be duplicable.
	TraitClone
)

// String returns a human-readable trait name.
func (t Trait) String() string {
	switch t {
	case TraitAnimate:
		return "Animate"
	case TraitComparable:
		return "Comparable"
	case TraitClone:
		return "Clone"
	default:
		return common.UnknownStr
	}
}

// Bound is one where-clause predicate: Type must satisfy Trait.
type Bound struct {
	Type  types.Type
	Trait Trait
}

// String returns the predicate as "Type: Trait".
func (b Bound) String() string {
	return types.TypeString(b.Type, nil) + ": " + b.Trait.String()
}

// BoundSet accumulates bounds across every variant of one definition.
// It is a set: adding the same predicate twice, or in a different order,
// yields the same membership.
type BoundSet struct {
	bounds map[string]Bound
}

// NewBoundSet creates an empty BoundSet.
func NewBoundSet() *BoundSet {
	return &BoundSet{bounds: make(map[string]Bound)}
}

// Add inserts a predicate and reports whether it was new.
func (s *BoundSet) Add(t types.Type, trait Trait) bool {
	b := Bound{Type: t, Trait: trait}

	key := b.String()
	if _, ok := s.bounds[key]; ok {
		return false
	}

	s.bounds[key] = b

	return true
}

// Has reports whether the predicate is in the set.
func (s *BoundSet) Has(t types.Type, trait Trait) bool {
	_, ok := s.bounds[Bound{Type: t, Trait: trait}.String()]
	return ok
}

// Len returns the number of predicates.
func (s *BoundSet) Len() int {
	return len(s.bounds)
}

// Merge adds every predicate of other.
func (s *BoundSet) Merge(other *BoundSet) {
	for key, b := range other.bounds {
		s.bounds[key] = b
	}
}

// Bounds returns the predicates sorted by their string form.
func (s *BoundSet) Bounds() []Bound {
	keys := make([]string, 0, len(s.bounds))
	for k := range s.bounds {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make([]Bound, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.bounds[k])
	}

	return out
}

// Strings returns the sorted string form of every predicate.
func (s *BoundSet) Strings() []string {
	out := make([]string, 0, len(s.bounds))
	for _, b := range s.Bounds() {
		out = append(out, b.String())
	}

	return out
}

// MentionsTypeParam reports whether t refers to any of params.
func MentionsTypeParam(t types.Type, params []*types.TypeParam) bool {
	if len(params) == 0 {
		return false
	}

	return mentions(t, params, make(map[types.Type]bool))
}

func mentions(t types.Type, params []*types.TypeParam, seen map[types.Type]bool) bool {
	if seen[t] {
		return false
	}

	seen[t] = true

	switch tt := types.Unalias(t).(type) {
	case *types.TypeParam:
		for _, p := range params {
			if p == tt {
				return true
			}
		}

		return false

	case *types.Named:
		args := tt.TypeArgs()
		for i := range args.Len() {
			if mentions(args.At(i), params, seen) {
				return true
			}
		}

		return false

	case *types.Pointer:
		return mentions(tt.Elem(), params, seen)

	case *types.Slice:
		return mentions(tt.Elem(), params, seen)

	case *types.Array:
		return mentions(tt.Elem(), params, seen)

	case *types.Chan:
		return mentions(tt.Elem(), params, seen)

	case *types.Map:
		return mentions(tt.Key(), params, seen) || mentions(tt.Elem(), params, seen)

	case *types.Struct:
		for i := range tt.NumFields() {
			if mentions(tt.Field(i).Type(), params, seen) {
				return true
			}
		}

		return false

	case *types.Signature:
		return mentionsTuple(tt.Params(), params, seen) || mentionsTuple(tt.Results(), params, seen)

	case *types.Interface:
		for i := range tt.NumMethods() {
			if mentions(tt.Method(i).Type(), params, seen) {
				return true
			}
		}

		return false

	default:
		return false
	}
}

func mentionsTuple(tuple *types.Tuple, params []*types.TypeParam, seen map[types.Type]bool) bool {
	for i := range tuple.Len() {
		if mentions(tuple.At(i).Type(), params, seen) {
			return true
		}
	}

	return false
}
