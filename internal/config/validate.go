package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"animate-generator/internal/analyze"
	"animate-generator/internal/diagnostic"
	"animate-generator/internal/match"
)

// Validate checks the type entries against the loaded graph: every entry
// must name a derive target, and every variant and field key must exist.
// Types that failed analysis already carry their own diagnostics and are
// reported here as not found only when no diagnostic names them.
func Validate(f *File, graph *analyze.TypeGraph) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	for i := range f.Types {
		t := &f.Types[i]

		defs := findDefinitions(graph, t)
		if len(defs) == 0 {
			if !mentioned(graph.Diagnostics, t.Name) {
				res.AddError(diagnostic.CodeTypeNotFound,
					fmt.Sprintf("configured type %s not found in the processed packages%s",
						t.ID(), match.Hint(t.Name, typeNames(graph))), t.Name, "")
			}

			continue
		}

		for _, def := range defs {
			validateEntry(&res, t, def)
		}
	}

	return res
}

func validateEntry(res *diagnostic.Diagnostics, t *TypeConfig, def *analyze.TypeDefinition) {
	name := def.ID.Name

	for _, variant := range slices.Sorted(maps.Keys(t.Variants)) {
		if def.Kind != analyze.DefSum {
			res.AddError(diagnostic.CodeAttributeMisplaced,
				fmt.Sprintf("%s is not a sum type; set error on the type itself", name), name, variant)

			continue
		}

		if def.Variant(variant) == nil {
			res.AddError(diagnostic.CodeTypeNotFound,
				fmt.Sprintf("%s has no variant %s%s", name, variant, match.Hint(variant, variantNames(def))),
				name, variant)
		}
	}

	for _, label := range slices.Sorted(maps.Keys(t.Fields)) {
		if !hasField(def, label) {
			res.AddError(diagnostic.CodeTypeNotFound,
				fmt.Sprintf("%s has no field %s%s", name, label, match.Hint(label, fieldLabels(def))),
				name, label)
		}
	}
}

func typeNames(graph *analyze.TypeGraph) []string {
	var out []string
	for _, info := range graph.Packages {
		for _, id := range info.Types {
			out = append(out, id.Name)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}

func variantNames(def *analyze.TypeDefinition) []string {
	out := make([]string, 0, len(def.Variants))
	for _, v := range def.Variants {
		out = append(out, v.Name)
	}

	return out
}

// fieldLabels lists the keys hasField accepts for def.
func fieldLabels(def *analyze.TypeDefinition) []string {
	var out []string
	for _, v := range def.Variants {
		for _, f := range v.Fields {
			if def.Kind == analyze.DefSum {
				out = append(out, v.Name+"."+f.Label())
			} else {
				out = append(out, f.Label())
			}
		}
	}

	return out
}

func hasField(def *analyze.TypeDefinition, label string) bool {
	variant := def.ID.Name

	if def.Kind == analyze.DefSum {
		v, field, ok := strings.Cut(label, ".")
		if !ok {
			return false
		}

		variant, label = v, field
	}

	v := def.Variant(variant)
	if v == nil {
		return false
	}

	for i := range v.Fields {
		if v.Fields[i].Label() == label {
			return true
		}
	}

	return false
}

func findDefinitions(graph *analyze.TypeGraph, t *TypeConfig) []*analyze.TypeDefinition {
	if t.Package != "" {
		if def := graph.GetType(analyze.TypeID{PkgPath: t.Package, Name: t.Name}); def != nil {
			return []*analyze.TypeDefinition{def}
		}

		return nil
	}

	var out []*analyze.TypeDefinition

	for _, pkgPath := range slices.Sorted(maps.Keys(graph.Packages)) {
		if def := graph.GetType(analyze.TypeID{PkgPath: pkgPath, Name: t.Name}); def != nil {
			out = append(out, def)
		}
	}

	return out
}

func mentioned(d diagnostic.Diagnostics, typeName string) bool {
	for _, e := range d.Errors {
		if e.Type == typeName {
			return true
		}
	}

	return false
}
