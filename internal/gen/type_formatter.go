package gen

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"animate-generator/internal/common"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet collects the imports of one generated file and renders types
// relative to the file's package.
type importSet struct {
	pkgPath string
	byPath  map[string]string
	byName  map[string]string
	errs    []error
}

func newImportSet(pkgPath string) *importSet {
	return &importSet{
		pkgPath: pkgPath,
		byPath:  make(map[string]string),
		byName:  make(map[string]string),
	}
}

// add records an import and returns the name it is referred to by. Two
// different paths under the same name are reported by err.
func (s *importSet) add(path, name string) string {
	if path == "" || path == s.pkgPath {
		return ""
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	if prev, ok := s.byName[name]; ok && prev != path {
		s.errs = append(s.errs, fmt.Errorf("packages %s and %s are both imported as %s", prev, path, name))
		return name
	}

	s.byPath[path] = name
	s.byName[name] = path

	return name
}

// qualify is a types.Qualifier recording every package it names.
func (s *importSet) qualify(pkg *types.Package) string {
	if pkg == nil {
		return ""
	}

	return s.add(pkg.Path(), pkg.Name())
}

// typeString renders t as written inside the file's package.
func (s *importSet) typeString(t types.Type) string {
	return types.TypeString(t, s.qualify)
}

// specs returns the imports sorted by path. An alias is only written when
// the name differs from the last path element.
func (s *importSet) specs() []importSpec {
	out := make([]importSpec, 0, len(s.byPath))
	for path, name := range s.byPath {
		spec := importSpec{Path: path}
		if name != lastElem(path) {
			spec.Alias = name
		}

		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

func (s *importSet) err() error {
	if len(s.errs) == 0 {
		return nil
	}

	return s.errs[0]
}

func lastElem(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}

	return path
}
