package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"text/template"

	"golang.org/x/sync/errgroup"

	"animate-generator/internal/analyze"
	"animate-generator/internal/common"
	"animate-generator/internal/plan"
)

// Defaults for Config.
const (
	DefaultOutputFile  = "animate_gen.go"
	DefaultRuntimePath = "animate-generator/animated"
)

// Header is the first line of every generated file.
const Header = "// Code generated by animate-generator. DO NOT EDIT."

// Config holds configuration for code generation.
type Config struct {
	// OutputFile is the name of the file generated in each package.
	OutputFile string
	// RuntimePath is the import path of the runtime package providing
	// Animator, Procedure, ErrIncompatible and the numeric helpers.
	RuntimePath string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		OutputFile:  DefaultOutputFile,
		RuntimePath: DefaultRuntimePath,
	}
}

// Generator renders plans into Go source files, one per package.
type Generator struct {
	config Config
	graph  *analyze.TypeGraph
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config Config, graph *analyze.TypeGraph) *Generator {
	if config.OutputFile == "" {
		config.OutputFile = DefaultOutputFile
	}

	if config.RuntimePath == "" {
		config.RuntimePath = DefaultRuntimePath
	}

	return &Generator{config: config, graph: graph}
}

// RuntimeName returns the identifier generated files refer to the runtime
// package by.
func (g *Generator) RuntimeName() string {
	return RuntimeName(g.config.RuntimePath)
}

// RuntimeName returns the package name of the runtime import path.
func RuntimeName(runtimePath string) string {
	return common.PkgAlias(runtimePath)
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// PkgPath is the import path of the package the file belongs to.
	PkgPath string
	// Dir is the package directory.
	Dir string
	// Filename is the name of the file (e.g., "animate_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the file's location on disk.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate renders the plans into one file per package. Packages are
// rendered concurrently; files are returned sorted by package path.
func (g *Generator) Generate(ctx context.Context, plans []*plan.AnimatePlan) ([]GeneratedFile, error) {
	byPkg := make(map[string][]*plan.AnimatePlan)
	for _, p := range plans {
		byPkg[p.Def.ID.PkgPath] = append(byPkg[p.Def.ID.PkgPath], p)
	}

	paths := make([]string, 0, len(byPkg))
	for path := range byPkg {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	files := make([]GeneratedFile, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := g.generatePackage(path, byPkg[path])
			if err != nil {
				return fmt.Errorf("generating %s: %w", path, err)
			}

			files[i] = *file

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// generatePackage renders the plans of one package.
func (g *Generator) generatePackage(pkgPath string, plans []*plan.AnimatePlan) (*GeneratedFile, error) {
	info := g.graph.Packages[pkgPath]
	if info == nil {
		return nil, fmt.Errorf("package %s was not loaded", pkgPath)
	}

	imports := newImportSet(pkgPath)
	rt := imports.add(g.config.RuntimePath, g.RuntimeName())

	data := &fileData{
		PackageName: info.Name,
		Runtime:     rt,
	}

	for _, p := range plans {
		for path, name := range p.Imports {
			imports.add(path, name)
		}

		for _, t := range p.Assertions {
			expr := imports.typeString(t)
			if !slices.Contains(data.Assertions, expr) {
				data.Assertions = append(data.Assertions, expr)
			}
		}

		data.Decls = append(data.Decls, g.buildDecl(p, imports, rt))
	}

	if err := imports.err(); err != nil {
		return nil, err
	}

	sort.Strings(data.Assertions)
	data.Imports = imports.specs()

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	file := &GeneratedFile{
		PkgPath:  pkgPath,
		Dir:      info.Dir,
		Filename: g.config.OutputFile,
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: the sidecar only helps debugging.
		_ = writeDebugUnformatted(info.Dir, file.Filename, buf.Bytes())

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	file.Content = formatted

	return file, nil
}

var fileTemplate = template.Must(template.New("file").Parse(fileText + declText + stmtText))

const fileText = Header + `

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{if .Assertions}}
var (
{{range .Assertions}}	_ {{$.Runtime}}.Animator[{{.}}] = *new({{.}})
{{end}})
{{end}}{{range .Decls}}
{{template "decl" .}}{{end}}`

const declText = `{{define "decl"}}// {{.Name}} {{.Doc}}
{{if .Method}}func (this {{.TypeExpr}}) Animate(other {{.TypeExpr}}, procedure {{.Runtime}}.Procedure) ({{.TypeExpr}}, error) {
{{else}}func {{.Name}}{{.TypeParams}}(this, other {{.TypeExpr}}, procedure {{.Runtime}}.Procedure) ({{.TypeExpr}}, error) {
{{end}}{{if .Sum}}{{if .Arms}}	switch {{if .BindThis}}this := {{end}}this.(type) {
{{range .Arms}}	case {{.TypeExpr}}:
{{if .Bind}}		other, ok := other.({{.TypeExpr}})
		if !ok {
			break
		}

{{else}}		if _, ok := other.({{.TypeExpr}}); !ok {
			break
		}

{{end}}{{range .Statements}}{{template "stmt" .}}{{end}}		return {{.Result}}, nil
{{end}}	}

{{end}}	return nil, {{.Runtime}}.ErrIncompatible
{{else}}{{range .Arms}}{{range .Statements}}{{template "stmt" .}}{{end}}	return {{.Result}}, nil
{{else}}	return {{.Zero}}, {{.Runtime}}.ErrIncompatible
{{end}}{{end}}}
{{end}}`

const stmtText = `{{define "stmt"}}{{if .Equal}}	if {{.This}} != {{.Other}} {
		return {{.Zero}}, {{.Runtime}}.ErrIncompatible
	}
	{{.Local}} := {{.This}}

{{else}}	{{.Local}}, err := {{.Call}}
	if err != nil {
		return {{.Zero}}, err
	}

{{end}}{{end}}`
