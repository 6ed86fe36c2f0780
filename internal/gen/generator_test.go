package gen

import (
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"animate-generator/internal/analyze"
	"animate-generator/internal/plan"
)

const examplesModule = "animate-generator/examples/"

func repoRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	return root
}

// generateExamples runs the whole pipeline over the example packages without
// writing anything.
func generateExamples(t *testing.T) map[string]GeneratedFile {
	t.Helper()

	graph, err := analyze.NewAnalyzer(analyze.Config{
		Dir:        repoRoot(t),
		OutputFile: DefaultOutputFile,
	}).LoadPackages("./examples/...")
	require.NoError(t, err)
	require.False(t, graph.Diagnostics.HasErrors(), graph.Diagnostics.Errors)

	plans, diags := plan.Plan(graph, RuntimeName(DefaultRuntimePath))
	require.False(t, diags.HasErrors(), diags.Errors)

	files, err := NewGenerator(DefaultConfig(), graph).Generate(t.Context(), plans)
	require.NoError(t, err)

	out := make(map[string]GeneratedFile, len(files))
	for _, f := range files {
		assert.Equal(t, DefaultOutputFile, f.Filename)
		assert.True(t, strings.HasPrefix(string(f.Content), Header+"\n"), "header of %s", f.PkgPath)
		out[strings.TrimPrefix(f.PkgPath, examplesModule)] = f
	}

	return out
}

func TestGenerate_Examples(t *testing.T) {
	files := generateExamples(t)
	require.Contains(t, files, "basic")
	require.Contains(t, files, "shapes")
	require.Contains(t, files, "generic")

	tests := []struct {
		pkg  string
		want []string
	}{
		{
			pkg: "basic",
			want: []string{
				"package basic",
				`"animate-generator/animated"`,
				"_ animated.Animator[Color] = *new(Color)",
				"_ animated.Animator[Point] = *new(Point)",
				"func (this Point) Animate(other Point, procedure animated.Procedure) (Point, error) {",
				"x, err := animated.Float(this.X, other.X, procedure)",
				"return Point{X: x, Y: y}, nil",
				"if this.Text != other.Text {\n\t\treturn Label{}, animated.ErrIncompatible\n\t}",
				"pos, err := this.Pos.Animate(other.Pos, procedure)",
				"r, err := animated.Integer(this.R, other.R, procedure)",
			},
		},
		{
			pkg: "shapes",
			want: []string{
				`"animate-generator/examples/basic"`,
				"_ animated.Animator[basic.Point] = *new(basic.Point)",
				"func AnimateShape(this, other Shape, procedure animated.Procedure) (Shape, error) {",
				"switch this := this.(type) {",
				"case Circle:\n\t\tother, ok := other.(Circle)\n\t\tif !ok {\n\t\t\tbreak\n\t\t}",
				"case Empty:\n\t\tif _, ok := other.(Empty); !ok {\n\t\t\tbreak\n\t\t}",
				"return nil, animated.ErrIncompatible\n}",
			},
		},
		{
			pkg: "generic",
			want: []string{
				"func AnimatePair[T animated.Animator[T], U animated.Animator[U]](this, other Pair[T, U], procedure animated.Procedure) (Pair[T, U], error) {",
				"func AnimateTagged[K comparable, V animated.Animator[V]](",
				"func AnimateKeyframe[T animated.Animator[T]](",
				"value, err := AnimatePair(this.Value, other.Value, procedure)",
				"func AnimateRanked[K comparable, V interface{ ~float32 | ~float64 }](",
				"score, err := animated.Float(this.Score, other.Score, procedure)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			content := string(files[tt.pkg].Content)
			for _, want := range tt.want {
				assert.Contains(t, content, want)
			}
		})
	}

	assert.NotContains(t, string(files["shapes"].Content), "case Path:", "error variants get no arm")
	assert.Contains(t, string(files["basic"].Content),
		"func (this Frozen) Animate(other Frozen, procedure animated.Procedure) (Frozen, error) {\n\treturn Frozen{}, animated.ErrIncompatible\n}")
}

// TestGenerate_ConstraintsAreNecessary type-checks the generated generic
// functions with one derived requirement removed at a time: each removal must
// break compilation, while the untouched file compiles.
func TestGenerate_ConstraintsAreNecessary(t *testing.T) {
	file := generateExamples(t)["generic"]
	original := string(file.Content)

	tests := []struct {
		name    string
		old     string
		new     string
		wantErr bool
	}{
		{name: "unchanged", wantErr: false},
		{
			name:    "comparable removed",
			old:     "AnimateTagged[K comparable,",
			new:     "AnimateTagged[K any,",
			wantErr: true,
		},
		{
			name:    "animator removed",
			old:     "AnimatePair[T animated.Animator[T],",
			new:     "AnimatePair[T any,",
			wantErr: true,
		},
		{
			name:    "propagated animator removed",
			old:     "AnimateKeyframe[T animated.Animator[T]]",
			new:     "AnimateKeyframe[T any]",
			wantErr: true,
		},
		{
			name:    "array element comparable removed",
			old:     "AnimateRanked[K comparable,",
			new:     "AnimateRanked[K any,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := original
			if tt.old != "" {
				require.Contains(t, content, tt.old)
				content = strings.Replace(content, tt.old, tt.new, 1)
			}

			pkgs, err := packages.Load(&packages.Config{
				Mode:    packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
				Dir:     repoRoot(t),
				Overlay: map[string][]byte{file.Path(): []byte(content)},
			}, "./examples/generic")
			require.NoError(t, err)
			require.Len(t, pkgs, 1)

			if tt.wantErr {
				assert.NotEmpty(t, pkgs[0].Errors)
			} else {
				assert.Empty(t, pkgs[0].Errors)
			}
		})
	}
}

func TestGenerate_FormatFailureWritesSidecar(t *testing.T) {
	dir := t.TempDir()

	graph := analyze.NewTypeGraph()
	graph.Packages["fixture"] = &analyze.PackageInfo{Path: "fixture", Name: "fixture", Dir: dir}

	def := &analyze.TypeDefinition{
		ID:       analyze.TypeID{PkgPath: "fixture", Name: "Bad"},
		PkgName:  "fixture",
		Kind:     analyze.DefStruct,
		Variants: []analyze.Variant{{Name: "Bad", Shape: analyze.ShapeStruct}},
	}

	binding := plan.Binding{
		Field:  analyze.Field{Name: "X"},
		This:   "this.X",
		Other:  "other.X",
		Result: "not an identifier",
	}

	p := &plan.AnimatePlan{
		Def: def,
		Arms: []plan.Arm{{
			Variant:    &def.Variants[0],
			TypeExpr:   "Bad",
			Bindings:   []plan.Binding{binding},
			Statements: []plan.Statement{{Kind: plan.StatementEqual, Binding: binding}},
		}},
	}

	_, err := NewGenerator(Config{}, graph).Generate(t.Context(), []*plan.AnimatePlan{p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting code")

	sidecar, err := os.ReadFile(unformattedPath(dir, DefaultOutputFile))
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "not an identifier := this.X")

	_, err = os.Stat(filepath.Join(dir, DefaultOutputFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_UnknownPackage(t *testing.T) {
	p := &plan.AnimatePlan{Def: &analyze.TypeDefinition{
		ID:   analyze.TypeID{PkgPath: "missing", Name: "T"},
		Kind: analyze.DefStruct,
	}}

	_, err := NewGenerator(DefaultConfig(), analyze.NewTypeGraph()).Generate(t.Context(), []*plan.AnimatePlan{p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing was not loaded")
}

func TestConstraintExpr(t *testing.T) {
	anyType := types.Universe.Lookup("any").Type()
	comparableType := types.Universe.Lookup("comparable").Type()

	floats := types.NewInterfaceType(nil, []types.Type{types.NewUnion([]*types.Term{
		types.NewTerm(true, types.Typ[types.Float32]),
		types.NewTerm(true, types.Typ[types.Float64]),
	})})

	typeString := func(t types.Type) string { return types.TypeString(t, nil) }

	tests := []struct {
		name       string
		declared   types.Type
		comparable bool
		animator   bool
		want       string
	}{
		{name: "nothing required", declared: anyType, want: "any"},
		{name: "no declared constraint", want: "any"},
		{name: "comparable", declared: anyType, comparable: true, want: "comparable"},
		{name: "comparable already declared", declared: comparableType, comparable: true, want: "comparable"},
		{name: "animator", declared: anyType, animator: true, want: "rt.Animator[T]"},
		{
			name:       "both",
			declared:   anyType,
			comparable: true,
			animator:   true,
			want:       "interface{ comparable; rt.Animator[T] }",
		},
		{
			name:     "declared kept",
			declared: comparableType,
			animator: true,
			want:     "interface{ rt.Animator[T]; comparable }",
		},
		{name: "declared union", declared: floats, want: "interface{~float32 | ~float64}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := plan.Constraint{
				Param:      analyze.TypeParam{Name: "T", Constraint: tt.declared},
				Comparable: tt.comparable,
				Animator:   tt.animator,
			}

			assert.Equal(t, tt.want, ConstraintExpr(c, typeString, "rt"))
		})
	}
}

func TestImportSet(t *testing.T) {
	s := newImportSet("example.com/app/scene")

	assert.Empty(t, s.add("example.com/app/scene", "scene"), "own package is never imported")
	assert.Equal(t, "animated", s.add("animate-generator/animated", ""))
	assert.Equal(t, "motion", s.add("example.com/motion/v2", ""))
	assert.Equal(t, "motion", s.add("example.com/motion/v2", "motion"))
	require.NoError(t, s.err())

	assert.Equal(t, []importSpec{
		{Path: "animate-generator/animated"},
		{Alias: "motion", Path: "example.com/motion/v2"},
	}, s.specs())

	s.add("example.com/other/motion", "motion")
	require.Error(t, s.err())
	assert.Contains(t, s.err().Error(), "both imported as motion")
}

func TestImportSet_TypeString(t *testing.T) {
	own := types.NewPackage("example.com/app/scene", "scene")
	geom := types.NewPackage("example.com/app/geom", "geom")

	point := types.NewNamed(types.NewTypeName(0, geom, "Point", nil), types.NewStruct(nil, nil), nil)
	sprite := types.NewNamed(types.NewTypeName(0, own, "Sprite", nil), types.NewStruct(nil, nil), nil)

	s := newImportSet(own.Path())
	assert.Equal(t, "[]geom.Point", s.typeString(types.NewSlice(point)))
	assert.Equal(t, "Sprite", s.typeString(sprite))
	assert.Equal(t, []importSpec{{Path: "example.com/app/geom"}}, s.specs())
}
