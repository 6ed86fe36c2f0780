package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"animate-generator/internal/analyze"
	"animate-generator/internal/diagnostic"
)

const fixturePkg = "fixture"

// loadGraph type-checks src as the only file of a throwaway module.
func loadGraph(t *testing.T, src string) *analyze.TypeGraph {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module fixture\n\ngo 1.24\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixture.go"), []byte(src), 0o644))

	graph, err := analyze.NewAnalyzer(analyze.Config{Dir: dir}).LoadPackages(".")
	require.NoError(t, err)
	require.False(t, graph.Diagnostics.HasErrors(), graph.Diagnostics.Errors)

	return graph
}

func buildPlan(t *testing.T, graph *analyze.TypeGraph, name string) (*AnimatePlan, diagnostic.Diagnostics) {
	t.Helper()

	def := graph.GetType(analyze.TypeID{PkgPath: fixturePkg, Name: name})
	require.NotNil(t, def, "type %s", name)

	return NewBuilder(graph, "animated").Build(def)
}

func planByName(t *testing.T, plans []*AnimatePlan, name string) *AnimatePlan {
	t.Helper()

	for _, p := range plans {
		if p.Def.ID.Name == name {
			return p
		}
	}

	require.Failf(t, "plan not found", "%s", name)

	return nil
}

func errorCodes(d diagnostic.Diagnostics) []string {
	var out []string
	for _, e := range d.Errors {
		out = append(out, e.Code)
	}

	return out
}
