package gen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// runExampleIntegrationTest regenerates an example package with the CLI and
// runs its tests against the fresh code.
func runExampleIntegrationTest(t *testing.T, exampleName string) {
	t.Helper()

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	exampleDir := filepath.Join(repoRoot, "examples", exampleName)
	outFile := filepath.Join(exampleDir, "animate_gen.go")

	cmd := exec.CommandContext(t.Context(), "go", "run", "./cmd/animate-generator", "gen",
		"--log-level", "warn",
		"./examples/"+exampleName,
	)
	cmd.Dir = repoRoot

	b, err := cmd.CombinedOutput()
	if err != nil {
		// Best-effort: dump what gofmt rejected, if anything.
		if fb, rerr := os.ReadFile(outFile + ".unformatted"); rerr == nil {
			t.Logf("unformatted output %s.unformatted:\n%s", outFile, string(fb))
		}

		t.Fatalf("gen failed: %v\n%s", err, string(b))
	}

	check := exec.CommandContext(t.Context(), "go", "run", "./cmd/animate-generator", "check",
		"./examples/"+exampleName,
	)
	check.Dir = repoRoot

	b, err = check.CombinedOutput()
	if err != nil {
		t.Fatalf("check after gen failed: %v\n%s", err, string(b))
	}

	test := exec.CommandContext(t.Context(), "go", "test", "./examples/"+exampleName, "-count=1")
	test.Dir = repoRoot

	b, err = test.CombinedOutput()
	if err != nil {
		if fb, rerr := os.ReadFile(outFile); rerr == nil {
			t.Logf("generated file %s:\n%s", outFile, string(fb))
		}

		t.Fatalf("example tests failed: %v\n%s", err, string(b))
	}
}
