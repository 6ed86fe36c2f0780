package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSrc = `package fixture

//animate:derive
type Point struct {
	X, Y float64
}

//animate:derive
type Sprite struct {
	Name string ` + "`animate:\"equal\"`" + `
	Pos  Point
}
`

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module fixture\n\ngo 1.24\n"), 0o644))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestGenThenCheck(t *testing.T) {
	dir := writeFixture(t, map[string]string{"fixture.go": fixtureSrc})

	_, err := execute(t, "check", "-C", dir, ".")
	require.Error(t, err, "check must fail before anything was generated")
	assert.Contains(t, err.Error(), "should exist")

	_, err = execute(t, "gen", "-C", dir, ".")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "animate_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "func (this Point) Animate(other Point, procedure animated.Procedure) (Point, error)")
	assert.Contains(t, string(content), "func (this Sprite) Animate(other Sprite, procedure animated.Procedure) (Sprite, error)")

	_, err = execute(t, "check", "-C", dir, ".")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "animate_gen.go"), []byte("package fixture\n"), 0o644))

	_, err = execute(t, "check", "-C", dir, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would have changed")
}

func TestGen_ConfigFile(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"fixture.go": "package fixture\n\ntype Size struct {\n\tW, H float64\n}\n",
		"animate.yaml": `version: "1"
packages: ["."]
output: size_anim.go
runtime: example.com/motion/v2
types:
  - name: Size
`,
	})

	_, err := execute(t, "gen", "-C", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "size_anim.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"example.com/motion/v2"`)
	assert.Contains(t, string(content), "procedure motion.Procedure")
}

func TestGen_Diagnostics(t *testing.T) {
	dir := writeFixture(t, map[string]string{
		"fixture.go": "package fixture\n\n//animate:derive\ntype Bad struct {\n\tCh chan int\n}\n",
	})

	out, err := execute(t, "gen", "-C", dir, ".")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "Bad")

	_, statErr := os.Stat(filepath.Join(dir, "animate_gen.go"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestGen_MissingExplicitConfig(t *testing.T) {
	dir := writeFixture(t, map[string]string{"fixture.go": fixtureSrc})

	_, err := execute(t, "gen", "-C", dir, "-c", filepath.Join(dir, "missing.yaml"), ".")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInspect(t *testing.T) {
	dir := writeFixture(t, map[string]string{"fixture.go": fixtureSrc})

	out, err := execute(t, "inspect", "-C", dir, ".")
	require.NoError(t, err)
	assert.Contains(t, out, "fixture.Sprite")
	assert.Contains(t, out, "AnimateSprite")
	assert.Contains(t, out, "name = equal")
	assert.Contains(t, out, "pos = animate via method")
}
