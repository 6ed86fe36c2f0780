package gen_test

import "testing"

func TestExamples_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}

	// basic first: shapes depends on it.
	for _, name := range []string{"basic", "shapes", "generic"} {
		t.Run(name, func(t *testing.T) {
			runExampleIntegrationTest(t, name)
		})
	}
}
