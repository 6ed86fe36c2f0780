package gen

import (
	"os"
	"path/filepath"
)

// unformattedSuffix names the sidecar holding source that gofmt rejected.
// It does not end in .go so the broken code never joins the package build.
const unformattedSuffix = ".unformatted"

// unformattedPath returns where the sidecar of filename in dir is written.
func unformattedPath(dir, filename string) string {
	return filepath.Join(dir, filename+unformattedSuffix)
}

// writeDebugUnformatted saves unformatted code next to the intended output
// so a template bug can be inspected. Failing to write it is not fatal.
func writeDebugUnformatted(dir, filename string, content []byte) error {
	if dir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	return os.WriteFile(unformattedPath(dir, filename), content, filePerm)
}
