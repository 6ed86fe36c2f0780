package common

import (
	"path"
	"strings"
)

// PkgAlias returns the default package name for a package path: its last
// element, skipping a trailing major version element such as "v2".
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}

	return strings.NewReplacer("-", "_", ".", "_").Replace(base)
}

func isMajorVersion(elem string) bool {
	rest, ok := strings.CutPrefix(elem, "v")
	if !ok || rest == "" {
		return false
	}

	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
