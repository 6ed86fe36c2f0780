package common

import (
	"go/token"
	"go/types"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// LowerFirst lowercases the leading capitals of s, keeping initialisms readable:
// "ID" becomes "id", "URLPath" becomes "urlPath".
func LowerFirst(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	if upper == 0 {
		return s
	}

	// In "URLPath" the last capital starts the next word.
	if upper > 1 && upper < len(runes) {
		upper--
	}

	for i := range upper {
		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}

// IsReserved reports whether name cannot be used as a local identifier
// without shadowing something generated code relies on.
func IsReserved(name string) bool {
	if token.IsKeyword(name) {
		return true
	}

	return types.Universe.Lookup(name) != nil
}

// Namer hands out unique local identifiers.
type Namer struct {
	used map[string]struct{}
}

// NewNamer creates a Namer with the given names already taken.
func NewNamer(taken ...string) *Namer {
	n := &Namer{used: make(map[string]struct{}, len(taken))}
	for _, name := range taken {
		n.used[name] = struct{}{}
	}

	return n
}

// Name returns base if it is free, otherwise base followed by the smallest
// numeric suffix that is free. The result is marked as taken.
func (n *Namer) Name(base string) string {
	if base == "" || base == "_" {
		base = "v"
	}

	if r, _ := utf8.DecodeRuneInString(base); !unicode.IsLetter(r) && r != '_' {
		base = "v" + base
	}

	candidate := base
	if _, taken := n.used[candidate]; !taken && !IsReserved(candidate) {
		n.used[candidate] = struct{}{}
		return candidate
	}

	for i := 1; ; i++ {
		candidate = base + strconv.Itoa(i)
		if _, taken := n.used[candidate]; !taken {
			n.used[candidate] = struct{}{}
			return candidate
		}
	}
}
