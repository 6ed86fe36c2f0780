// Package match finds the closest known name to a misspelled one, for the
// "did you mean" hints of attribute, directive and config diagnostics.
//
// Key functions:
//   - NormalizeIdent: folds an identifier for fuzzy comparison
//   - Levenshtein: computes the edit distance between two strings
//   - Rank: scores a set of known names against an unknown one
//   - Suggest: returns the single best close match, if any
package match
