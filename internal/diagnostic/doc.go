// Package diagnostic provides structured generation-time errors and warnings
// for animate-generator.
//
// Any error diagnostic aborts the generation pass for the whole run: there is
// no partial output.
package diagnostic
