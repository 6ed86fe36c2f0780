// Package gen renders animate plans into Go source.
//
// Generation uses text/template + go/format, one file per package. Emitted
// shapes:
//   - non-generic structs and named types get an Animate method
//   - generic structs get an Animate<Name> function carrying the resolved
//     type-parameter constraints
//   - sealed interfaces get an Animate<Name> function built on a type switch
//
// GenFS holds the rendered tree so it can either be written to disk or
// verified against what is already there.
package gen
