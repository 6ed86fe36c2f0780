// Package plan is the synthesis engine of animate-generator: it turns a
// TypeDefinition into an AnimatePlan consumed by code generation.
//
// Pipeline:
//  1. Analyze packages → type graph of derive targets
//  2. For each definition, walk its variants:
//     - error variants produce no arm and force a catch-all
//     - more than one variant forces a catch-all
//     - every live variant yields one arm: a binding per field pairing the
//     this/other projections with the result local, plus one statement
//     per field (equality check or delegated interpolation)
//  3. Bounds discovered while visiting fields accumulate in one BoundSet per
//     definition
//  4. The Resolver turns every BoundSet of the run into type-parameter
//     constraints and compile-time assertions
package plan
