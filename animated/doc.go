// Package animated is the runtime support for code emitted by
// animate-generator.
//
// Generated implementations combine two values of the same type field by
// field under a Procedure. The operation either succeeds with a new value or
// fails with ErrIncompatible; there is no other failure payload.
package animated
