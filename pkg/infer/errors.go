package infer

import "errors"

// ErrUnknownTable marks a FROM/JOIN reference inference could not resolve
// against the catalog or the current CTE set. The analyzer wraps this as a
// bug-grade InferenceError: by the time inference runs, the probe has
// already accepted the statement, so an unresolved table name here means
// the parser and the catalog disagree about the schema.
var ErrUnknownTable = errors.New("infer: unknown table")
