package analyzer

import "fmt"

// PreprocessorError wraps a malformed ${...} placeholder.
type PreprocessorError struct {
	Offset  int
	Message string
}

func (e *PreprocessorError) Error() string {
	return fmt.Sprintf("preprocessor error at offset %d: %s", e.Offset, e.Message)
}

// ParseError is the first unrecoverable parse failure, located in the
// source.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// ProbeError is PostgreSQL refusing to prepare the rewritten statement.
type ProbeError struct {
	SQL     string
	Message string
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed: %s", e.Message)
}

// CatalogError is a failed or incomplete catalog load.
type CatalogError struct {
	Message string
}

func (e *CatalogError) Error() string { return fmt.Sprintf("catalog error: %s", e.Message) }

// InferenceError marks an internal invariant violation during inference —
// always a bug, since by this point the probe has already accepted the
// statement against the real schema.
type InferenceError struct {
	Message string
}

func (e *InferenceError) Error() string { return fmt.Sprintf("inference error: %s", e.Message) }

// UserSchemaErrorKind discriminates the specific usability rule violated.
type UserSchemaErrorKind string

// UserSchemaError kinds.
const (
	DuplicateColumnName UserSchemaErrorKind = "duplicate_column_name"
	// AmbiguousParameterType names the case where one parameter name
	// resolves to more than one server type. The preprocessor collapses
	// every occurrence of a given ${name} to a single $k (see
	// preprocess.Run), so PostgreSQL itself assigns $k exactly one type
	// at PREPARE time — a real conflict across occurrences surfaces as a
	// ProbeError before assembly ever runs. The kind is kept in the
	// taxonomy per the error model (see DESIGN.md) rather than deleted,
	// in case a future preprocessing mode stops collapsing by name.
	AmbiguousParameterType UserSchemaErrorKind = "ambiguous_parameter_type"
	NullableParameter      UserSchemaErrorKind = "nullable_parameter"
)

// UserSchemaError is a query that violates one of sqltyper's usability
// rules rather than PostgreSQL's own rules.
type UserSchemaError struct {
	Kind    UserSchemaErrorKind
	Message string
}

func (e *UserSchemaError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }
