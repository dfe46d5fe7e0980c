package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// Error is the first unrecoverable parse failure, located by position in
// the preprocessed source. The parser does not attempt error recovery —
// the first failing alternative aborts analysis.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Offset exposes the byte offset for callers that only want location, not
// full Position detail (matches the offset-only shape external callers
// expect from a parse failure).
func (e *Error) Offset() int {
	return e.Pos.Offset
}

// Common diagnostic message formats, centralized so phrasing stays
// consistent across the parser's call sites.
const (
	errUnexpectedToken = "unexpected token %s, expected %s"
	errReserved        = "%q is a reserved word and cannot be used as an identifier here"
	errTrailingInput   = "unexpected input after statement: %s"
	errUnsupported     = "%s is not supported"
)
