// Package parser implements a recursive-descent / precedence-climbing
// parser for the PostgreSQL DML subset sqltyper analyzes: SELECT (with
// WITH and set operations), INSERT, UPDATE, and DELETE.
//
// The grammar intentionally omits window functions, lateral joins,
// recursive CTEs, DDL, procedural blocks, and comma-style implicit joins.
// The first unrecoverable token mismatch aborts parsing with a located
// Error; there is no error-recovery pass.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/lexer"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// Parser holds lexer state plus a 3-token lookahead window.
type Parser struct {
	lexer *lexer.Lexer
	tok   token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token

	startPos token.Position
	errors   []error
}

// New creates a Parser over sql, already positioned at the first token.
func New(sql string) *Parser {
	p := &Parser{lexer: lexer.New(sql)}
	p.nextToken()
	p.nextToken()
	p.nextToken()
	p.startPos = p.tok.Pos
	return p
}

// Parse parses a single statement and requires the entire input be
// consumed. It returns the first parse error encountered, if any.
func Parse(sql string) (ast.Statement, error) {
	p := New(sql)
	stmt := p.parseStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(errTrailingInput, p.tok.Literal))
		return nil, p.errors[0]
	}
	return stmt, nil
}

// ---------- token helpers ----------

func (p *Parser) nextToken() {
	p.tok = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

func (p *Parser) check(t token.TokenType) bool     { return p.tok.Type == t }
func (p *Parser) checkPeek(t token.TokenType) bool { return p.peek.Type == t }

func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches t, otherwise records a
// located error and returns false, leaving the parser positioned on the
// offending token.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, t))
	return false
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &Error{Pos: p.tok.Pos, Message: msg})
}

func (p *Parser) failed() bool { return len(p.errors) > 0 }

// span returns the [start, p.tok.Pos) span, used for the single top-level
// statement span the AST carries.
func (p *Parser) span(start token.Position) token.Span {
	return token.Span{Start: start, End: p.tok.Pos}
}

// parseIdent consumes an identifier token (IDENT only — unquoted
// reserved words are never identifiers in this grammar since the lexer
// classifies them as keyword tokens, and quoted identifiers always lex as
// IDENT regardless of spelling).
func (p *Parser) parseIdent() string {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.IDENT))
		return ""
	}
	name := p.tok.Literal
	p.nextToken()
	return name
}

// parseQualifiedName parses `name` or `schema.name`.
func (p *Parser) parseQualifiedName() (schema, name string) {
	first := p.parseIdent()
	if p.match(token.DOT) {
		return first, p.parseIdent()
	}
	return "", first
}

// parseOptionalAlias parses an optional `[AS] alias`. Every SQL keyword
// this grammar understands (JOIN, WHERE, GROUP, ...) lexes as its own
// reserved token rather than IDENT, so a bare IDENT immediately following
// a table or select-list expression is unambiguously an alias.
func (p *Parser) parseOptionalAlias() string {
	if p.match(token.AS) {
		return p.parseIdent()
	}
	if p.check(token.IDENT) {
		name := p.tok.Literal
		p.nextToken()
		return name
	}
	return ""
}
