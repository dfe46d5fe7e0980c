package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// Primary expression parsing: literals, parameters, column refs, function
// calls, CASE, EXISTS, and parenthesised expressions/subqueries.
//
// Grammar:
//
//	primary    → literal | param | column_ref | func_call | case_expr
//	           | exists_expr | paren_expr
//	literal    → NUMBER | STRING | TRUE | FALSE | NULL
//	param      → "$" digit+
//	column_ref → [identifier "."] identifier
//	func_call  → identifier "(" ( [DISTINCT] (expr_list | "*") )? ")"
//	case_expr  → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	exists_expr→ [NOT] EXISTS "(" select ")"
//	paren_expr → "(" (expr | select) ")"

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Type {
	case token.NUMBER:
		lit := &ast.Literal{Kind: ast.LiteralNumber, Text: p.tok.Literal}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &ast.Literal{Kind: ast.LiteralString, Text: p.tok.Literal}
		p.nextToken()
		return lit

	case token.TRUE:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralBool, Text: "true"}

	case token.FALSE:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralBool, Text: "false"}

	case token.NULL:
		p.nextToken()
		return &ast.Literal{Kind: ast.LiteralNull, Text: "null"}

	case token.PARAM:
		return p.parseParameter()

	case token.CASE:
		return p.parseCaseExpr()

	case token.NOT:
		if p.checkPeek(token.EXISTS) {
			p.nextToken() // consume NOT
			return p.parseExistsExpr(true)
		}
		p.addError(fmt.Sprintf(errUnexpectedToken, p.peek, token.EXISTS))
		p.nextToken()
		return nil

	case token.EXISTS:
		return p.parseExistsExpr(false)

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.STAR:
		p.nextToken()
		return &ast.StarExpr{}

	case token.LPAREN:
		return p.parseParenExpr()

	default:
		p.addError(fmt.Sprintf("unexpected token in expression: %s", p.tok))
		p.nextToken()
		return nil
	}
}

// parseParameter parses a `$n` positional placeholder, already
// 1-based, verbatim from the preprocessed source.
func (p *Parser) parseParameter() ast.Expr {
	lit := p.tok.Literal
	var idx int
	if _, err := fmt.Sscanf(lit, "$%d", &idx); err != nil {
		p.addError(fmt.Sprintf("malformed parameter %q", lit))
	}
	p.nextToken()
	return &ast.Parameter{Index: idx}
}

// parseIdentifierExpr disambiguates a bare identifier into a function
// call, a qualified column reference, or a simple column reference.
func (p *Parser) parseIdentifierExpr() ast.Expr {
	name := p.tok.Literal
	p.nextToken()

	if p.check(token.LPAREN) {
		return p.parseFuncCall(name)
	}
	if p.check(token.DOT) {
		return p.parseQualifiedColumnRef(name)
	}
	return &ast.ColumnRef{Name: name}
}

// parseQualifiedColumnRef parses `table.column` (table.* is recognized
// earlier, in parseSelectItem, since it is only valid in a select list).
func (p *Parser) parseQualifiedColumnRef(table string) ast.Expr {
	p.nextToken() // consume "."
	column := p.parseIdent()
	return &ast.TableColumnRef{Table: table, Column: column}
}

// parseFuncCall parses `name "(" [DISTINCT] (expr_list | "*")? ")"`.
func (p *Parser) parseFuncCall(name string) ast.Expr {
	fn := &ast.FuncCall{Name: name}
	p.expect(token.LPAREN)

	switch {
	case p.match(token.STAR):
		fn.Star = true
	case !p.check(token.RPAREN):
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	return fn
}

// parseCaseExpr parses simple and searched CASE expressions.
func (p *Parser) parseCaseExpr() ast.Expr {
	p.nextToken() // consume CASE
	c := &ast.CaseExpr{}

	if !p.check(token.WHEN) {
		c.Operand = p.parseExpression()
	}

	for p.match(token.WHEN) {
		when := p.parseExpression()
		p.expect(token.THEN)
		then := p.parseExpression()
		c.Whens = append(c.Whens, ast.CaseWhen{When: when, Then: then})
	}
	if len(c.Whens) == 0 {
		p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.WHEN))
	}

	if p.match(token.ELSE) {
		c.Else = p.parseExpression()
	}
	p.expect(token.END)
	return c
}

// parseExistsExpr parses `[NOT] EXISTS ( select )`.
func (p *Parser) parseExistsExpr(not bool) ast.Expr {
	p.nextToken() // consume EXISTS
	p.expect(token.LPAREN)
	sel := p.parseSelect()
	p.expect(token.RPAREN)
	return &ast.ExistsExpr{Not: not, Select: sel}
}

// parseParenExpr parses `( expr )` or `( select )`, the latter being a
// scalar subquery.
func (p *Parser) parseParenExpr() ast.Expr {
	p.nextToken() // consume "("
	if p.check(token.SELECT) || p.check(token.WITH) {
		sel := p.parseSelect()
		p.expect(token.RPAREN)
		return &ast.SubqueryExpr{Select: sel}
	}
	inner := p.parseExpression()
	p.expect(token.RPAREN)
	return &ast.ParenExpr{Inner: inner}
}
