package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// FROM clause parsing: table references, derived tables, and JOINs.
//
// Grammar:
//
//	from_clause → table_ref join*
//	table_ref   → table_name [[AS] alias] | "(" select ")" [AS] alias
//	join        → join_type JOIN table_ref (ON expr | USING "(" ident ("," ident)* ")")
//	join_type   → [INNER] | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER]
//
// Comma joins, NATURAL joins, and LATERAL are not part of this grammar.

// parseFromClause parses FROM table_ref join*.
func (p *Parser) parseFromClause() *ast.From {
	from := &ast.From{Source: p.parseTableRef()}
	for {
		join := p.parseJoin()
		if join == nil {
			break
		}
		from.Joins = append(from.Joins, join)
	}
	return from
}

// parseTableRef parses a single FROM-clause source: a table name or a
// parenthesised derived table.
func (p *Parser) parseTableRef() ast.TableRef {
	if p.check(token.LPAREN) {
		return p.parseDerivedTable()
	}
	return p.parseTableName()
}

// parseTableName parses `[schema.]name [[AS] alias]`.
func (p *Parser) parseTableName() *ast.TableName {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.IDENT))
		p.nextToken()
		return &ast.TableName{}
	}
	schema, name := p.parseQualifiedName()
	return &ast.TableName{Schema: schema, Name: name, Alias: p.parseOptionalAlias()}
}

// parseDerivedTable parses `( select ) [[AS] alias]`. An empty Alias is
// rejected neither here nor by scope resolution, which tags the subquery's
// columns with an empty table name.
func (p *Parser) parseDerivedTable() *ast.DerivedTable {
	p.expect(token.LPAREN)
	sel := p.parseSelect()
	p.expect(token.RPAREN)
	return &ast.DerivedTable{Select: sel, Alias: p.parseOptionalAlias()}
}

// parseJoin parses one join clause, or returns nil if the current token
// does not start one.
func (p *Parser) parseJoin() *ast.Join {
	var typ ast.JoinType

	switch p.tok.Type {
	case token.JOIN:
		typ = ast.JoinInner
	case token.INNER:
		p.nextToken()
		typ = ast.JoinInner
	case token.LEFT:
		p.nextToken()
		p.match(token.OUTER)
		typ = ast.JoinLeft
	case token.RIGHT:
		p.nextToken()
		p.match(token.OUTER)
		typ = ast.JoinRight
	case token.FULL:
		p.nextToken()
		p.match(token.OUTER)
		typ = ast.JoinFull
	default:
		return nil
	}

	if !p.expect(token.JOIN) {
		return nil
	}

	join := &ast.Join{Type: typ, Right: p.parseTableRef()}
	switch {
	case p.match(token.ON):
		join.Condition = p.parseExpression()
	case p.match(token.USING):
		join.Using = p.parseUsingColumns()
	default:
		p.addError("expected ON or USING after JOIN")
	}
	return join
}

// parseUsingColumns parses `( ident ("," ident)* )`.
func (p *Parser) parseUsingColumns() []string {
	p.expect(token.LPAREN)
	var cols []string
	for {
		cols = append(cols, p.parseIdent())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return cols
}
