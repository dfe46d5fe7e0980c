package parser

import (
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// INSERT / UPDATE / DELETE parsing.
//
// Grammar:
//
//	insert    → INSERT INTO table ["(" ident_list ")"]
//	            (DEFAULT VALUES | VALUES row ("," row)*)
//	            [RETURNING select_list]
//	row       → "(" expr_list ")"
//	update    → UPDATE table SET assignment ("," assignment)*
//	            [FROM from_clause] [WHERE expr] [RETURNING select_list]
//	assignment→ ident "=" expr
//	delete    → DELETE FROM table [WHERE expr] [RETURNING select_list]

// parseInsert parses an INSERT statement; start and with are carried in
// from parseStatement, which already consumed any leading WITH clause.
func (p *Parser) parseInsert(start token.Position, with *ast.With) ast.Statement {
	p.expect(token.INSERT)
	p.expect(token.INTO)

	ins := ast.NewInsert(token.Span{})
	ins.With = with
	ins.Table = p.parseTableName()

	if p.match(token.LPAREN) {
		for {
			ins.Columns = append(ins.Columns, p.parseIdent())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	switch {
	case p.match(token.DEFAULT):
		p.expect(token.VALUES)
		ins.Default = true
	case p.match(token.VALUES):
		for {
			ins.Rows = append(ins.Rows, p.parseValuesRow())
			if !p.match(token.COMMA) {
				break
			}
		}
	default:
		p.addError("expected DEFAULT VALUES or VALUES")
	}

	if p.match(token.RETURNING) {
		ins.Returning = p.parseSelectList()
	}

	ins.SetSpan(p.span(start))
	return ins
}

func (p *Parser) parseValuesRow() []ast.Expr {
	p.expect(token.LPAREN)
	row := p.parseExpressionList()
	p.expect(token.RPAREN)
	return row
}

// parseUpdate parses an UPDATE statement.
func (p *Parser) parseUpdate(start token.Position, with *ast.With) ast.Statement {
	p.expect(token.UPDATE)

	upd := ast.NewUpdate(token.Span{})
	upd.With = with
	upd.Table = p.parseTableName()

	p.expect(token.SET)
	for {
		col := p.parseIdent()
		p.expect(token.EQ)
		upd.Assignments = append(upd.Assignments, ast.Assignment{Column: col, Value: p.parseExpression()})
		if !p.match(token.COMMA) {
			break
		}
	}

	if p.match(token.FROM) {
		upd.From = p.parseFromClause()
	}
	if p.match(token.WHERE) {
		upd.Where = p.parseExpression()
	}
	if p.match(token.RETURNING) {
		upd.Returning = p.parseSelectList()
	}

	upd.SetSpan(p.span(start))
	return upd
}

// parseDelete parses a DELETE statement.
func (p *Parser) parseDelete(start token.Position, with *ast.With) ast.Statement {
	p.expect(token.DELETE)
	p.expect(token.FROM)

	del := ast.NewDelete(token.Span{})
	del.With = with
	del.Table = p.parseTableName()

	if p.match(token.WHERE) {
		del.Where = p.parseExpression()
	}
	if p.match(token.RETURNING) {
		del.Returning = p.parseSelectList()
	}

	del.SetSpan(p.span(start))
	return del
}
