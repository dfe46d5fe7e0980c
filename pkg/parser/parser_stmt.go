package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// Statement-level parsing: WITH clause, CTEs, SELECT body, SELECT list,
// ORDER BY, LIMIT/OFFSET.
//
// Grammar:
//
//	statement    → select | insert | update | delete
//	select       → [with] select_body [order_by] [limit]
//	with         → WITH cte ("," cte)*
//	cte          → identifier ["(" ident_list ")"] AS "(" statement ")"
//	select_body  → select_core ((UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body)?
//	select_core  → SELECT [DISTINCT] select_list [FROM from_clause]
//	               [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	select_list  → select_item ("," select_item)*
//	select_item  → "*" | identifier "." "*" | expr [[AS] alias]
//	order_by     → ORDER BY order_item ("," order_item)*
//	order_item   → expr [ASC|DESC|USING operator] [NULLS (FIRST|LAST)]
//	limit        → LIMIT (expr|ALL) [OFFSET expr] | OFFSET expr [LIMIT (expr|ALL)]

// parseStatement dispatches to the statement parser for the current
// leading keyword.
func (p *Parser) parseStatement() ast.Statement {
	start := p.tok.Pos

	var with *ast.With
	if p.check(token.WITH) {
		with = p.parseWithClause()
	}

	switch p.tok.Type {
	case token.SELECT:
		return p.finishSelect(start, with)
	case token.INSERT:
		return p.parseInsert(start, with)
	case token.UPDATE:
		return p.parseUpdate(start, with)
	case token.DELETE:
		return p.parseDelete(start, with)
	default:
		p.addError(fmt.Sprintf(errUnsupported, p.tok))
		return nil
	}
}

// parseSelect parses a SELECT statement, used both at the top level and
// wherever a subquery is expected (derived tables, IN/EXISTS, scalar
// subqueries).
func (p *Parser) parseSelect() *ast.Select {
	start := p.tok.Pos
	var with *ast.With
	if p.check(token.WITH) {
		with = p.parseWithClause()
	}
	return p.finishSelect(start, with)
}

func (p *Parser) finishSelect(start token.Position, with *ast.With) *ast.Select {
	body := p.parseSelectBody()

	var orderBy []ast.OrderByItem
	if p.match(token.ORDER) {
		p.expect(token.BY)
		orderBy = p.parseOrderByList()
	}
	limit := p.parseLimitClause()

	sel := ast.NewSelect(p.span(start))
	sel.With = with
	sel.Body = body
	sel.OrderBy = orderBy
	sel.Limit = limit
	return sel
}

// parseWithClause parses `WITH cte ("," cte)*`. Recursive CTEs are not
// part of this grammar.
func (p *Parser) parseWithClause() *ast.With {
	p.expect(token.WITH)
	with := &ast.With{}
	for {
		with.Queries = append(with.Queries, p.parseCTE())
		if !p.match(token.COMMA) {
			break
		}
	}
	return with
}

// parseCTE parses `name [( col, ... )] AS ( statement )`.
func (p *Parser) parseCTE() ast.WithQuery {
	cte := ast.WithQuery{Name: p.parseIdent()}

	if p.match(token.LPAREN) {
		for {
			cte.Columns = append(cte.Columns, p.parseIdent())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	p.expect(token.AS)
	p.expect(token.LPAREN)
	cte.Statement = p.parseStatement()
	p.expect(token.RPAREN)
	return cte
}

// parseSelectBody parses a select_core, optionally chained with set
// operations.
func (p *Parser) parseSelectBody() *ast.SelectBody {
	body := &ast.SelectBody{Left: p.parseSelectCore()}

	var op ast.SetOp
	switch p.tok.Type {
	case token.UNION:
		op = ast.SetOpUnion
	case token.INTERSECT:
		op = ast.SetOpIntersect
	case token.EXCEPT:
		op = ast.SetOpExcept
	default:
		return body
	}
	p.nextToken()

	body.Op = op
	if p.match(token.ALL) {
		body.All = true
	} else {
		p.match(token.DISTINCT)
	}
	body.Right = p.parseSelectBody()
	return body
}

// parseSelectCore parses one `SELECT ... FROM ... WHERE ... GROUP BY ...
// HAVING ...` block.
func (p *Parser) parseSelectCore() *ast.SelectCore {
	p.expect(token.SELECT)
	core := &ast.SelectCore{}

	if p.match(token.DISTINCT) {
		core.Distinct = true
	} else {
		p.match(token.ALL)
	}

	core.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		core.From = p.parseFromClause()
	}
	if p.match(token.WHERE) {
		core.Where = p.parseExpression()
	}
	if p.match(token.GROUP) {
		p.expect(token.BY)
		core.GroupBy = p.parseExpressionList()
	}
	if p.match(token.HAVING) {
		core.Having = p.parseExpression()
	}

	return core
}

// parseSelectList parses `select_item ("," select_item)*`.
func (p *Parser) parseSelectList() []ast.SelectItem {
	var items []ast.SelectItem
	for {
		items = append(items, p.parseSelectItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseSelectItem parses one select-list entry: a bare star, a
// table-qualified star, or an expression with an optional alias.
func (p *Parser) parseSelectItem() ast.SelectItem {
	if p.check(token.STAR) {
		p.nextToken()
		return ast.SelectItem{Star: true}
	}
	if p.check(token.IDENT) && p.checkPeek(token.DOT) && p.peek2.Type == token.STAR {
		table := p.tok.Literal
		p.nextToken() // ident
		p.nextToken() // dot
		p.nextToken() // star
		return ast.SelectItem{TableStar: table}
	}

	item := ast.SelectItem{Expr: p.parseExpression()}
	item.Alias = p.parseOptionalAlias()
	return item
}

// parseOrderByList parses `order_item ("," order_item)*`.
func (p *Parser) parseOrderByList() []ast.OrderByItem {
	var items []ast.OrderByItem
	for {
		items = append(items, p.parseOrderByItem())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// orderByOperators are the operator tokens recognized after USING in
// `ORDER BY expr USING operator`.
var orderByOperators = map[token.TokenType]bool{
	token.LT: true, token.GT: true, token.LE: true, token.GE: true,
	token.EQ: true, token.NE: true,
}

// parseOrderByItem parses `expr [ASC|DESC|USING operator] [NULLS (FIRST|LAST)]`.
func (p *Parser) parseOrderByItem() ast.OrderByItem {
	item := ast.OrderByItem{Expr: p.parseExpression()}

	switch {
	case p.match(token.ASC):
	case p.match(token.DESC):
		item.Desc = true
	case p.match(token.USING):
		if !orderByOperators[p.tok.Type] {
			p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.LT))
			break
		}
		item.UsingOp = p.tok.Literal
		p.nextToken()
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			first := true
			item.NullsFirst = &first
		case p.match(token.LAST):
			last := false
			item.NullsFirst = &last
		default:
			p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.FIRST))
		}
	}
	return item
}

// parseLimitClause parses `[LIMIT (expr|ALL)] [OFFSET expr]`, accepting
// either order.
func (p *Parser) parseLimitClause() *ast.Limit {
	var limit ast.Limit
	seenLimit, seenOffset := false, false

	for {
		switch {
		case !seenLimit && p.match(token.LIMIT):
			seenLimit = true
			if !p.match(token.ALL) {
				limit.Count = p.parseExpression()
			}
		case !seenOffset && p.match(token.OFFSET):
			seenOffset = true
			limit.Offset = p.parseExpression()
		default:
			if seenLimit || seenOffset {
				return &limit
			}
			return nil
		}
	}
}
