package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// Expression precedence, tightest to loosest (see package doc for the
// grammar this implements). Higher numeric value binds tighter; the
// precedence-climbing loop in parseExpressionWithPrecedence consumes an
// infix operator only while its precedence is >= the caller's minimum.
const (
	precNone           = iota
	precOr             // level 13: OR
	precAnd            // level 12: AND
	precNot            // level 11: prefix NOT
	precIsPostfix      // level 10: IS [NOT] ..., ISNULL, NOTNULL
	precComparison     // level 9:  < > = <= >= <>
	precOther          // level 8:  ||, LIKE, ILIKE, BETWEEN, IN, EXISTS
	precAdditive       // level 7:  + -
	precMultiplicative // level 6:  * / %
	precExponent       // level 5:  ^
	// Levels 4 (unary +/-), 3 (subscript), and 2 (::) bind tighter than
	// any infix operator above and are handled directly by recursive
	// descent in parseUnary/parsePostfix rather than through the
	// precedence-climbing loop.
)

// parseExpression parses a full expression at the lowest precedence.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec, rightAssoc := p.infixPrecedence()
		if prec < minPrec {
			break
		}
		next := p.parseInfix(left, prec, rightAssoc)
		if next == nil {
			break
		}
		left = next
	}
	return left
}

// parseUnary handles level-11 prefix NOT and level-4 prefix +/-, then
// falls through to the postfix layer (::, subscript) over a primary.
//
// NOT's operand is parsed by climbing from precNot so it absorbs every
// tighter-binding operator (IS, comparison, ||/LIKE/IN/BETWEEN,
// +-, */%, ^) but stops before AND/OR, matching "NOT a = b" meaning
// "NOT (a = b)" rather than "(NOT a) = b".
//
// Unary +/- recurse into parseUnary directly rather than climbing, so
// they bind tighter than ^ (level 4 binds tighter than level 5): for
// "-2^2" the operand parse stops at the bare primary "2", and the
// caller's climbing loop then applies "^" over the whole "-2".
func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Type {
	case token.NOT:
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precNot)
		return &ast.UnaryOp{Op: token.NOT, Operand: operand}
	case token.MINUS, token.PLUS:
		op := p.tok.Type
		p.nextToken()
		operand := p.parseUnary()
		return &ast.UnaryOp{Op: op, Operand: operand}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix applies level-2 `::` casts and level-3 `[i]` subscripts,
// both of which chain and bind tighter than any infix operator.
func (p *Parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.match(token.COLONCOLON):
			expr = &ast.CastExpr{Operand: expr, TypeName: p.parseTypeName()}
		case p.match(token.LBRACKET):
			idx := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.SubscriptExpr{Operand: expr, Index: idx}
		default:
			return expr
		}
	}
}

// parseTypeName parses a (possibly schema-qualified, possibly array)
// PostgreSQL type name following `::`.
func (p *Parser) parseTypeName() string {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(errUnexpectedToken, p.tok, token.IDENT))
		return ""
	}
	name := p.tok.Literal
	p.nextToken()
	for p.match(token.DOT) {
		name = name + "." + p.parseIdent()
	}
	for p.match(token.LBRACKET) {
		p.expect(token.RBRACKET)
		name += "[]"
	}
	return name
}

// infixPrecedence returns the precedence of the current token as an
// infix/postfix operator, and whether it is right-associative. A
// precedence of precNone means the current token does not continue an
// expression.
func (p *Parser) infixPrecedence() (prec int, rightAssoc bool) {
	switch p.tok.Type {
	case token.OR:
		return precOr, false
	case token.AND:
		return precAnd, false
	case token.IS, token.ISNULL, token.NOTNULL:
		return precIsPostfix, false
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precComparison, false
	case token.DPIPE, token.LIKE, token.ILIKE, token.IN:
		return precOther, false
	case token.BETWEEN:
		return precOther, false
	case token.NOT:
		// Only valid here as the start of NOT IN / NOT BETWEEN / NOT LIKE.
		if p.checkPeek(token.IN) || p.checkPeek(token.BETWEEN) || p.checkPeek(token.LIKE) || p.checkPeek(token.ILIKE) {
			return precOther, false
		}
		return precNone, false
	case token.PLUS, token.MINUS:
		return precAdditive, false
	case token.STAR, token.SLASH, token.PERCENT:
		return precMultiplicative, false
	case token.CARET:
		return precExponent, false
	default:
		return precNone, false
	}
}

// parseInfix consumes the current infix/postfix operator and builds the
// resulting expression node around left.
func (p *Parser) parseInfix(left ast.Expr, prec int, _ bool) ast.Expr {
	switch p.tok.Type {
	case token.IS:
		return p.parseIsExpr(left)
	case token.ISNULL:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Check: ast.IsNull}
	case token.NOTNULL:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Not: true, Check: ast.IsNull}
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, false)
	case token.BETWEEN:
		p.nextToken()
		return p.parseBetweenExpr(left, false)
	case token.LIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false, false)
	case token.ILIKE:
		p.nextToken()
		return p.parseLikeExpr(left, false, true)
	case token.NOT:
		p.nextToken() // consume NOT
		switch p.tok.Type {
		case token.IN:
			p.nextToken()
			return p.parseInExpr(left, true)
		case token.BETWEEN:
			p.nextToken()
			return p.parseBetweenExpr(left, true)
		case token.LIKE:
			p.nextToken()
			return p.parseLikeExpr(left, true, false)
		case token.ILIKE:
			p.nextToken()
			return p.parseLikeExpr(left, true, true)
		default:
			p.addError("expected IN, BETWEEN, LIKE, or ILIKE after NOT")
			return left
		}
	default:
		op := p.tok.Type
		p.nextToken()
		right := p.parseExpressionWithPrecedence(prec + 1)
		return &ast.BinaryOp{Left: left, Op: op, Right: right}
	}
}

// parseIsExpr parses `IS [NOT] {NULL,TRUE,FALSE,UNKNOWN}`.
func (p *Parser) parseIsExpr(left ast.Expr) ast.Expr {
	p.nextToken() // consume IS
	not := p.match(token.NOT)

	switch p.tok.Type {
	case token.NULL:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Not: not, Check: ast.IsNull}
	case token.TRUE:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Not: not, Check: ast.IsTrue}
	case token.FALSE:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Not: not, Check: ast.IsFalse}
	case token.UNKNOWN:
		p.nextToken()
		return &ast.IsExpr{Operand: left, Not: not, Check: ast.IsUnknown}
	default:
		p.addError("expected NULL, TRUE, FALSE, or UNKNOWN after IS [NOT]")
		return left
	}
}

// parseInExpr parses `(value, ...)` or `(subquery)` following [NOT] IN.
func (p *Parser) parseInExpr(left ast.Expr, not bool) ast.Expr {
	p.expect(token.LPAREN)
	in := &ast.InExpr{Operand: left, Not: not}
	if p.check(token.SELECT) || p.check(token.WITH) {
		in.Subquery = p.parseSelect()
	} else {
		in.Values = p.parseExpressionList()
	}
	p.expect(token.RPAREN)
	return in
}

// parseBetweenExpr parses `low AND high` following [NOT] BETWEEN. Both
// bounds parse at additive precedence so the AND here is never mistaken
// for the logical connective.
func (p *Parser) parseBetweenExpr(left ast.Expr, not bool) ast.Expr {
	b := &ast.BetweenExpr{Operand: left, Not: not}
	b.Low = p.parseExpressionWithPrecedence(precAdditive)
	p.expect(token.AND)
	b.High = p.parseExpressionWithPrecedence(precAdditive)
	return b
}

// parseLikeExpr parses the pattern following [NOT] LIKE/ILIKE.
func (p *Parser) parseLikeExpr(left ast.Expr, not, ilike bool) ast.Expr {
	pattern := p.parseExpressionWithPrecedence(precAdditive)
	return &ast.LikeExpr{Operand: left, Not: not, ILike: ilike, Pattern: pattern}
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []ast.Expr {
	var exprs []ast.Expr
	for {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}
