package analyzer

import "github.com/leapstack-labs/sqltyper/pkg/ast"

// findNullableParameterPosition walks stmt for a parameter used directly as
// the operand of an IS NULL/IS NOT NULL check (e.g. "$1 IS NULL") — the
// shape named in the open question of §9. sqltyper's parameters are always
// treated as required, so asking whether one is NULL is the one place that
// policy is directly, syntactically visible in the query; the spec rejects
// it rather than silently reporting a constant-false/true result.
//
// The search covers the select list, WHERE, GROUP BY and HAVING of each
// set-operation branch, INSERT VALUES rows, UPDATE SET values, WHERE
// clauses and RETURNING lists. WITH queries, join conditions, derived
// tables, UPDATE ... FROM, ORDER BY/LIMIT and subqueries inside
// expressions are not searched.
func findNullableParameterPosition(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.Select:
		return selectHasNullableParamCheck(s)
	case *ast.Insert:
		return exprListHasNullableParamCheck(exprsOf(s.Rows)) || itemsHaveNullableParamCheck(s.Returning)
	case *ast.Update:
		for _, a := range s.Assignments {
			if exprHasNullableParamCheck(a.Value) {
				return true
			}
		}
		return exprHasNullableParamCheck(s.Where) || itemsHaveNullableParamCheck(s.Returning)
	case *ast.Delete:
		return exprHasNullableParamCheck(s.Where) || itemsHaveNullableParamCheck(s.Returning)
	default:
		return false
	}
}

func exprsOf(rows [][]ast.Expr) []ast.Expr {
	var out []ast.Expr
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

func exprListHasNullableParamCheck(exprs []ast.Expr) bool {
	for _, e := range exprs {
		if exprHasNullableParamCheck(e) {
			return true
		}
	}
	return false
}

func itemsHaveNullableParamCheck(items []ast.SelectItem) bool {
	for _, it := range items {
		if exprHasNullableParamCheck(it.Expr) {
			return true
		}
	}
	return false
}

func selectHasNullableParamCheck(sel *ast.Select) bool {
	return bodyHasNullableParamCheck(sel.Body)
}

func bodyHasNullableParamCheck(body *ast.SelectBody) bool {
	if body == nil {
		return false
	}
	if coreHasNullableParamCheck(body.Left) {
		return true
	}
	return bodyHasNullableParamCheck(body.Right)
}

func coreHasNullableParamCheck(core *ast.SelectCore) bool {
	if core == nil {
		return false
	}
	if itemsHaveNullableParamCheck(core.Columns) {
		return true
	}
	if exprHasNullableParamCheck(core.Where) || exprHasNullableParamCheck(core.Having) {
		return true
	}
	return exprListHasNullableParamCheck(core.GroupBy)
}

// exprHasNullableParamCheck reports whether e contains, anywhere in its
// expression subtree, an IsExpr{Check: IsNull} whose direct operand is a
// Parameter. Scalar, IN and EXISTS subqueries are not descended into.
func exprHasNullableParamCheck(e ast.Expr) bool {
	switch x := e.(type) {
	case nil:
		return false
	case *ast.IsExpr:
		if x.Check == ast.IsNull {
			if _, ok := x.Operand.(*ast.Parameter); ok {
				return true
			}
		}
		return exprHasNullableParamCheck(x.Operand)
	case *ast.UnaryOp:
		return exprHasNullableParamCheck(x.Operand)
	case *ast.BinaryOp:
		return exprHasNullableParamCheck(x.Left) || exprHasNullableParamCheck(x.Right)
	case *ast.InExpr:
		return exprHasNullableParamCheck(x.Operand) || exprListHasNullableParamCheck(x.Values)
	case *ast.BetweenExpr:
		return exprHasNullableParamCheck(x.Operand) || exprHasNullableParamCheck(x.Low) || exprHasNullableParamCheck(x.High)
	case *ast.LikeExpr:
		return exprHasNullableParamCheck(x.Operand) || exprHasNullableParamCheck(x.Pattern)
	case *ast.CastExpr:
		return exprHasNullableParamCheck(x.Operand)
	case *ast.SubscriptExpr:
		return exprHasNullableParamCheck(x.Operand)
	case *ast.ParenExpr:
		return exprHasNullableParamCheck(x.Inner)
	case *ast.FuncCall:
		return exprListHasNullableParamCheck(x.Args)
	case *ast.CaseExpr:
		if exprHasNullableParamCheck(x.Operand) || exprHasNullableParamCheck(x.Else) {
			return true
		}
		for _, w := range x.Whens {
			if exprHasNullableParamCheck(w.When) || exprHasNullableParamCheck(w.Then) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
