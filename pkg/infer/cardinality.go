package infer

import (
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// RowCount classifies how many rows a statement can produce.
type RowCount string

// Row count kinds.
const (
	RowZero      RowCount = "zero"
	RowOne       RowCount = "one"
	RowZeroOrOne RowCount = "zeroOrOne"
	RowMany      RowCount = "many"
)

// isLiteralInt reports whether e is a bare integer literal equal to n.
func isLiteralInt(e ast.Expr, n string) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralNumber && lit.Text == n
}

// splitAnd flattens a chain of AND-connected BinaryOps into its conjuncts.
func splitAnd(e ast.Expr) []ast.Expr {
	bo, ok := e.(*ast.BinaryOp)
	if !ok || bo.Op != token.AND {
		return []ast.Expr{e}
	}
	return append(splitAnd(bo.Left), splitAnd(bo.Right)...)
}

// conjunctColumnName returns the bare column name of a conjunct of the
// shape "col = expr" (in either operand order), and whether it qualifies.
func conjunctColumnName(e ast.Expr) (string, bool) {
	bo, ok := e.(*ast.BinaryOp)
	if !ok || bo.Op != token.EQ {
		return "", false
	}
	if name, ok := bareColumnName(bo.Left); ok {
		return name, true
	}
	if name, ok := bareColumnName(bo.Right); ok {
		return name, true
	}
	return "", false
}

func bareColumnName(e ast.Expr) (string, bool) {
	switch c := e.(type) {
	case *ast.ColumnRef:
		return c.Name, true
	case *ast.TableColumnRef:
		return c.Column, true
	default:
		return "", false
	}
}

// isFullPrimaryKeyEquality reports whether where is a conjunction whose
// "col = expr" conjuncts together cover every column of tbl's primary key,
// per step 4 of §4.4.6; further conjuncts of any shape may appear alongside.
func isFullPrimaryKeyEquality(where ast.Expr, tbl catalog.Table) bool {
	if where == nil || len(tbl.PrimaryKey) == 0 {
		return false
	}
	matched := map[string]struct{}{}
	for _, conjunct := range splitAnd(where) {
		name, ok := conjunctColumnName(conjunct)
		if !ok {
			continue
		}
		matched[name] = struct{}{}
	}
	for pk := range tbl.PrimaryKey {
		if _, ok := matched[pk]; !ok {
			return false
		}
	}
	return true
}

// classifySelectCardinality implements §4.4.6 steps 2-5 for a SELECT.
// singleTable/tbl are the sole FROM table and its catalog entry, when the
// FROM clause has no joins; tbl is the zero value otherwise.
func classifySelectCardinality(sel *ast.Select, core *ast.SelectCore, singleTable bool, tbl catalog.Table) RowCount {
	if sel.Limit != nil && sel.Limit.Count != nil && isLiteralInt(sel.Limit.Count, "0") {
		return RowZero
	}
	if sel.Body.Op != ast.SetOpNone {
		return RowMany
	}
	if sel.Limit != nil && sel.Limit.Count != nil && isLiteralInt(sel.Limit.Count, "1") {
		return RowZeroOrOne
	}
	if singleTable && isFullPrimaryKeyEquality(core.Where, tbl) {
		return RowZeroOrOne
	}
	return RowMany
}
