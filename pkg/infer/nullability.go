package infer

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// exprNullable implements expression_nullable per §4.4.4: it returns true
// iff e might evaluate to NULL, given scope's source-column nullability and
// nn's set of columns proven non-null by the WHERE (and eligible ON)
// conditions.
func exprNullable(e ast.Expr, scope *Scope, nn nonNullSet, cat *catalog.Catalog) bool {
	switch x := e.(type) {
	case *ast.ColumnRef:
		if nn.has(x.Name) {
			return false
		}
		col, ok := scope.resolveUnqualified(x.Name)
		if !ok {
			return true
		}
		return col.Nullable

	case *ast.TableColumnRef:
		if nn.has(x.Table+"."+x.Column) || nn.has(x.Column) {
			return false
		}
		col, ok := scope.resolveQualified(x.Table, x.Column)
		if !ok {
			return true
		}
		return col.Nullable

	case *ast.Literal:
		return x.Kind == ast.LiteralNull

	case *ast.Parameter:
		return false

	case *ast.FuncCall:
		if isConditionallyNeverNull(x.Name) {
			// coalesce's result is non-NULL as soon as one argument is
			// non-NULL; it is only nullable when every argument is.
			for _, a := range x.Args {
				if !exprNullable(a, scope, nn, cat) {
					return false
				}
			}
			return true
		}
		switch cat.Functions.Classify(x.Name) {
		case catalog.NeverNull:
			return false
		case catalog.NullSafe:
			for _, a := range x.Args {
				if exprNullable(a, scope, nn, cat) {
					return true
				}
			}
			return false
		default:
			return true
		}

	case *ast.UnaryOp:
		if x.Op == token.NOT {
			return exprNullable(x.Operand, scope, nn, cat)
		}
		return exprNullable(x.Operand, scope, nn, cat)

	case *ast.IsExpr:
		// IS [NOT] .../ISNULL/NOTNULL always yield a non-null boolean.
		return false

	case *ast.BinaryOp:
		return exprNullable(x.Left, scope, nn, cat) || exprNullable(x.Right, scope, nn, cat)

	case *ast.InExpr:
		if exprNullable(x.Operand, scope, nn, cat) {
			return true
		}
		if x.Subquery != nil {
			return true
		}
		for _, v := range x.Values {
			if exprNullable(v, scope, nn, cat) {
				return true
			}
		}
		return false

	case *ast.ExistsExpr:
		return false

	case *ast.BetweenExpr:
		return exprNullable(x.Operand, scope, nn, cat) ||
			exprNullable(x.Low, scope, nn, cat) ||
			exprNullable(x.High, scope, nn, cat)

	case *ast.LikeExpr:
		return exprNullable(x.Operand, scope, nn, cat) || exprNullable(x.Pattern, scope, nn, cat)

	case *ast.CastExpr:
		return exprNullable(x.Operand, scope, nn, cat)

	case *ast.SubscriptExpr:
		return exprNullable(x.Operand, scope, nn, cat)

	case *ast.ParenExpr:
		return exprNullable(x.Inner, scope, nn, cat)

	case *ast.CaseExpr:
		if x.Else == nil {
			return true // falling through to implicit ELSE NULL
		}
		if exprNullable(x.Else, scope, nn, cat) {
			return true
		}
		for _, w := range x.Whens {
			if exprNullable(w.Then, scope, nn, cat) {
				return true
			}
		}
		return false

	case *ast.SubqueryExpr:
		return true // conservative: a scalar subquery may return no rows

	case *ast.StarExpr:
		return false

	default:
		return true
	}
}

// isConditionallyNeverNull reports whether name's never-null status
// depends on its arguments rather than being a blanket fact (unlike
// concat or count, which cat.Functions classifies unconditionally).
func isConditionallyNeverNull(name string) bool {
	return strings.EqualFold(name, "coalesce")
}

// outputColumnName determines the projected name of a select-list
// expression per §4.4.4's ordered rule: explicit alias, else the bare
// column name, else the function name, else a synthetic placeholder (the
// assembler prefers the probe's server-assigned name over this fallback).
func outputColumnName(item ast.SelectItem, idx int) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expr.(type) {
	case *ast.ColumnRef:
		return e.Name
	case *ast.TableColumnRef:
		return e.Column
	case *ast.FuncCall:
		return e.Name
	default:
		return fmt.Sprintf("column%d", idx)
	}
}
