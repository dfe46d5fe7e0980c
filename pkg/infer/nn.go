package infer

import (
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/token"
)

// nonNullSet is NN(W): the set of columns guaranteed non-null for every row
// that survives w, keyed both as "table.column" and bare "column" so a
// later lookup can match however the output expression refers to it (see
// §4.4.3). A nil w yields the empty set.
type nonNullSet map[string]struct{}

func newNonNullSet() nonNullSet { return nonNullSet{} }

func (s nonNullSet) has(key string) bool {
	_, ok := s[key]
	return ok
}

func unionSet(a, b nonNullSet) nonNullSet {
	out := newNonNullSet()
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(a, b nonNullSet) nonNullSet {
	out := newNonNullSet()
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// columnKeys returns the lookup keys of e if it is a column reference, else
// nil.
func columnKeys(e ast.Expr) []string {
	switch c := e.(type) {
	case *ast.ColumnRef:
		return []string{c.Name}
	case *ast.TableColumnRef:
		return []string{c.Table + "." + c.Column, c.Column}
	default:
		return nil
	}
}

func keysToSet(keys []string) nonNullSet {
	s := newNonNullSet()
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// nonNull computes NN(e) per §4.4.3.
func nonNull(e ast.Expr, cat *catalog.Catalog) nonNullSet {
	if e == nil {
		return newNonNullSet()
	}

	switch x := e.(type) {
	case *ast.ParenExpr:
		return nonNull(x.Inner, cat)

	case *ast.BinaryOp:
		switch x.Op {
		case token.AND:
			return unionSet(nonNull(x.Left, cat), nonNull(x.Right, cat))
		case token.OR:
			return intersectSet(nonNull(x.Left, cat), nonNull(x.Right, cat))
		default:
			if !cat.Operators.NullSafe(x.Op) {
				return newNonNullSet()
			}
			return unionSet(
				unionSet(keysToSet(columnKeys(x.Left)), keysToSet(columnKeys(x.Right))),
				unionSet(nonNull(x.Left, cat), nonNull(x.Right, cat)))
		}

	case *ast.IsExpr:
		// "x IS NOT NULL"/"NOTNULL" and the symmetric TRUE/FALSE/UNKNOWN
		// forms that reject a NULL operand all filter the row out when x is
		// NULL, so they propagate non-null the same way IS NOT NULL does.
		propagates := (x.Check == ast.IsNull && x.Not) ||
			(x.Check == ast.IsTrue && !x.Not) ||
			(x.Check == ast.IsFalse && !x.Not) ||
			(x.Check == ast.IsUnknown && x.Not)
		if !propagates {
			return newNonNullSet()
		}
		return unionSet(keysToSet(columnKeys(x.Operand)), nonNull(x.Operand, cat))

	case *ast.UnaryOp:
		if x.Op == token.NOT {
			return newNonNullSet()
		}
		return unionSet(keysToSet(columnKeys(x.Operand)), nonNull(x.Operand, cat))

	case *ast.FuncCall:
		if cat.Functions.Classify(x.Name) != catalog.NullSafe {
			return newNonNullSet()
		}
		out := newNonNullSet()
		for _, a := range x.Args {
			out = unionSet(out, unionSet(keysToSet(columnKeys(a)), nonNull(a, cat)))
		}
		return out

	case *ast.CastExpr:
		return unionSet(keysToSet(columnKeys(x.Operand)), nonNull(x.Operand, cat))

	case *ast.BetweenExpr:
		out := keysToSet(columnKeys(x.Operand))
		out = unionSet(out, keysToSet(columnKeys(x.Low)))
		out = unionSet(out, keysToSet(columnKeys(x.High)))
		return unionSet(out, unionSet(nonNull(x.Operand, cat), unionSet(nonNull(x.Low, cat), nonNull(x.High, cat))))

	case *ast.LikeExpr:
		out := unionSet(keysToSet(columnKeys(x.Operand)), keysToSet(columnKeys(x.Pattern)))
		return unionSet(out, unionSet(nonNull(x.Operand, cat), nonNull(x.Pattern, cat)))

	case *ast.InExpr:
		// IN is null-safe on its left-hand side (§ operator classification);
		// the candidate list does not need to be non-null for the operand
		// to be required non-null.
		return unionSet(keysToSet(columnKeys(x.Operand)), nonNull(x.Operand, cat))

	default:
		return newNonNullSet()
	}
}

// andAll folds a WHERE clause with any INNER join ON conditions into a
// single conjunction, matching the plain AND-union rule.
func andAll(where ast.Expr, extra []ast.Expr) ast.Expr {
	result := where
	for _, e := range extra {
		if result == nil {
			result = e
			continue
		}
		result = &ast.BinaryOp{Left: result, Op: token.AND, Right: e}
	}
	return result
}
