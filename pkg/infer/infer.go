package infer

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
)

// OutputColumn is one projected column's name and nullability, in select-
// list order. Its type_oid is filled in later by the assembler from the
// probe's row description.
type OutputColumn struct {
	Name     string
	Nullable bool
}

// Result is the inference engine's contribution to a StatementDescription:
// everything that cannot be read off the wire-protocol probe.
type Result struct {
	RowCount         RowCount
	AffectedRowCount bool
	Columns          []OutputColumn
}

// env carries the catalog snapshot and the CTE scopes accumulated so far
// through one (possibly recursive, for derived tables) inference pass.
type env struct {
	cat  *catalog.Catalog
	ctes map[string][]Column
}

// Infer runs the inference engine over a parsed statement and its catalog,
// producing row cardinality and output-column nullability. It does not
// consult the database; parameter and column *types* come from the probe
// and are merged in by the assembler.
func Infer(stmt ast.Statement, cat *catalog.Catalog) (*Result, error) {
	e := &env{cat: cat, ctes: map[string][]Column{}}
	return e.inferStatement(stmt)
}

func (e *env) inferStatement(stmt ast.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *ast.Select:
		return e.inferSelect(s)
	case *ast.Insert:
		return e.inferInsert(s)
	case *ast.Update:
		return e.inferUpdate(s)
	case *ast.Delete:
		return e.inferDelete(s)
	default:
		return nil, fmt.Errorf("infer: unsupported statement %T", stmt)
	}
}

func (e *env) loadCTEs(with *ast.With) error {
	if with == nil {
		return nil
	}
	for _, wq := range with.Queries {
		res, err := e.inferStatement(wq.Statement)
		if err != nil {
			return fmt.Errorf("infer: cte %q: %w", wq.Name, err)
		}
		cols := make([]Column, len(res.Columns))
		for i, c := range res.Columns {
			name := c.Name
			if i < len(wq.Columns) {
				name = wq.Columns[i]
			}
			cols[i] = Column{Name: name, Nullable: c.Nullable}
		}
		e.ctes[wq.Name] = cols
	}
	return nil
}

// inferSelect infers a full SELECT statement: WITH, the set-operation
// body, and row cardinality from LIMIT/WHERE/joins.
func (e *env) inferSelect(sel *ast.Select) (*Result, error) {
	if err := e.loadCTEs(sel.With); err != nil {
		return nil, err
	}

	cols, singleTable, tbl, core, err := e.bodyColumns(sel.Body)
	if err != nil {
		return nil, err
	}

	return &Result{
		RowCount: classifySelectCardinality(sel, core, singleTable, tbl),
		Columns:  cols,
	}, nil
}

// bodyColumns computes the column list of a (possibly set-op-chained) body,
// merging nullability across branches by OR per §4.4.4's closing rule
// (P6), and also returns the leftmost core plus its single-table catalog
// context so the caller can apply the row-cardinality rules, which only
// look at the first core's shape.
func (e *env) bodyColumns(body *ast.SelectBody) ([]OutputColumn, bool, catalog.Table, *ast.SelectCore, error) {
	leftCols, singleTable, tbl, err := e.coreColumns(body.Left)
	if err != nil {
		return nil, false, catalog.Table{}, nil, err
	}
	if body.Op == ast.SetOpNone {
		return leftCols, singleTable, tbl, body.Left, nil
	}

	rightCols, _, _, _, err := e.bodyColumns(body.Right)
	if err != nil {
		return nil, false, catalog.Table{}, nil, err
	}

	merged := make([]OutputColumn, len(leftCols))
	for i, c := range leftCols {
		nullable := c.Nullable
		if i < len(rightCols) && rightCols[i].Nullable {
			nullable = true
		}
		merged[i] = OutputColumn{Name: c.Name, Nullable: nullable}
	}
	return merged, false, catalog.Table{}, body.Left, nil
}

// coreColumns infers one SELECT ... FROM ... WHERE ... block's projection.
// singleTable/tbl report whether the FROM clause is exactly one plain
// table with no joins, the shape step 4 of §4.4.6 requires.
func (e *env) coreColumns(core *ast.SelectCore) ([]OutputColumn, bool, catalog.Table, error) {
	scope, innerConds, err := e.buildFromScope(core.From)
	if err != nil {
		return nil, false, catalog.Table{}, err
	}
	nn := nonNull(andAll(core.Where, innerConds), e.cat)

	cols := make([]OutputColumn, 0, len(core.Columns))
	for i, item := range core.Columns {
		cols = append(cols, e.expandSelectItem(item, i, scope, nn)...)
	}

	singleTable, tbl := e.soleSourceTable(core.From)
	return cols, singleTable, tbl, nil
}

// soleSourceTable reports whether from is exactly one TableName with no
// joins, and its catalog entry.
func (e *env) soleSourceTable(from *ast.From) (bool, catalog.Table) {
	if from == nil || len(from.Joins) != 0 {
		return false, catalog.Table{}
	}
	name, ok := from.Source.(*ast.TableName)
	if !ok {
		return false, catalog.Table{}
	}
	tbl, ok := e.cat.Table(name.Schema, name.Name)
	if !ok {
		return false, catalog.Table{}
	}
	return true, tbl
}

func (e *env) expandSelectItem(item ast.SelectItem, idx int, scope *Scope, nn nonNullSet) []OutputColumn {
	switch {
	case item.Star:
		out := make([]OutputColumn, len(scope.Columns))
		for i, c := range scope.Columns {
			out[i] = OutputColumn{Name: c.Name, Nullable: exprNullable(&ast.TableColumnRef{Table: c.Table, Column: c.Name}, scope, nn, e.cat)}
		}
		return out
	case item.TableStar != "":
		var out []OutputColumn
		for _, c := range scope.Columns {
			if c.Table != item.TableStar {
				continue
			}
			out = append(out, OutputColumn{Name: c.Name, Nullable: exprNullable(&ast.TableColumnRef{Table: c.Table, Column: c.Name}, scope, nn, e.cat)})
		}
		return out
	default:
		return []OutputColumn{{
			Name:     outputColumnName(item, idx),
			Nullable: exprNullable(item.Expr, scope, nn, e.cat),
		}}
	}
}
