package infer

import (
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
)

// inferInsert implements §4.4.5's INSERT/RETURNING rules and the row-count
// shape of §4.4.6 step 1 (no RETURNING) or the single/multi-row RETURNING
// case.
func (e *env) inferInsert(ins *ast.Insert) (*Result, error) {
	if err := e.loadCTEs(ins.With); err != nil {
		return nil, err
	}

	if len(ins.Returning) == 0 {
		return &Result{RowCount: RowMany, AffectedRowCount: true}, nil
	}

	tbl, ok := e.cat.Table(ins.Table.Schema, ins.Table.Name)
	if !ok {
		return nil, ErrUnknownTable
	}

	nullable := e.insertColumnNullability(ins, tbl)
	alias := ins.Table.Alias
	if alias == "" {
		alias = ins.Table.Name
	}
	scope := newScope()
	for _, c := range tbl.Columns {
		scope.add(Column{Table: alias, Name: c.Name, TypeOID: c.TypeOID, Nullable: nullable[c.Name]})
	}

	cols := make([]OutputColumn, 0, len(ins.Returning))
	for i, item := range ins.Returning {
		cols = append(cols, e.expandSelectItem(item, i, scope, newNonNullSet())...)
	}

	rowCount := RowOne
	if len(ins.Rows) > 1 {
		rowCount = RowMany
	}
	return &Result{RowCount: rowCount, Columns: cols}, nil
}

// insertColumnNullability computes each target column's effective
// nullability per §4.4.5: the assigned expression's nullability, OR'd
// across a multi-row VALUES list; for an omitted column or DEFAULT VALUES,
// nullable iff the column has a default and is not declared NOT NULL (an
// omitted column with no default counts as non-null).
func (e *env) insertColumnNullability(ins *ast.Insert, tbl catalog.Table) map[string]bool {
	names := ins.Columns
	if len(names) == 0 {
		names = make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			names[i] = c.Name
		}
	}
	index := map[string]int{}
	for i, n := range names {
		index[n] = i
	}

	empty := newScope()
	nn := newNonNullSet()
	nullable := map[string]bool{}
	for _, c := range tbl.Columns {
		if ins.Default {
			nullable[c.Name] = c.HasDefault && !c.NotNull
			continue
		}
		idx, assigned := index[c.Name]
		if !assigned {
			nullable[c.Name] = c.HasDefault && !c.NotNull
			continue
		}
		rowNullable := false
		for _, row := range ins.Rows {
			if idx >= len(row) {
				continue
			}
			if exprNullable(row[idx], empty, nn, e.cat) {
				rowNullable = true
				break
			}
		}
		nullable[c.Name] = rowNullable
	}
	return nullable
}

// inferUpdate implements §4.4.5's UPDATE/RETURNING rules.
func (e *env) inferUpdate(upd *ast.Update) (*Result, error) {
	if err := e.loadCTEs(upd.With); err != nil {
		return nil, err
	}

	if len(upd.Returning) == 0 {
		return &Result{RowCount: RowMany, AffectedRowCount: true}, nil
	}

	tbl, ok := e.cat.Table(upd.Table.Schema, upd.Table.Name)
	if !ok {
		return nil, ErrUnknownTable
	}
	alias := upd.Table.Alias
	if alias == "" {
		alias = upd.Table.Name
	}

	scope := newScope()
	scope.add(columnsOfCatalogTable(tbl, alias)...)
	var innerConds []ast.Expr
	if upd.From != nil {
		fromScope, conds, err := e.buildFromScope(upd.From)
		if err != nil {
			return nil, err
		}
		scope.add(fromScope.Columns...)
		innerConds = conds
	}
	nn := nonNull(andAll(upd.Where, innerConds), e.cat)

	assigned := map[string]bool{}
	for _, a := range upd.Assignments {
		assigned[a.Column] = exprNullable(a.Value, scope, nn, e.cat)
	}
	for i, c := range scope.Columns {
		if c.Table != alias {
			continue
		}
		if nullable, ok := assigned[c.Name]; ok {
			scope.Columns[i].Nullable = nullable
		}
	}

	cols := make([]OutputColumn, 0, len(upd.Returning))
	for i, item := range upd.Returning {
		cols = append(cols, e.expandSelectItem(item, i, scope, nn)...)
	}

	rowCount := RowMany
	if upd.From == nil && isFullPrimaryKeyEquality(upd.Where, tbl) {
		rowCount = RowZeroOrOne
	}
	return &Result{RowCount: rowCount, Columns: cols}, nil
}

// inferDelete implements §4.4.5's DELETE/RETURNING rules.
func (e *env) inferDelete(del *ast.Delete) (*Result, error) {
	if err := e.loadCTEs(del.With); err != nil {
		return nil, err
	}

	if len(del.Returning) == 0 {
		return &Result{RowCount: RowMany, AffectedRowCount: true}, nil
	}

	tbl, ok := e.cat.Table(del.Table.Schema, del.Table.Name)
	if !ok {
		return nil, ErrUnknownTable
	}
	alias := del.Table.Alias
	if alias == "" {
		alias = del.Table.Name
	}

	scope := newScope()
	scope.add(columnsOfCatalogTable(tbl, alias)...)
	nn := nonNull(del.Where, e.cat)

	cols := make([]OutputColumn, 0, len(del.Returning))
	for i, item := range del.Returning {
		cols = append(cols, e.expandSelectItem(item, i, scope, nn)...)
	}

	rowCount := RowMany
	if isFullPrimaryKeyEquality(del.Where, tbl) {
		rowCount = RowZeroOrOne
	}
	return &Result{RowCount: rowCount, Columns: cols}, nil
}
