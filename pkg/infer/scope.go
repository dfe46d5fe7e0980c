// Package infer derives output-column nullability and row-cardinality for a
// parsed statement, using the catalog snapshot and the non-null set of the
// statement's WHERE (and, for inner joins, ON) conditions. It never talks to
// the database: every bit of nullability it produces is a static function of
// the AST and the catalog.
package infer

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
)

// Column is one source column visible in a Scope: a FROM-table column, a
// join-nullified column, or a CTE/derived-table output column.
type Column struct {
	Table    string // alias or table name; "" for an unqualified virtual source
	Name     string
	TypeOID  uint32
	Nullable bool
}

// Scope binds unqualified and table-qualified names to source columns for
// one SELECT body, UPDATE, DELETE, or INSERT-RETURNING.
type Scope struct {
	Columns []Column
}

func newScope() *Scope { return &Scope{} }

func (s *Scope) add(cols ...Column) {
	s.Columns = append(s.Columns, cols...)
}

// nullify returns a copy of cols with Nullable forced to true, used for the
// side of an outer join that is not preserved.
func nullify(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		c.Nullable = true
		out[i] = c
	}
	return out
}

// resolveUnqualified finds the unique column named name. Ambiguous or
// missing references resolve conservatively nullable, per §4.4.1: "an
// unqualified reference that matches columns from multiple sources marks
// the output nullable and does not fail."
func (s *Scope) resolveUnqualified(name string) (Column, bool) {
	var found Column
	count := 0
	for _, c := range s.Columns {
		if c.Name == name {
			found = c
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return Column{}, false
}

// resolveQualified finds the column named table.name.
func (s *Scope) resolveQualified(table, name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Table == table && c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// columnsOfCatalogTable converts a catalog table's columns into scope
// columns tagged with alias (or the table's own name if alias is empty).
func columnsOfCatalogTable(tbl catalog.Table, alias string) []Column {
	if alias == "" {
		alias = tbl.Name
	}
	cols := make([]Column, len(tbl.Columns))
	for i, c := range tbl.Columns {
		cols[i] = Column{Table: alias, Name: c.Name, TypeOID: c.TypeOID, Nullable: !c.NotNull}
	}
	return cols
}

// resolveTableRef builds the scope contribution of one FROM-clause source:
// a catalog table, a CTE virtual table, or a derived table (subquery),
// recursively inferred.
func (e *env) resolveTableRef(ref ast.TableRef) ([]Column, error) {
	switch t := ref.(type) {
	case *ast.TableName:
		if cte, ok := e.ctes[t.Name]; ok && t.Schema == "" {
			alias := t.Alias
			if alias == "" {
				alias = t.Name
			}
			cols := make([]Column, len(cte))
			for i, c := range cte {
				c.Table = alias
				cols[i] = c
			}
			return cols, nil
		}
		tbl, ok := e.cat.Table(t.Schema, t.Name)
		if !ok {
			return nil, fmt.Errorf("infer: unknown table %q: %w", t.Name, ErrUnknownTable)
		}
		return columnsOfCatalogTable(tbl, t.Alias), nil
	case *ast.DerivedTable:
		res, err := e.inferSelect(t.Select)
		if err != nil {
			return nil, err
		}
		alias := t.Alias
		cols := make([]Column, len(res.Columns))
		for i, c := range res.Columns {
			cols[i] = Column{Table: alias, Name: c.Name, Nullable: c.Nullable}
		}
		return cols, nil
	default:
		return nil, fmt.Errorf("infer: unsupported table reference %T: %w", ref, ErrUnknownTable)
	}
}

// buildFromScope walks a FROM clause left to right, applying the
// join-induced nullability rules of §4.4.2, and returns the accumulated
// scope plus the ON conditions of INNER joins (the only joins whose
// condition narrows nullability; see §4.4.2's closing note).
func (e *env) buildFromScope(from *ast.From) (*Scope, []ast.Expr, error) {
	scope := newScope()
	if from == nil {
		return scope, nil, nil
	}

	left, err := e.resolveTableRef(from.Source)
	if err != nil {
		return nil, nil, err
	}
	scope.add(left...)

	var innerConds []ast.Expr
	for _, j := range from.Joins {
		right, err := e.resolveTableRef(j.Right)
		if err != nil {
			return nil, nil, err
		}

		switch j.Type {
		case ast.JoinInner:
			innerConds = appendJoinCondition(innerConds, j)
		case ast.JoinLeft:
			right = nullify(right)
		case ast.JoinRight:
			scope.Columns = nullify(scope.Columns)
		case ast.JoinFull:
			scope.Columns = nullify(scope.Columns)
			right = nullify(right)
		}
		scope.add(right...)
	}
	return scope, innerConds, nil
}

// appendJoinCondition folds an INNER join's ON condition into the list of
// conditions eligible to narrow nullability; a USING join adds nothing.
func appendJoinCondition(conds []ast.Expr, j *ast.Join) []ast.Expr {
	if j.Condition != nil {
		conds = append(conds, j.Condition)
	}
	return conds
}
