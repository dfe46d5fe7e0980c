package infer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/infer"
	"github.com/leapstack-labs/sqltyper/pkg/parser"
	"github.com/leapstack-labs/sqltyper/pkg/preprocess"
	"github.com/stretchr/testify/require"
)

// assertColumns compares the inferred output columns against want,
// printing a field-level diff on mismatch rather than just the two values.
func assertColumns(t *testing.T, want, got []infer.OutputColumn) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output columns mismatch (-want +got):\n%s", diff)
	}
}

func mustParse(t *testing.T, sql string) ast.Statement {
	t.Helper()
	rewritten, err := preprocess.Run(sql)
	require.NoError(t, err)
	stmt, err := parser.Parse(rewritten.SQL)
	require.NoError(t, err)
	return stmt
}

func col(name string, typeOID uint32, notNull bool) catalog.Column {
	return catalog.Column{Name: name, TypeOID: typeOID, NotNull: notNull}
}

func TestWherePropagationDoesNotTrustNeverNullFunction(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.person": {
				Schema: "public",
				Name:   "person",
				Columns: []catalog.Column{
					col("age", 23, false),
					col("shoe_size", 23, false),
					col("height", 23, false),
					col("weight", 23, false),
					col("name", 25, false),
				},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `SELECT age + 5 AS age_plus_5, shoe_size, height, weight,
		concat(name, 'foo') AS name_foo, name
		FROM person
		WHERE age + 5 < 60 AND shoe_size = 45 AND bool(height) IS NOT NULL
		  AND weight IS NOT NULL AND concat(name, 'foo') IS NOT NULL`)

	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowMany, res.RowCount)
	require.Len(t, res.Columns, 6)

	want := map[string]bool{
		"age_plus_5": false,
		"shoe_size":  false,
		"height":     false,
		"weight":     false,
		"name_foo":   false,
		"name":       true, // concat is never_null: the IS NOT NULL conjunct never fires
	}
	for _, c := range res.Columns {
		require.Equalf(t, want[c.Name], c.Nullable, "column %s", c.Name)
	}
}

func TestLeftJoinNullifiesRightSide(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema:     "public",
				Name:       "a",
				Columns:    []catalog.Column{col("id", 23, true), col("x", 23, true)},
				PrimaryKey: map[string]struct{}{"id": {}},
			},
			"public.b": {
				Schema:     "public",
				Name:       "b",
				Columns:    []catalog.Column{col("id", 23, true), col("a_id", 23, false), col("y", 23, true)},
				PrimaryKey: map[string]struct{}{"id": {}},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `SELECT a.x, b.y FROM a LEFT JOIN b ON b.a_id = a.id`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowMany, res.RowCount)
	assertColumns(t, []infer.OutputColumn{{Name: "x", Nullable: false}, {Name: "y", Nullable: true}}, res.Columns)
}

func TestPrimaryKeyLookupIsZeroOrOne(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema:     "public",
				Name:       "a",
				Columns:    []catalog.Column{col("id", 23, true), col("x", 23, true)},
				PrimaryKey: map[string]struct{}{"id": {}},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `SELECT x FROM a WHERE id = ${id} LIMIT 1`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowZeroOrOne, res.RowCount)
	assertColumns(t, []infer.OutputColumn{{Name: "x", Nullable: false}}, res.Columns)
}

func TestInsertReturningSingleRow(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema:     "public",
				Name:       "a",
				Columns:    []catalog.Column{col("id", 23, true), col("x", 23, true)},
				PrimaryKey: map[string]struct{}{"id": {}},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `INSERT INTO a (x) VALUES (${v}) RETURNING id, x`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowOne, res.RowCount)
	require.False(t, res.AffectedRowCount)
	assertColumns(t, []infer.OutputColumn{{Name: "id", Nullable: false}, {Name: "x", Nullable: false}}, res.Columns)
}

func TestUpdateWithoutReturningReportsAffectedRowCount(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema:     "public",
				Name:       "a",
				Columns:    []catalog.Column{col("id", 23, true), col("x", 23, true)},
				PrimaryKey: map[string]struct{}{"id": {}},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `UPDATE a SET x = ${v} WHERE id = ${i}`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowMany, res.RowCount)
	require.True(t, res.AffectedRowCount)
	require.Empty(t, res.Columns)
}

func TestUnionNullabilityIsOrAcrossBranches(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema:  "public",
				Name:    "a",
				Columns: []catalog.Column{col("x", 23, true)},
			},
			"public.b": {
				Schema:  "public",
				Name:    "b",
				Columns: []catalog.Column{col("x", 23, false)},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `SELECT x FROM a UNION SELECT x FROM b`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	require.Equal(t, infer.RowMany, res.RowCount)
	assertColumns(t, []infer.OutputColumn{{Name: "x", Nullable: true}}, res.Columns)
}

func TestCoalesceIsNullableOnlyWhenEveryArgumentIs(t *testing.T) {
	cat := &catalog.Catalog{
		Tables: map[string]catalog.Table{
			"public.a": {
				Schema: "public",
				Name:   "a",
				Columns: []catalog.Column{
					col("nullable_a", 23, false),
					col("nullable_b", 23, false),
					col("required_c", 23, true),
				},
			},
		},
		Operators: catalog.DefaultOperatorClasses,
		Functions: catalog.DefaultFunctionClasses,
	}

	stmt := mustParse(t, `SELECT coalesce(nullable_a, nullable_b) AS both_nullable,
		coalesce(nullable_a, required_c) AS one_required
		FROM a`)
	res, err := infer.Infer(stmt, cat)
	require.NoError(t, err)
	assertColumns(t, []infer.OutputColumn{
		{Name: "both_nullable", Nullable: true},
		{Name: "one_required", Nullable: false},
	}, res.Columns)
}
