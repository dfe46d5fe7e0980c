package catalog_test

import (
	"testing"

	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumnLookup(t *testing.T) {
	tbl := catalog.Table{
		Schema: "public",
		Name:   "person",
		Columns: []catalog.Column{
			{Name: "id", TypeOID: 23, NotNull: true},
			{Name: "name", TypeOID: 25},
		},
		PrimaryKey: map[string]struct{}{"id": {}},
	}

	col, ok := tbl.Column("name")
	require.True(t, ok)
	assert.False(t, col.NotNull)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)

	assert.True(t, tbl.IsPrimaryKey("id"))
	assert.False(t, tbl.IsPrimaryKey("name"))
}

func TestCatalogTableDefaultsToPublicSchema(t *testing.T) {
	cat := &catalog.Catalog{Tables: map[string]catalog.Table{
		"public.person": {Schema: "public", Name: "person"},
	}}

	tbl, ok := cat.Table("", "person")
	require.True(t, ok)
	assert.Equal(t, "person", tbl.Name)
}

func TestOperatorClassesNullSafety(t *testing.T) {
	assert.True(t, catalog.DefaultOperatorClasses.NullSafe(token.PLUS))
	assert.True(t, catalog.DefaultOperatorClasses.NullSafe(token.EQ))
	assert.False(t, catalog.DefaultOperatorClasses.NullSafe(token.AND))
	assert.False(t, catalog.DefaultOperatorClasses.NullSafe(token.IS))
}

func TestFunctionClassesClassification(t *testing.T) {
	assert.Equal(t, catalog.NeverNull, catalog.DefaultFunctionClasses.Classify("CONCAT"))
	assert.Equal(t, catalog.NeverNull, catalog.DefaultFunctionClasses.Classify("count"))
	assert.Equal(t, catalog.NullSafe, catalog.DefaultFunctionClasses.Classify("Upper"))
	assert.Equal(t, catalog.Unknown, catalog.DefaultFunctionClasses.Classify("some_unknown_fn"))
}
