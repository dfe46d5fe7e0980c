package analyzer

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDuplicateColumnNamesDetectsCollision(t *testing.T) {
	err := checkDuplicateColumnNames([]Column{{Name: "id"}, {Name: "id"}})
	require.Error(t, err)
	var userErr *UserSchemaError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, DuplicateColumnName, userErr.Kind)
}

func TestCheckDuplicateColumnNamesAllowsDistinctNames(t *testing.T) {
	err := checkDuplicateColumnNames([]Column{{Name: "id"}, {Name: "name"}})
	require.NoError(t, err)
}

func TestFindNullableParameterPositionDetectsDirectIsNullCheck(t *testing.T) {
	stmt, err := parser.Parse("SELECT $1 IS NULL")
	require.NoError(t, err)
	assert.True(t, findNullableParameterPosition(stmt))
}

func TestFindNullableParameterPositionAllowsOrdinaryUsage(t *testing.T) {
	stmt, err := parser.Parse("SELECT name FROM person WHERE id = $1")
	require.NoError(t, err)
	assert.False(t, findNullableParameterPosition(stmt))
}

// TestIntegration_AnalyzeEndToEnd runs the whole pipeline against a live
// PostgreSQL connection.
func TestIntegration_AnalyzeEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv("SQLTYPER_TEST_DSN")
	if dsn == "" {
		t.Skip("SQLTYPER_TEST_DSN not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, "CREATE TEMP TABLE person (id int primary key, name text not null)")
	require.NoError(t, err)

	cat, err := catalog.NewLoader(conn, nil).Load(ctx)
	require.NoError(t, err)

	desc, err := Analyze(ctx, conn, cat, "SELECT name FROM person WHERE id = ${id} LIMIT 1")
	require.NoError(t, err)
	assert.Equal(t, "zeroOrOne", string(desc.RowCount))
	require.Len(t, desc.Parameters, 1)
	assert.Equal(t, "id", desc.Parameters[0].Name)
	require.Len(t, desc.Columns, 1)
	assert.Equal(t, "name", desc.Columns[0].Name)
	assert.False(t, desc.Columns[0].Nullable)
}
