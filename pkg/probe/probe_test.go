package probe_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/leapstack-labs/sqltyper/pkg/probe"
	"github.com/stretchr/testify/require"
)

// TestIntegration_RunAgainstLiveDatabase exercises Run against a real
// PostgreSQL connection. It needs SQLTYPER_TEST_DSN pointing at a reachable
// database and is skipped in short mode, same as the rest of the suite.
func TestIntegration_RunAgainstLiveDatabase(t *testing.T) {
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

	desc, err := probe.Run(ctx, conn, "SELECT 1 AS one, $1::text AS echoed")
	require.NoError(t, err)
	require.Len(t, desc.ParamOIDs, 1)
	require.Len(t, desc.Columns, 2)
	require.Equal(t, "one", desc.Columns[0].Name)
	require.Equal(t, "echoed", desc.Columns[1].Name)
}

// TestIntegration_RunLeavesConnectionUsableAfterError confirms that a probe
// of invalid SQL returns an error and leaves the connection usable: a
// second Run on the same connection succeeds.
func TestIntegration_RunLeavesConnectionUsableAfterError(t *testing.T) {
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

	_, err = probe.Run(ctx, conn, "SELECT FROM nonexistent_table_xyz")
	require.Error(t, err)

	_, err = probe.Run(ctx, conn, "SELECT 1")
	require.NoError(t, err)
}
