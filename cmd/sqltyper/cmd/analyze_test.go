package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSQLPrefersPositionalArgument(t *testing.T) {
	sql, err := resolveSQL([]string{"SELECT 1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", sql)
}

func TestResolveSQLReadsInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o644))

	sql, err := resolveSQL(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)
}

func TestResolveSQLInputFileTakesPrecedenceOverArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o644))

	sql, err := resolveSQL([]string{"SELECT 1"}, path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)
}
