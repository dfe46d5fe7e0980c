package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Database.Host)
	assert.Equal(t, DefaultPort, cfg.Database.Port)
	assert.Equal(t, DefaultSSLMode, cfg.Database.SSLMode)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sqltyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: db.internal\n  port: 6543\n  dbname: catalog\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "catalog", cfg.Database.Name)
}

func TestLoadEnvironmentOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sqltyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: db.internal\n"), 0o644))

	t.Setenv("SQLTYPER_DATABASE_HOST", "env.internal")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "env.internal", cfg.Database.Host)
}

func TestLoadFlagOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sqltyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: db.internal\n"), 0o644))
	t.Setenv("SQLTYPER_DATABASE_HOST", "env.internal")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("host", "", "")
	require.NoError(t, flags.Set("host", "flag.internal"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "flag.internal", cfg.Database.Host)
}

func TestLoadUnsetFlagDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("SQLTYPER_DATABASE_HOST", "env.internal")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("host", "", "")

	t.Chdir(t.TempDir())
	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "env.internal", cfg.Database.Host)
}
