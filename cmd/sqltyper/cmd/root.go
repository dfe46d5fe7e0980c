// Package cmd provides the sqltyper command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqltyper",
		Short: "sqltyper - static parameter and result-shape inference for SQL",
		Long: `sqltyper analyzes a parameterized SQL statement against a live
PostgreSQL connection and reports, without executing the statement for its
effects, the ordered parameter types and the ordered result column names,
types and nullability, plus the statement's row cardinality.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqltyper.yaml)")
	rootCmd.PersistentFlags().String("host", "", "database host (overrides config file and environment)")
	rootCmd.PersistentFlags().Int("port", 0, "database port (overrides config file and environment)")
	rootCmd.PersistentFlags().String("user", "", "database user (overrides config file and environment)")
	rootCmd.PersistentFlags().String("password", "", "database password (overrides config file and environment)")
	rootCmd.PersistentFlags().String("dbname", "", "database name (overrides config file and environment)")
	rootCmd.PersistentFlags().String("sslmode", "", "database sslmode (overrides config file and environment)")
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.AddCommand(newAnalyzeCommand())

	return rootCmd
}
