package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/sqltyper/internal/config"
	"github.com/leapstack-labs/sqltyper/internal/dbconn"
	"github.com/leapstack-labs/sqltyper/pkg/analyzer"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/spf13/cobra"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Format string
	Input  string
}

// newAnalyzeCommand creates the analyze command.
func newAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [SQL]",
		Short: "Analyze a parameterized SQL statement",
		Long: `Analyze connects to PostgreSQL, loads the schema catalog, and reports
the parameter types and result-column shape of a single SQL statement.

Named parameters are written as ${name}; sqltyper rewrites them to
PostgreSQL's positional $1, $2, ... form before probing.`,
		Example: `  # Analyze SQL given directly
  sqltyper analyze "SELECT name FROM person WHERE id = \${id}"

  # Read the statement from a file
  sqltyper analyze --input query.sql

  # Emit JSON for scripting
  sqltyper analyze --format json "SELECT 1"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the SQL statement from a file")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	sql, err := resolveSQL(args, opts.Input)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := dbconn.Open(ctx, cfg.Database, nil)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	cat, err := catalog.NewLoader(conn, nil).Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	desc, err := analyzer.Analyze(ctx, conn, cat, sql)
	if err != nil {
		return err
	}

	return renderDescription(cmd.OutOrStdout(), desc, opts.Format)
}

// resolveSQL picks the statement to analyze: the --input file, the
// positional argument, or stdin when neither is given.
func resolveSQL(args []string, inputPath string) (string, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", inputPath, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no SQL statement given: pass it as an argument, --input a file, or pipe it on stdin")
	}
	return string(data), nil
}
