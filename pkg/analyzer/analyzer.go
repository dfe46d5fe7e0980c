// Package analyzer ties the catalog, parser, probe, and inference engine
// together into the single entry point: Analyze(sql, catalog, conn) ->
// StatementDescription.
package analyzer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/leapstack-labs/sqltyper/pkg/ast"
	"github.com/leapstack-labs/sqltyper/pkg/catalog"
	"github.com/leapstack-labs/sqltyper/pkg/infer"
	"github.com/leapstack-labs/sqltyper/pkg/parser"
	"github.com/leapstack-labs/sqltyper/pkg/preprocess"
	"github.com/leapstack-labs/sqltyper/pkg/probe"
	"golang.org/x/sync/errgroup"
)

// Analyze runs the full pipeline over one `${name}`-decorated SQL
// statement: preprocess, then parse and probe concurrently, then infer and
// assemble. cat must already be loaded (see catalog.Loader); conn is used
// only for the PREPARE/DESCRIBE/DEALLOCATE probe round trip.
func Analyze(ctx context.Context, conn *pgx.Conn, cat *catalog.Catalog, sql string) (*StatementDescription, error) {
	rewritten, err := preprocess.Run(sql)
	if err != nil {
		pe := err.(*preprocess.Error)
		return nil, &PreprocessorError{Offset: pe.Offset, Message: pe.Message}
	}

	var (
		stmt      ast.Statement
		parseErr  error
		probeDesc probe.Description
		probeErr  error
	)

	// Parsing is CPU-bound and the probe is a database round trip; §5
	// allows them to run in parallel as long as their results are joined
	// before inference begins.
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s, err := parser.Parse(rewritten.SQL)
		stmt, parseErr = s, err
		return err
	})
	eg.Go(func() error {
		d, err := probe.Run(egctx, conn, rewritten.SQL)
		probeDesc, probeErr = d, err
		return err
	})
	_ = eg.Wait()

	if parseErr != nil {
		if pe, ok := parseErr.(*parser.Error); ok {
			return nil, &ParseError{Offset: pe.Offset(), Message: pe.Error()}
		}
		return nil, &ParseError{Message: parseErr.Error()}
	}
	if probeErr != nil {
		return nil, &ProbeError{SQL: rewritten.SQL, Message: probeErr.Error()}
	}

	if findNullableParameterPosition(stmt) {
		return nil, &UserSchemaError{
			Kind:    NullableParameter,
			Message: "parameter used directly in an IS [NOT] NULL check; parameters are always treated as required",
		}
	}

	inf, err := infer.Infer(stmt, cat)
	if err != nil {
		return nil, &InferenceError{Message: fmt.Sprintf("unreachable after a successful probe: %s", err.Error())}
	}

	desc, err := assemble(sql, rewritten.Parameters, probeDesc, inf)
	if err != nil {
		return nil, err
	}
	if err := checkDuplicateColumnNames(desc.Columns); err != nil {
		return nil, err
	}
	return desc, nil
}

func checkDuplicateColumnNames(cols []Column) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, ok := seen[c.Name]; ok {
			return &UserSchemaError{Kind: DuplicateColumnName, Message: fmt.Sprintf("duplicate output column name %q", c.Name)}
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
