package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqltyper/pkg/analyzer"
)

func renderDescription(w io.Writer, desc *analyzer.StatementDescription, format string) error {
	switch format {
	case "json":
		return renderJSON(w, desc)
	default:
		return renderTables(w, desc)
	}
}

func renderJSON(w io.Writer, desc *analyzer.StatementDescription) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(desc)
}

func renderTables(w io.Writer, desc *analyzer.StatementDescription) error {
	fmt.Fprintf(w, "row count: %s", desc.RowCount)
	if desc.AffectedRowCount {
		fmt.Fprint(w, " (affected row count, no result columns)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Parameters:")
	if len(desc.Parameters) == 0 {
		fmt.Fprintln(w, "  (none)")
	} else {
		pt := table.NewWriter()
		pt.SetOutputMirror(w)
		pt.SetStyle(table.StyleLight)
		pt.AppendHeader(table.Row{"name", "type oid", "nullable"})
		for _, p := range desc.Parameters {
			pt.AppendRow(table.Row{p.Name, p.TypeOID, p.Nullable})
		}
		pt.Render()
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Columns:")
	if len(desc.Columns) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	ct := table.NewWriter()
	ct.SetOutputMirror(w)
	ct.SetStyle(table.StyleLight)
	ct.AppendHeader(table.Row{"name", "type oid", "nullable"})
	for _, c := range desc.Columns {
		ct.AppendRow(table.Row{c.Name, c.TypeOID, c.Nullable})
	}
	ct.Render()
	return nil
}
