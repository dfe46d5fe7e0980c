package analyzer

import "github.com/leapstack-labs/sqltyper/pkg/infer"

// Parameter is one ordered parameter of a StatementDescription: its name
// from the preprocessor, its type from the probe.
type Parameter struct {
	Name     string `json:"name"`
	TypeOID  uint32 `json:"type_oid"`
	Nullable bool   `json:"nullable"`
}

// Column is one ordered output column: its name and type from the probe,
// its nullability from the inference engine.
type Column struct {
	Name     string `json:"name"`
	TypeOID  uint32 `json:"type_oid"`
	Nullable bool   `json:"nullable"`
}

// StatementDescription is the final, assembled shape of one analyzed
// statement (§6).
type StatementDescription struct {
	SQL              string         `json:"sql"`
	RowCount         infer.RowCount `json:"row_count"`
	AffectedRowCount bool           `json:"affected_row_count"`
	Parameters       []Parameter    `json:"parameters"`
	Columns          []Column       `json:"columns"`
}
