package analyzer

import (
	"fmt"

	"github.com/leapstack-labs/sqltyper/pkg/infer"
	"github.com/leapstack-labs/sqltyper/pkg/preprocess"
	"github.com/leapstack-labs/sqltyper/pkg/probe"
)

// assemble merges the preprocessor's parameter names, the probe's
// authoritative types, and the inference engine's nullability bits into
// one StatementDescription, per §4.5. A count mismatch between any two of
// these independently-derived lists is an InferenceError: it means a
// component disagreed with the server about the statement's shape, which
// should be unreachable once the probe has accepted the rewritten SQL.
func assemble(sql string, names []preprocess.Parameter, desc probe.Description, inf *infer.Result) (*StatementDescription, error) {
	if len(names) != len(desc.ParamOIDs) {
		return nil, &InferenceError{Message: fmt.Sprintf(
			"parameter count mismatch: preprocessor found %d, probe reported %d", len(names), len(desc.ParamOIDs))}
	}
	params := make([]Parameter, len(names))
	for i, n := range names {
		params[i] = Parameter{Name: n.Name, TypeOID: desc.ParamOIDs[i]}
	}

	if !inf.AffectedRowCount && len(inf.Columns) != len(desc.Columns) {
		return nil, &InferenceError{Message: fmt.Sprintf(
			"output column count mismatch: inference found %d, probe reported %d", len(inf.Columns), len(desc.Columns))}
	}
	cols := make([]Column, len(desc.Columns))
	for i, c := range desc.Columns {
		nullable := true
		if i < len(inf.Columns) {
			nullable = inf.Columns[i].Nullable
		}
		cols[i] = Column{Name: c.Name, TypeOID: c.TypeOID, Nullable: nullable}
	}

	return &StatementDescription{
		SQL:              sql,
		RowCount:         inf.RowCount,
		AffectedRowCount: inf.AffectedRowCount,
		Parameters:       params,
		Columns:          cols,
	}, nil
}
