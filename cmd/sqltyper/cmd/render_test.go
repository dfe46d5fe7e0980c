package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/sqltyper/pkg/analyzer"
	"github.com/leapstack-labs/sqltyper/pkg/infer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDescription() *analyzer.StatementDescription {
	return &analyzer.StatementDescription{
		SQL:      "SELECT name FROM person WHERE id = $1",
		RowCount: infer.RowZeroOrOne,
		Parameters: []analyzer.Parameter{
			{Name: "id", TypeOID: 23, Nullable: false},
		},
		Columns: []analyzer.Column{
			{Name: "name", TypeOID: 25, Nullable: false},
		},
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderDescription(&buf, sampleDescription(), "json"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "zeroOrOne", decoded["row_count"])
}

func TestRenderTableIncludesColumnAndParameterNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderDescription(&buf, sampleDescription(), "table"))

	out := buf.String()
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "name")
}

func TestRenderTableReportsAffectedRowCount(t *testing.T) {
	desc := &analyzer.StatementDescription{
		RowCount:         infer.RowMany,
		AffectedRowCount: true,
	}
	var buf bytes.Buffer
	require.NoError(t, renderDescription(&buf, desc, "table"))
	assert.Contains(t, buf.String(), "affected row count")
}
