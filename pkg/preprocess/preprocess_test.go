package preprocess_test

import (
	"testing"

	"github.com/leapstack-labs/sqltyper/pkg/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAssignsOrderedIndices(t *testing.T) {
	res, err := preprocess.Run(`SELECT * FROM t WHERE a = ${foo} AND b = ${bar}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2`, res.SQL)
	require.Len(t, res.Parameters, 2)
	assert.Equal(t, "foo", res.Parameters[0].Name)
	assert.Equal(t, 1, res.Parameters[0].Index)
	assert.Equal(t, "bar", res.Parameters[1].Name)
	assert.Equal(t, 2, res.Parameters[1].Index)
}

func TestRunReusesRepeatedName(t *testing.T) {
	res, err := preprocess.Run(`SELECT * FROM t WHERE a = ${id} OR b = ${id}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 OR b = $1`, res.SQL)
	require.Len(t, res.Parameters, 1)
}

func TestRunIgnoresPlaceholderInsideStringLiteral(t *testing.T) {
	res, err := preprocess.Run(`SELECT '${not_a_param}' FROM t WHERE x = ${x}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT '${not_a_param}' FROM t WHERE x = $1`, res.SQL)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "x", res.Parameters[0].Name)
}

func TestRunIgnoresPlaceholderInsideQuotedIdentifier(t *testing.T) {
	res, err := preprocess.Run(`SELECT "${weird col}" FROM t`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "${weird col}" FROM t`, res.SQL)
	assert.Empty(t, res.Parameters)
}

func TestRunPassesThroughPositionalParam(t *testing.T) {
	res, err := preprocess.Run(`SELECT * FROM t WHERE a = $1`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM t WHERE a = $1`, res.SQL)
	assert.Empty(t, res.Parameters)
}

func TestRunMalformedPlaceholderMissingName(t *testing.T) {
	_, err := preprocess.Run(`SELECT * FROM t WHERE a = ${}`)
	require.Error(t, err)
	var pe *preprocess.Error
	require.ErrorAs(t, err, &pe)
}

func TestRunMalformedPlaceholderUnterminated(t *testing.T) {
	_, err := preprocess.Run(`SELECT * FROM t WHERE a = ${id`)
	require.Error(t, err)
	var pe *preprocess.Error
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "unterminated")
}

func TestRunHandlesEscapedQuoteInLiteral(t *testing.T) {
	res, err := preprocess.Run(`SELECT 'it''s ${x}' FROM t WHERE y = ${y}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT 'it''s ${x}' FROM t WHERE y = $1`, res.SQL)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "y", res.Parameters[0].Name)
}

func TestRunHandlesBackslashEscapedQuoteInLiteral(t *testing.T) {
	res, err := preprocess.Run(`SELECT 'it\'s ${x}' FROM t WHERE y = ${y}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT 'it\'s ${x}' FROM t WHERE y = $1`, res.SQL)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "y", res.Parameters[0].Name)
}

func TestRunHandlesBackslashEscapedQuoteInIdentifier(t *testing.T) {
	res, err := preprocess.Run(`SELECT "weird\"${not_a_param}" FROM t WHERE y = ${y}`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "weird\"${not_a_param}" FROM t WHERE y = $1`, res.SQL)
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "y", res.Parameters[0].Name)
}
