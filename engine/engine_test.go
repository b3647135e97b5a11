package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/parser"
)

func mustRun(t *testing.T, src string) *Engine {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	e := New(prog)
	require.NoError(t, e.Run())
	return e
}

func lastQuery(t *testing.T, e *Engine) *bytelog.Query {
	t.Helper()
	stmt := e.Program.Statements[len(e.Program.Statements)-1]
	q, ok := stmt.(*bytelog.Query)
	require.True(t, ok)
	return q
}

func TestEngineFactsOnly(t *testing.T) {
	e := mustRun(t, "REL parent\nFACT parent alice bob\nQUERY parent alice bob")
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultMembership, result.Kind)
	require.True(t, result.Found)
}

func TestEngineTransitiveClosure(t *testing.T) {
	src := `REL parent
REL anc
FACT parent 0 1
FACT parent 1 2
FACT parent 2 3
RULE anc: SCAN parent, EMIT anc $0 $1
RULE anc: SCAN parent, JOIN anc $1, EMIT anc $0 $2
SOLVE
QUERY anc 0 ?`
	e := mustRun(t, src)
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultColumnB, result.Kind)
	require.Equal(t, []int64{1, 2, 3}, result.Values)
}

func TestEngineFixpointIsIdempotent(t *testing.T) {
	src := `REL parent
REL anc
FACT parent 0 1
FACT parent 1 2
RULE anc: SCAN parent, EMIT anc $0 $1
RULE anc: SCAN parent, JOIN anc $1, EMIT anc $0 $2
SOLVE
SOLVE`
	e := mustRun(t, src)
	require.Equal(t, 3, e.facts.Size(e.atoms.Intern("anc")))
}

func TestEngineMixedAtomsAndIntegers(t *testing.T) {
	src := "REL likes\nFACT likes alice 42\nQUERY likes alice ?"
	e := mustRun(t, src)
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultColumnB, result.Kind)
	require.Equal(t, []int64{42}, result.Values)
}

func TestEngineWildcardBoth(t *testing.T) {
	src := "REL edge\nFACT edge 0 1\nFACT edge 1 2\nQUERY edge ? ?"
	e := mustRun(t, src)
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultPairs, result.Kind)
	require.Len(t, result.Pairs, 2)
	require.Equal(t, int64(0), result.Pairs[0].A)
	require.Equal(t, int64(1), result.Pairs[0].B)
	require.Equal(t, int64(1), result.Pairs[1].A)
	require.Equal(t, int64(2), result.Pairs[1].B)
}

func TestEngineCaseSensitivity(t *testing.T) {
	src := "REL r\nFACT r Alice alice\nFACT r alice ALICE\nQUERY r Alice ?"
	e := mustRun(t, src)
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultColumnB, result.Kind)
	require.Len(t, result.Values, 1)

	aliceLower, ok := e.atoms.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, int64(aliceLower), result.Values[0])
}

func TestEngineUnknownRelationInQuery(t *testing.T) {
	e := mustRun(t, "REL r\nQUERY s 0 0")
	result := e.Query(lastQuery(t, e))
	require.Equal(t, ResultMembership, result.Kind)
	require.False(t, result.Found)
}
