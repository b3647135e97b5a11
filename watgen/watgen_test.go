package watgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/bytelog/parser"
)

func TestGenerateIsDeterministic(t *testing.T) {
	src := "REL parent\nFACT parent alice bob\nQUERY parent alice bob"
	prog, err := parser.Parse(src)
	require.NoError(t, err)

	first := Generate(prog)
	second := Generate(prog)
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestGenerateEmitsExpectedExports(t *testing.T) {
	prog, err := parser.Parse("REL r\nFACT r 0 1")
	require.NoError(t, err)

	out := Generate(prog)
	require.Contains(t, out, `(export "main" (func $main))`)
	require.Contains(t, out, `(export "memory" (memory 0))`)
	require.Contains(t, out, `(export "add_fact" (func $add_fact))`)
	require.Contains(t, out, `(export "has_fact" (func $has_fact))`)
}

func TestGenerateHashFactFormula(t *testing.T) {
	prog, err := parser.Parse("REL r\nFACT r 0 1")
	require.NoError(t, err)

	out := Generate(prog)
	require.Contains(t, out, "i32.const 1000")
	require.Contains(t, out, "i32.rem_u")
}

func TestGenerateMemorySizingScalesWithFactsAndAtoms(t *testing.T) {
	small, err := parser.Parse("REL r\nFACT r 0 1")
	require.NoError(t, err)
	large, err := parser.Parse("REL r\nFACT r alice bob\nFACT r carol dave\nFACT r eve frank")
	require.NoError(t, err)

	smallOut := Generate(small)
	largeOut := Generate(large)

	require.Contains(t, smallOut, "(memory 2)")
	require.NotEqual(t, smallOut, largeOut)
}

func TestGenerateOneRuleFunctionPerRule(t *testing.T) {
	src := `REL parent
REL anc
FACT parent 0 1
RULE anc: SCAN parent, EMIT anc $0 $1
RULE anc: SCAN parent, JOIN anc $1, EMIT anc $0 $2`
	prog, err := parser.Parse(src)
	require.NoError(t, err)

	out := Generate(prog)
	require.Contains(t, out, "$rule_anc_0")
	require.Contains(t, out, "$rule_anc_1")
}

func TestGenerateOneQueryFunctionPerQuery(t *testing.T) {
	src := "REL r\nFACT r 0 1\nQUERY r 0 1\nQUERY r ? ?"
	prog, err := parser.Parse(src)
	require.NoError(t, err)

	out := Generate(prog)
	require.Contains(t, out, "$query_0")
	require.Contains(t, out, "$query_1")
}
