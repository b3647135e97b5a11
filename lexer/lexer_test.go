package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wbrown/bytelog"
)

func kinds(toks []bytelog.Token) []bytelog.TokenKind {
	out := make([]bytelog.TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func lexAll(src string) []bytelog.Token {
	l := New(src)
	var toks []bytelog.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == bytelog.TokenEOF {
			return toks
		}
	}
}

func TestLexerEmptyInput(t *testing.T) {
	toks := lexAll("")
	require.Equal(t, []bytelog.TokenKind{bytelog.TokenEOF}, kinds(toks))
}

func TestLexerKeywords(t *testing.T) {
	toks := lexAll("REL FACT RULE SCAN JOIN EMIT MATCH SOLVE QUERY")
	require.Equal(t, []bytelog.TokenKind{
		bytelog.TokenREL, bytelog.TokenFACT, bytelog.TokenRULE, bytelog.TokenSCAN,
		bytelog.TokenJOIN, bytelog.TokenEMIT, bytelog.TokenMATCH, bytelog.TokenSOLVE,
		bytelog.TokenQUERY, bytelog.TokenEOF,
	}, kinds(toks))
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	toks := lexAll("rel Fact RULE")
	require.Equal(t, []bytelog.TokenKind{bytelog.TokenREL, bytelog.TokenFACT, bytelog.TokenRULE, bytelog.TokenEOF}, kinds(toks))
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(": , ?")
	require.Equal(t, []bytelog.TokenKind{bytelog.TokenColon, bytelog.TokenComma, bytelog.TokenWildcard, bytelog.TokenEOF}, kinds(toks))
}

func TestLexerVariables(t *testing.T) {
	toks := lexAll("$0 $1 $42 $123")
	require.Equal(t, bytelog.TokenVariable, toks[0].Kind)
	require.Equal(t, int64(0), toks[0].Int)
	require.Equal(t, int64(1), toks[1].Int)
	require.Equal(t, int64(42), toks[2].Int)
	require.Equal(t, int64(123), toks[3].Int)
}

func TestLexerBareDollarIsError(t *testing.T) {
	toks := lexAll("$")
	require.Equal(t, bytelog.TokenError, toks[0].Kind)
}

func TestLexerIntegers(t *testing.T) {
	toks := lexAll("0 42 -17 123")
	require.Equal(t, int64(0), toks[0].Int)
	require.Equal(t, int64(42), toks[1].Int)
	require.Equal(t, int64(-17), toks[2].Int)
	require.Equal(t, int64(123), toks[3].Int)
}

func TestLexerIdentifiersPreserveCase(t *testing.T) {
	toks := lexAll("parent ancestor_of _private rel2")
	require.Equal(t, "parent", toks[0].Lexeme)
	require.Equal(t, "ancestor_of", toks[1].Lexeme)
	require.Equal(t, "_private", toks[2].Lexeme)
	require.Equal(t, "rel2", toks[3].Lexeme)
}

func TestLexerSemicolonComment(t *testing.T) {
	toks := lexAll("REL parent ; a comment\nREL child")
	require.Equal(t, []bytelog.TokenKind{
		bytelog.TokenREL, bytelog.TokenIdentifier, bytelog.TokenREL, bytelog.TokenIdentifier, bytelog.TokenEOF,
	}, kinds(toks))
}

func TestLexerSlashSlashComment(t *testing.T) {
	toks := lexAll("REL parent // a comment\nREL child")
	require.Equal(t, []bytelog.TokenKind{
		bytelog.TokenREL, bytelog.TokenIdentifier, bytelog.TokenREL, bytelog.TokenIdentifier, bytelog.TokenEOF,
	}, kinds(toks))
}

func TestLexerUnknownCharacterIsError(t *testing.T) {
	toks := lexAll("@")
	require.Equal(t, bytelog.TokenError, toks[0].Kind)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks := lexAll("REL a\nREL b")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Col)
	require.Equal(t, 2, toks[2].Line)
	require.Equal(t, 1, toks[2].Col)
}
