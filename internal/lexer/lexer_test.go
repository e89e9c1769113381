package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/lumen/internal/diagnostic"
	"github.com/sunholo/lumen/internal/lexer"
	"github.com/sunholo/lumen/internal/token"
)

func tags(toks []token.Token) []token.Tag {
	out := make([]token.Tag, len(toks))
	for i, t := range toks {
		out[i] = t.Tag
	}
	return out
}

func TestLexerBasicTokens(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte("1 + 2"), "t.roc", diags)
	require.Equal(t, []token.Tag{token.Int, token.Plus, token.Int, token.EOF}, tags(toks))
	require.False(t, diags.HasErrors())
}

func TestLexerIdentCasing(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte("foo Bar baz!"), "t.roc", diags)
	require.Equal(t, []token.Tag{token.LowerIdent, token.UpperIdent, token.LowerIdent, token.EOF}, tags(toks))
	require.Equal(t, "baz!", toks[2].Literal)
}

func TestLexerHexAndBinary(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte("0x1F 0b101"), "t.roc", diags)
	require.Equal(t, []token.Tag{token.Int, token.Int, token.EOF}, tags(toks))
}

func TestLexerPrecisionSuffix(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte("5i64 2.5dec"), "t.roc", diags)
	require.Equal(t, "5i64", toks[0].Literal)
	require.Equal(t, "2.5dec", toks[1].Literal)
}

func TestLexerLeadingZeroDiagnostic(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	lexer.Tokenize([]byte("007"), "t.roc", diags)
	require.True(t, diags.HasErrors())
	require.Equal(t, "LEX002", diags.All()[0].Code)
}

func TestLexerEmptySingleQuote(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	lexer.Tokenize([]byte("''"), "t.roc", diags)
	require.True(t, diags.HasErrors())
	require.Equal(t, "LEX005", diags.All()[0].Code)
}

func TestLexerTooLongSingleQuote(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	lexer.Tokenize([]byte("'ab'"), "t.roc", diags)
	require.True(t, diags.HasErrors())
	require.Equal(t, "LEX006", diags.All()[0].Code)
}

func TestLexerStringEscapes(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte(`"a\nb"`), "t.roc", diags)
	require.Equal(t, "a\nb", toks[0].Literal)
}

func TestLexerMultilineString(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte(`"""hello
world"""`), "t.roc", diags)
	require.Equal(t, token.MultilineStr, toks[0].Tag)
	require.Equal(t, "hello\nworld", toks[0].Literal)
}

func TestLexerEllipsisVsDotDot(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte("a .. b ... c"), "t.roc", diags)
	require.Equal(t, []token.Tag{
		token.LowerIdent, token.DotDot, token.LowerIdent,
		token.Ellipsis, token.LowerIdent, token.EOF,
	}, tags(toks))
}

func TestLexerDotDotAs(t *testing.T) {
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte(".. as rest"), "t.roc", diags)
	require.Equal(t, token.DotDotAs, toks[0].Tag)
}

func TestLexerTotalityEndsInEOF(t *testing.T) {
	sources := []string{"", "   \n\n", "let x = 1", "$ @ #"}
	for _, src := range sources {
		diags := diagnostic.NewBag(nil)
		toks := lexer.Tokenize([]byte(src), "t.roc", diags)
		require.NotEmpty(t, toks)
		require.Equal(t, token.EOF, toks[len(toks)-1].Tag)
	}
}

func TestLexerRegionsAreContiguousSubstrings(t *testing.T) {
	src := "let total = 42 + 1"
	diags := diagnostic.NewBag(nil)
	toks := lexer.Tokenize([]byte(src), "t.roc", diags)
	for _, tok := range toks {
		if tok.Tag == token.EOF {
			continue
		}
		sub := src[tok.Region.Start:tok.Region.End]
		require.NotEmpty(t, sub)
	}
}
