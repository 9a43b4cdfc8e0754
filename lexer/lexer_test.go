package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-vm/vclvm/lexer"
	"github.com/hollow-vm/vclvm/token"
)

func scanTypes(t *testing.T, input string) []token.TokenType {
	t.Helper()
	l := lexer.New(input)
	toks, err := l.Scan()
	require.NoError(t, err)
	types := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanBasicSubroutine(t *testing.T) {
	types := scanTypes(t, `sub vcl_recv { set req.http.X = "v"; return; }`)
	assert.Equal(t, []token.TokenType{
		token.SUBROUTINE, token.IDENTIFIER, token.LCUR,
		token.SET, token.IDENTIFIER, token.DOT, token.IDENTIFIER, token.DOT, token.IDENTIFIER,
		token.ASSIGN, token.STRING, token.SEMICOLON,
		token.RETURN, token.SEMICOLON,
		token.RCUR, token.EOF,
	}, types)
}

func TestScanSkipsAllCommentStyles(t *testing.T) {
	types := scanTypes(t, "# line\nset x = 1; // trailing\n/* block\ncomment */ set y = 2;")
	assert.Equal(t, []token.TokenType{
		token.SET, token.IDENTIFIER, token.ASSIGN, token.INT, token.SEMICOLON,
		token.SET, token.IDENTIFIER, token.ASSIGN, token.INT, token.SEMICOLON,
		token.EOF,
	}, types)
}

func TestScanCompoundAssignAndMatchOperators(t *testing.T) {
	types := scanTypes(t, "x += 1; y !~ z; w ~ v;")
	assert.Equal(t, []token.TokenType{
		token.IDENTIFIER, token.ADD_ASSIGN, token.INT, token.SEMICOLON,
		token.IDENTIFIER, token.NOT_MATCH, token.IDENTIFIER, token.SEMICOLON,
		token.IDENTIFIER, token.MATCH, token.IDENTIFIER, token.SEMICOLON,
		token.EOF,
	}, types)
}

func TestScanSizeLiteralDecreasingSuffixes(t *testing.T) {
	l := lexer.New("2gb3mb")
	tok := l.Next()
	require.Equal(t, token.SIZE, tok.Type)
	parts, ok := tok.Literal.(token.SizeParts)
	require.True(t, ok)
	assert.Equal(t, token.SizeParts{GB: 2, MB: 3}, parts)
}

func TestScanDurationLiteralDecreasingSuffixes(t *testing.T) {
	l := lexer.New("1h30min")
	tok := l.Next()
	require.Equal(t, token.DURATION, tok.Type)
	parts, ok := tok.Literal.(token.DurationParts)
	require.True(t, ok)
	assert.Equal(t, token.DurationParts{H: 1, Min: 30}, parts)
}

func TestScanSizeLiteralRejectsNonDecreasingSuffixes(t *testing.T) {
	l := lexer.New("3b2kb")
	l.Next()
	require.NotEmpty(t, l.Errors())
}

func TestScanPlainInteger(t *testing.T) {
	l := lexer.New("42")
	tok := l.Next()
	require.Equal(t, token.INT, tok.Type)
	assert.Equal(t, int64(42), tok.Literal)
}

func TestScanFloat(t *testing.T) {
	l := lexer.New("3.25")
	tok := l.Next()
	require.Equal(t, token.FLOAT, tok.Type)
	assert.Equal(t, 3.25, tok.Literal)
}

func TestScanExtendedVariableAllowsHyphen(t *testing.T) {
	l := lexer.New("X-Forwarded-For")
	tok := l.NextExtended()
	require.Equal(t, token.IDENTIFIER, tok.Type)
	assert.Equal(t, "X-Forwarded-For", tok.Literal)
}

func TestScanPlainIdentifierStopsAtHyphen(t *testing.T) {
	l := lexer.New("X-Forwarded")
	tok := l.Next()
	require.Equal(t, token.IDENTIFIER, tok.Type)
	assert.Equal(t, "X", tok.Literal)
	next := l.Next()
	assert.Equal(t, token.SUB, next.Type)
}

func TestScanInterpolatedString(t *testing.T) {
	l := lexer.New(`'hello ${name}!'`)
	var types []token.TokenType
	var segments []string
	for {
		tok := l.Next()
		types = append(types, tok.Type)
		if tok.Type == token.ISTR_SEGMENT {
			segments = append(segments, tok.Literal.(string))
		}
		if tok.Type == token.EOF {
			break
		}
	}
	require.Empty(t, l.Errors())
	assert.Equal(t, []token.TokenType{
		token.ISTR_BEGIN, token.ISTR_SEGMENT,
		token.INTERP_BEGIN, token.IDENTIFIER, token.INTERP_END,
		token.ISTR_SEGMENT, token.ISTR_END, token.EOF,
	}, types)
	assert.Equal(t, []string{"hello ", "!"}, segments)
}

func TestScanInterpolationWithNestedBraceExpression(t *testing.T) {
	l := lexer.New(`'count: ${1}'`)
	var types []token.TokenType
	for {
		tok := l.Next()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Empty(t, l.Errors())
	assert.Contains(t, types, token.INTERP_BEGIN)
	assert.Contains(t, types, token.INTERP_END)
}

func TestScanRejectsNestedInterpolation(t *testing.T) {
	l := lexer.New(`'a${'b'}c'`)
	for i := 0; i < 10; i++ {
		if l.Next().Type == token.EOF {
			break
		}
	}
	assert.NotEmpty(t, l.Errors())
}

func TestScanEscapeSequences(t *testing.T) {
	l := lexer.New(`"a\nb\tc\"d"`)
	tok := l.Next()
	require.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "a\nb\tc\"d", tok.Literal)
}
