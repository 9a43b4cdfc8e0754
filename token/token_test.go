package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollow-vm/vclvm/token"
)

func TestKeyWordsCoverAcceptedAliases(t *testing.T) {
	for _, spelling := range []string{"elif", "elsif", "elseif"} {
		tt, ok := token.KeyWords[spelling]
		assert.True(t, ok, "expected %q to be a recognized keyword", spelling)
		assert.Equal(t, token.ELSEIF, tt)
	}
}

func TestNewUsesLexemeTable(t *testing.T) {
	tok := token.New(token.ADD_ASSIGN, 3, 7)
	assert.Equal(t, "+=", tok.Lexeme)
	assert.Equal(t, int32(3), tok.Line)
	assert.Equal(t, "3:7", tok.Position())
}

func TestNewLiteralKeepsSuppliedLexeme(t *testing.T) {
	tok := token.NewLiteral(token.INT, int32(42), "42", 1, 1)
	assert.Equal(t, int32(42), tok.Literal)
	assert.Equal(t, "42", tok.Lexeme)
}
