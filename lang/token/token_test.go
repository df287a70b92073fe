package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := range names {
		require.NotEmpty(t, tok.String())
	}
	require.Equal(t, "unknown", Token(999).String())
}

func TestKeywords(t *testing.T) {
	for word, tok := range Keywords {
		require.NotEqual(t, IDENT, tok, word)
	}
}

func TestIsBinaryOp(t *testing.T) {
	require.True(t, IsBinaryOp(PLUS))
	require.True(t, IsBinaryOp(AND))
	require.False(t, IsBinaryOp(NOT))
	require.False(t, IsBinaryOp(ASSIGN))
}

func TestIsUnaryOp(t *testing.T) {
	require.True(t, IsUnaryOp(MINUS))
	require.True(t, IsUnaryOp(NOT))
	require.False(t, IsUnaryOp(PLUS))
}
