package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEmpty(t *testing.T) {
	var l Label
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("high"))
	assert.Equal(t, "{}", l.String())
	assert.True(t, l.Subset(NewLabel("high")))
}

func TestLabelUnion(t *testing.T) {
	a := NewLabel("high")
	b := NewLabel("pii")
	u := a.Union(b)
	require.True(t, u.Contains("high"))
	require.True(t, u.Contains("pii"))
	assert.Equal(t, 2, u.Len())

	// originals untouched
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestLabelSubsetAndEqual(t *testing.T) {
	a := NewLabel("high")
	b := NewLabel("high", "pii")
	assert.True(t, a.Subset(b))
	assert.False(t, b.Subset(a))
	assert.True(t, a.Equal(NewLabel("high")))
	assert.False(t, a.Equal(b))
}

func TestLabelTagsSorted(t *testing.T) {
	l := NewLabel("zeta", "alpha", "mid")
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, l.Tags())
	assert.Equal(t, `{"alpha","mid","zeta"}`, l.String())
}
