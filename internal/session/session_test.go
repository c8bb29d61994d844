package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AttachAndLookup(t *testing.T) {
	sess := New()
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.CreatedAt.IsZero())

	sess.Attach(&SymbolResult{Symbol: "AAPL"})
	sess.Attach(&SymbolResult{Symbol: "MSFT"})

	results := sess.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "AAPL", results[0].Symbol)
	assert.Equal(t, "MSFT", results[1].Symbol)

	result, ok := sess.Result("MSFT")
	require.True(t, ok)
	assert.Equal(t, "MSFT", result.Symbol)

	_, ok = sess.Result("ZZZZ")
	assert.False(t, ok)
}

func TestSession_DistinctIDs(t *testing.T) {
	// Each run owns a fresh session; IDs never collide across runs.
	assert.NotEqual(t, New().ID, New().ID)
}

func TestSymbolResult_Warn(t *testing.T) {
	result := &SymbolResult{Symbol: "AAPL"}
	result.Warn("no data available")
	result.Warn("forecast unavailable")

	assert.Equal(t, []string{"no data available", "forecast unavailable"}, result.Warnings)
}
