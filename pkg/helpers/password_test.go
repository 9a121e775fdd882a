package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("string")
	require.NoError(t, err)
	assert.NotEqual(t, "string", hash)
	assert.True(t, CompareHashAndPassword(hash, "string"))
	assert.False(t, CompareHashAndPassword(hash, "other"))
}

func TestHashesDiffer(t *testing.T) {
	a, err := HashPassword("string")
	require.NoError(t, err)
	b, err := HashPassword("string")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
