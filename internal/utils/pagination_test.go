package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageLinks(t *testing.T) {
	base := "http://localhost:8080/api/v1/products"

	next, previous := PageLinks(base, 1, 12)
	require.NotNil(t, next)
	assert.Equal(t, base+"?page=2", *next)
	assert.Nil(t, previous)

	next, previous = PageLinks(base, 2, 12)
	require.NotNil(t, next)
	assert.Equal(t, base+"?page=3", *next)
	require.NotNil(t, previous)
	assert.Equal(t, base+"?page=1", *previous)

	next, previous = PageLinks(base, 3, 12)
	assert.Nil(t, next)
	require.NotNil(t, previous)
	assert.Equal(t, base+"?page=2", *previous)

	// Exactly one page.
	next, previous = PageLinks(base, 1, PageSize)
	assert.Nil(t, next)
	assert.Nil(t, previous)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, PageSize, Offset(2))
	assert.Equal(t, 4*PageSize, Offset(5))
}
