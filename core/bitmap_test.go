package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmap128(t *testing.T) {
	var b Bitmap128
	assert.True(t, b.IsEmpty())

	b.Set(1)
	b.Set(64)
	b.Set(65)
	b.Set(128)

	assert.True(t, b.Get(1))
	assert.True(t, b.Get(64))
	assert.True(t, b.Get(65))
	assert.True(t, b.Get(128))
	assert.False(t, b.Get(2))
	assert.False(t, b.IsEmpty())

	b.Clear(64)
	assert.False(t, b.Get(64))
	assert.True(t, b.Get(65))

	// out of range positions are ignored
	b.Set(0)
	b.Set(129)
	assert.False(t, b.Get(0))
	assert.False(t, b.Get(129))
}

func TestBitmap128Roundtrip(t *testing.T) {
	var b Bitmap128
	b.Set(3)
	b.Set(77)
	b.Set(128)

	v, err := b.Value()
	require.Nil(t, err)

	var got Bitmap128
	require.Nil(t, got.Scan(v))
	assert.Equal(t, b, got)

	// empty strings scan to an empty bitmap
	require.Nil(t, got.Scan(""))
	assert.True(t, got.IsEmpty())

	require.Nil(t, got.Scan(nil))
	assert.True(t, got.IsEmpty())
}
