package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBitsetSetClearTest(t *testing.T) {
	b := NewPriceBitset(256)
	require.False(t, b.Test(5))

	b.Set(5)
	assert.True(t, b.Test(5))

	b.Clear(5)
	assert.False(t, b.Test(5))
}

func TestPriceBitsetFindFirstSet(t *testing.T) {
	b := NewPriceBitset(256)
	assert.Equal(t, 256, b.FindFirstSet(0), "empty bitset scan should miss")

	b.Set(3)
	b.Set(200)
	assert.Equal(t, 3, b.FindFirstSet(0))
	assert.Equal(t, 3, b.FindFirstSet(3))
	assert.Equal(t, 200, b.FindFirstSet(4))
	assert.Equal(t, 256, b.FindFirstSet(201))
}

func TestPriceBitsetFindFirstSetDown(t *testing.T) {
	b := NewPriceBitset(256)
	assert.Equal(t, -1, b.FindFirstSetDown(255), "empty bitset scan should miss")

	b.Set(3)
	b.Set(200)
	assert.Equal(t, 200, b.FindFirstSetDown(255))
	assert.Equal(t, 200, b.FindFirstSetDown(200))
	assert.Equal(t, 3, b.FindFirstSetDown(199))
	assert.Equal(t, -1, b.FindFirstSetDown(2))
}

func TestPriceBitsetWordBoundaries(t *testing.T) {
	b := NewPriceBitset(256)
	b.Set(63)
	b.Set(64)
	assert.Equal(t, 63, b.FindFirstSet(0))
	assert.Equal(t, 64, b.FindFirstSet(64))
	assert.Equal(t, 64, b.FindFirstSetDown(64))
	assert.Equal(t, 63, b.FindFirstSetDown(63))
}

func TestPriceBitsetClearAll(t *testing.T) {
	b := NewPriceBitset(128)
	b.Set(10)
	b.Set(100)
	b.ClearAll()
	assert.False(t, b.Test(10))
	assert.False(t, b.Test(100))
	assert.Equal(t, 128, b.FindFirstSet(0))
}
