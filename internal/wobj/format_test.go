package wobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSize(t *testing.T) {
	cases := []struct {
		vertices int
		want     int
	}{
		{0, 1},
		{254, 1},
		{255, 2},
		{256, 2},
		{65534, 2},
		{65535, 4},
		{65536, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IndexSize(c.vertices), "vertices=%d", c.vertices)
	}
}

func TestBytesPerVertex(t *testing.T) {
	assert.Equal(t, 32, Format{}.BytesPerVertex())
	assert.Equal(t, 64, Format{Skinned: true}.BytesPerVertex())
}

func TestBounds(t *testing.T) {
	b := NewBounds()
	assert.False(t, b.Valid())

	b.Add(1, -2, 3)
	b.Add(-1, 4, 0.5)
	assert.True(t, b.Valid())
	assert.Equal(t, [3]float64{-1, -2, 0.5}, b.Min)
	assert.Equal(t, [3]float64{1, 4, 3}, b.Max)
}
