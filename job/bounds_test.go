package job

import (
	"testing"

	"github.com/mastercactapus/lzr/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	segs := []Segment{
		NewMove([]coord.Point{{}, {X: 10}}, 600, false, true, 1000),
		NewPause(1),
		NewMove([]coord.Point{{X: 10}, {X: 10, Y: 5}, {X: -2, Y: 5}}, 600, false, true, 1000),
	}

	r, ok := Bounds(segs)
	require.True(t, ok)
	assert.Equal(t, coord.Point{X: -2, Y: 0}, r.Min)
	assert.Equal(t, coord.Point{X: 10, Y: 5}, r.Max)
}

func TestBounds_flat(t *testing.T) {
	// A purely horizontal job gets padded height.
	segs := []Segment{
		NewMove([]coord.Point{{}, {X: 10}}, 600, false, true, 1000),
	}

	r, ok := Bounds(segs)
	require.True(t, ok)
	assert.Equal(t, coord.Point{}, r.Min)
	assert.Equal(t, coord.Point{X: 10, Y: 1}, r.Max)
}

func TestBounds_empty(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	_, ok = Bounds([]Segment{NewPause(1)})
	assert.False(t, ok)
}
