package timeline

import (
	"testing"
	"time"

	"github.com/mastercactapus/lzr/coord"
	"github.com/mastercactapus/lzr/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	// 300 mm/min is 5 mm/s, so the 1mm samples are 200ms apart.
	mv := job.NewMove(job.Line(coord.Point{}, coord.Point{X: 2}), 300, false, true, 1000)
	tl := Build([]job.Segment{mv})
	require.Len(t, tl, 3)

	c := NewCursor(tl)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 0, c.Index())

	e, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, tl[0], e)

	d, more := c.Advance()
	assert.True(t, more)
	assert.Equal(t, 200*time.Millisecond, d)
	assert.Equal(t, 1, c.Index())

	d, more = c.Advance()
	assert.True(t, more)
	assert.Equal(t, 200*time.Millisecond, d)

	// The cursor parks on the final entry.
	d, more = c.Advance()
	assert.False(t, more)
	assert.Equal(t, time.Duration(0), d)
	assert.Equal(t, 2, c.Index())

	e, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, tl[2], e)

	c.Reset()
	assert.Equal(t, 0, c.Index())
	e, _ = c.Current()
	assert.Equal(t, tl[0], e)
}

func TestCursor_empty(t *testing.T) {
	c := NewCursor(nil)
	assert.Equal(t, 0, c.Len())

	_, ok := c.Current()
	assert.False(t, ok)

	d, more := c.Advance()
	assert.False(t, more)
	assert.Equal(t, time.Duration(0), d)
}
