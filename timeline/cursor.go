package timeline

import "time"

// Cursor walks a timeline one entry at a time. It is not safe for
// concurrent use.
type Cursor struct {
	tl []Entry
	n  int
}

func NewCursor(tl []Entry) *Cursor {
	return &Cursor{tl: tl}
}

// Current will return the entry under the cursor, and false when
// the timeline is empty.
func (c *Cursor) Current() (Entry, bool) {
	if len(c.tl) == 0 {
		return Entry{}, false
	}
	return c.tl[c.n], true
}

// Advance will return the current entry's wait and step to the next
// entry. It returns false without moving when the cursor is already
// on the final entry.
func (c *Cursor) Advance() (time.Duration, bool) {
	if len(c.tl) == 0 {
		return 0, false
	}
	d := c.tl[c.n].Wait()
	if c.n == len(c.tl)-1 {
		return d, false
	}
	c.n++
	return d, true
}

// Reset will move the cursor back to the first entry.
func (c *Cursor) Reset() { c.n = 0 }

// Index will return the position of the cursor in the timeline.
func (c *Cursor) Index() int { return c.n }

// Len will return the number of entries in the timeline.
func (c *Cursor) Len() int { return len(c.tl) }
