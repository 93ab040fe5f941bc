package timeline

import (
	"time"

	"github.com/mastercactapus/lzr/coord"
	"github.com/mastercactapus/lzr/job"
)

// MinDT is the smallest wait, in seconds, between consecutive
// entries. It keeps the playback scheduler from being handed
// zero-length steps.
const MinDT = 0.015

// minSpeed floors the mm/s speed so a zero feed never divides by zero.
const minSpeed = 1e-6

// Entry is one playback sample.
type Entry struct {
	// Pos is the head position at this sample.
	Pos coord.Point

	// Draw reports whether the tool is engaged while traveling to
	// this sample from the previous one.
	Draw bool

	// DT is the wait in seconds before the next sample. It is 0 on
	// the final entry.
	DT float64
}

// Wait will return DT as a time.Duration.
func (e Entry) Wait() time.Duration {
	return time.Duration(e.DT * float64(time.Second))
}

// Build will flatten segments into a timeline of playback samples.
// Waits are derived from each move's feed rate and the distance
// between consecutive points, floored at MinDT. The final entry
// always has a zero wait.
func Build(segs []job.Segment) []Entry {
	var tl []Entry
	for _, seg := range segs {
		switch s := seg.(type) {
		case *job.Move:
			speed := s.Feed / 60
			if speed < minSpeed {
				speed = minSpeed
			}
			for i, p := range s.Points {
				dt := MinDT
				if i+1 < len(s.Points) {
					if d := p.Distance(s.Points[i+1]) / speed; d > dt {
						dt = d
					}
				}
				tl = append(tl, Entry{Pos: p, Draw: s.Tool, DT: dt})
			}
		case *job.Pause:
			// A pause holds the previous sample; with nothing to
			// hold it is dropped.
			if len(tl) == 0 {
				continue
			}
			last := tl[len(tl)-1]
			dt := s.Seconds
			if dt < MinDT {
				dt = MinDT
			}
			tl = append(tl, Entry{Pos: last.Pos, Draw: last.Draw, DT: dt})
		}
	}
	if len(tl) > 0 {
		tl[len(tl)-1].DT = 0
	}
	return tl
}

// Duration will return the total playback time of the timeline.
func Duration(tl []Entry) time.Duration {
	var d time.Duration
	for _, e := range tl {
		d += e.Wait()
	}
	return d
}
