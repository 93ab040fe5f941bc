package player

import (
	"sync"
	"time"

	"github.com/mastercactapus/lzr/timeline"
)

const (
	cmdPlay = iota
	cmdStop
	cmdRestart
)

// Player paces a timeline in real time, emitting each entry on its
// output channel and waiting the entry's DT before the next one.
type Player struct {
	cur *timeline.Cursor
	out chan timeline.Entry
	ctl chan int

	closed    chan struct{}
	closeOnce sync.Once
}

// New will return a stopped Player positioned at the start of tl.
func New(tl []timeline.Entry) *Player {
	p := &Player{
		cur:    timeline.NewCursor(tl),
		out:    make(chan timeline.Entry, 64),
		ctl:    make(chan int),
		closed: make(chan struct{}),
	}
	go p.loop()
	return p
}

// Entries will return the output channel. It is closed after Close.
// Consumers must drain it or playback will stall once the buffer
// fills.
func (p *Player) Entries() <-chan timeline.Entry { return p.out }

// Play will start or resume playback from the current position.
func (p *Player) Play() { p.control(cmdPlay) }

// Stop will pause playback, keeping the current position.
func (p *Player) Stop() { p.control(cmdStop) }

// Restart will rewind to the first entry and start playing.
func (p *Player) Restart() { p.control(cmdRestart) }

// Close will shut down the player and close the output channel.
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

func (p *Player) control(cmd int) {
	select {
	case p.ctl <- cmd:
	case <-p.closed:
	}
}

func (p *Player) send(e timeline.Entry) {
	select {
	case p.out <- e:
	case <-p.closed:
	}
}

func (p *Player) loop() {
	defer close(p.out)

	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}
	resched := func(d time.Duration) {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
	}

	var playing bool
	step := func() {
		e, ok := p.cur.Current()
		if !ok {
			playing = false
			return
		}
		p.send(e)
		d, more := p.cur.Advance()
		if !more {
			playing = false
			return
		}
		resched(d)
	}

	for {
		select {
		case <-p.closed:
			return
		case cmd := <-p.ctl:
			switch cmd {
			case cmdPlay:
				if playing {
					continue
				}
				playing = true
				resched(0)
			case cmdStop:
				playing = false
			case cmdRestart:
				p.cur.Reset()
				playing = true
				resched(0)
			}
		case <-timer.C:
			if !playing {
				continue
			}
			step()
		}
	}
}
