package device

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

// rxBuffer is the controller's serial receive buffer size. Unacked
// bytes in flight never exceed it.
const rxBuffer = 128

// statusInterval is how often the controller is polled for a
// status report.
const statusInterval = 500 * time.Millisecond

// ErrReset is returned from write methods when the controller
// resets before all queued lines have run.
var ErrReset = errors.New("device reset")

// Conn is a direct connection to a grbl-style controller. It counts
// unacknowledged bytes so the controller's receive buffer never
// overflows, and polls for status reports in the background.
type Conn struct {
	rw io.ReadWriter

	ackCh     chan error
	resetCh   chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once

	mx  sync.Mutex
	wMx sync.Mutex

	deviceBuf int
	lineSize  []int

	wroteLines int64
	readLines  int64

	stMx  sync.Mutex
	last  State
	state chan State
}

var _ Port = &Conn{}

// NewConn will start speaking the controller protocol over rw.
func NewConn(rw io.ReadWriter) *Conn {
	c := &Conn{
		rw:      rw,
		ackCh:   make(chan error),
		resetCh: make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		state:   make(chan State),
	}
	go c.readLoop()
	go c.pollStatus()
	return c
}

// Close will abort in-progress writes and close the underlying
// ReadWriter if it implements io.Closer.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closeCh) })
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// State will return the channel of status reports.
func (c *Conn) State() chan State { return c.state }

// CurrentState will return the last status report seen.
func (c *Conn) CurrentState() State {
	c.stMx.Lock()
	defer c.stMx.Unlock()
	return c.last
}

func (c *Conn) setState(st State) {
	c.stMx.Lock()
	c.last = st
	c.stMx.Unlock()
	select {
	case c.state <- st:
	default:
	}
}

func (c *Conn) pollStatus() {
	t := time.NewTicker(statusInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.WriteByte('?')
		case <-c.closeCh:
			return
		}
	}
}

func (c *Conn) readLoop() {
	scan := bufio.NewScanner(c.rw)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		switch {
		case line == "ok":
			c.ack(nil)
		case strings.HasPrefix(line, "error:"):
			c.ack(errors.New(line))
		case strings.HasPrefix(line, "Grbl"):
			// Greeting banner means the controller restarted.
			select {
			case c.resetCh <- struct{}{}:
			default:
			}
		case strings.HasPrefix(line, "<"):
			stat, err := parseStatus(c.CurrentState(), line)
			if err != nil {
				log.Println("ERROR: parse status:", err)
				continue
			}
			c.setState(*stat)
		}
	}
}

func (c *Conn) ack(err error) {
	select {
	case c.ackCh <- err:
	case <-c.closeCh:
	}
}

// next consumes one acknowledgement, updating the buffer accounting.
func (c *Conn) next() error {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	default:
	}

	select {
	case <-c.resetCh:
		c.deviceBuf = 0
		c.lineSize = nil
		c.readLines = c.wroteLines
		return ErrReset
	default:
	}

	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	case <-c.resetCh:
		c.deviceBuf = 0
		c.lineSize = nil
		c.readLines = c.wroteLines
		return ErrReset
	case e := <-c.ackCh:
		c.readLines++
		c.deviceBuf -= c.lineSize[0]
		c.lineSize = c.lineSize[1:]
		return e
	}
}

func (c *Conn) waitForBufferSpace(n int) error {
	for c.deviceBuf+n > rxBuffer {
		if err := c.next(); err != nil {
			return err
		}
	}
	return nil
}

// waitForLine consumes acknowledgements through line id, returning
// the first error seen.
func (c *Conn) waitForLine(id int64) (err error) {
	for c.readLines != id {
		e := c.next()
		if err == nil {
			err = e
		}
	}
	return err
}

// writeLine will block until line fits the controller's buffer and
// has been written in full. It returns the line index.
func (c *Conn) writeLine(line []byte) (int64, error) {
	if err := c.waitForBufferSpace(len(line)); err != nil {
		return 0, err
	}
	c.mx.Lock()
	_, err := c.rw.Write(line)
	c.mx.Unlock()
	if err != nil {
		return 0, err
	}
	c.deviceBuf += len(line)
	c.lineSize = append(c.lineSize, len(line))
	c.wroteLines++
	return c.wroteLines, nil
}

func scanLinesKeepNewline(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, io.ErrUnexpectedEOF
	}
	return 0, nil, nil
}

// ReadFrom will stream newline-terminated lines from r, returning
// once every line has been sent and acknowledged.
func (c *Conn) ReadFrom(r io.Reader) (int64, error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	return c.stream(r)
}

// Write will send p as program lines, returning after execution.
func (c *Conn) Write(p []byte) (int, error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	n, err := c.stream(bytes.NewBuffer(p))
	return int(n), err
}

func (c *Conn) stream(r io.Reader) (n int64, err error) {
	select {
	case <-c.closeCh:
		return 0, io.ErrClosedPipe
	default:
	}

	scan := bufio.NewScanner(r)
	scan.Split(scanLinesKeepNewline)

	lastID := c.wroteLines
	for scan.Scan() {
		lastID, err = c.writeLine(scan.Bytes())
		if err != nil {
			return n, err
		}
		n += int64(len(scan.Bytes()))
	}
	if err = scan.Err(); err != nil {
		return n, err
	}

	return n, c.waitForLine(lastID)
}

// WriteByte will write directly to the device without buffer
// accounting. Use for realtime commands like `?`.
func (c *Conn) WriteByte(p byte) error {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	default:
	}
	c.mx.Lock()
	_, err := c.rw.Write([]byte{p})
	c.mx.Unlock()
	return err
}
