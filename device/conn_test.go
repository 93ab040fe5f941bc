package device

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mastercactapus/lzr/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readWriter struct {
	io.Reader
	io.Writer
}

// fakeController wires a Conn to in-memory pipes and exposes the
// device side: lines the Conn wrote, and a writer for responses.
type fakeController struct {
	conn  *Conn
	lines chan string
	resp  *io.PipeWriter
}

func newFakeController(t *testing.T) *fakeController {
	t.Helper()
	devR, connW := io.Pipe()
	connR, devW := io.Pipe()
	t.Cleanup(func() {
		connW.Close()
		devW.Close()
	})

	f := &fakeController{
		conn:  NewConn(readWriter{connR, connW}),
		lines: make(chan string),
		resp:  devW,
	}
	t.Cleanup(func() { f.conn.Close() })

	go func() {
		scan := bufio.NewScanner(devR)
		for scan.Scan() {
			// Drop realtime status polls glued to the line.
			s := strings.TrimLeft(strings.TrimSpace(scan.Text()), "?")
			if s == "" {
				continue
			}
			f.lines <- s
		}
	}()
	return f
}

func (f *fakeController) recv(t *testing.T) string {
	t.Helper()
	select {
	case s := <-f.lines:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for line")
	}
	panic("unreachable")
}

func (f *fakeController) silent(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case s := <-f.lines:
		t.Fatalf("line sent past window: %q", s)
	case <-time.After(d):
	}
}

func (f *fakeController) send(t *testing.T, s string) {
	t.Helper()
	_, err := io.WriteString(f.resp, s)
	require.NoError(t, err)
}

func TestConn_flowControl(t *testing.T) {
	f := newFakeController(t)

	// 8 bytes per line; exactly 16 fit the 128-byte window.
	const line = "G1 X0.1\n"
	prog := strings.Repeat(line, 25)

	done := make(chan error, 1)
	go func() {
		_, err := f.conn.ReadFrom(strings.NewReader(prog))
		done <- err
	}()

	for i := 0; i < 16; i++ {
		assert.Equal(t, "G1 X0.1", f.recv(t))
	}

	// The 17th line must wait for an acknowledgement.
	f.silent(t, 50*time.Millisecond)

	f.send(t, "ok\n")
	assert.Equal(t, "G1 X0.1", f.recv(t))

	go func() {
		for i := 0; i < 24; i++ {
			io.WriteString(f.resp, "ok\n")
		}
	}()
	for i := 0; i < 8; i++ {
		assert.Equal(t, "G1 X0.1", f.recv(t))
	}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream never completed")
	}
}

func TestConn_errorAck(t *testing.T) {
	f := newFakeController(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.conn.Write([]byte("G1 X9999\n"))
		done <- err
	}()

	assert.Equal(t, "G1 X9999", f.recv(t))
	f.send(t, "error:20\n")

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Equal(t, "error:20", err.Error())
	case <-time.After(time.Second):
		t.Fatal("write never returned")
	}
}

func TestConn_reset(t *testing.T) {
	f := newFakeController(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.conn.Write([]byte("G1 X1\n"))
		done <- err
	}()

	assert.Equal(t, "G1 X1", f.recv(t))
	f.send(t, "Grbl 1.1f ['$' for help]\n")

	select {
	case err := <-done:
		assert.Equal(t, ErrReset, err)
	case <-time.After(time.Second):
		t.Fatal("write never returned")
	}
}

func TestConn_status(t *testing.T) {
	f := newFakeController(t)
	f.send(t, "<Idle|MPos:1.000,2.000,0.000|FS:0,0>\n")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if f.conn.CurrentState().Status != "" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, State{Status: "Idle", Pos: coord.Point{X: 1, Y: 2}}, f.conn.CurrentState())
}

func TestConn_closed(t *testing.T) {
	f := newFakeController(t)
	require.NoError(t, f.conn.Close())

	_, err := f.conn.ReadFrom(strings.NewReader("G1 X1\n"))
	assert.Equal(t, io.ErrClosedPipe, err)

	assert.Equal(t, io.ErrClosedPipe, f.conn.WriteByte('?'))
}
