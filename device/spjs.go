package device

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastercactapus/lzr/spjs"
)

var lastCmdID int64

func nextCmdID() string {
	id := atomic.AddInt64(&lastCmdID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

// SPJSPort drives a controller attached to a Serial Port JSON
// Server. The named port is opened automatically whenever the
// server reports it closed.
type SPJSPort struct {
	cl   *spjs.Client
	port string

	cmds    chan portCommand
	waiting map[string]chan error

	mx    sync.Mutex
	last  State
	state chan State
}

var _ Port = &SPJSPort{}

type portCommand struct {
	spjs.JSON
	wait chan error
}

// NewSPJSPort will return a port for the named serial device on cl.
func NewSPJSPort(cl *spjs.Client, port string) *SPJSPort {
	p := &SPJSPort{
		cl:      cl,
		port:    port,
		cmds:    make(chan portCommand, 1000),
		waiting: make(map[string]chan error, 100),
		state:   make(chan State),
	}
	go p.loop()
	return p
}

// State will return the channel of status reports.
func (p *SPJSPort) State() chan State { return p.state }

// CurrentState will return the last status report seen.
func (p *SPJSPort) CurrentState() State {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.last
}

func (p *SPJSPort) setState(st State) {
	p.mx.Lock()
	p.last = st
	p.mx.Unlock()
	select {
	case p.state <- st:
	default:
	}
}

func (p *SPJSPort) loop() {
	for {
		select {
		case resp := <-p.cl.Messages():
			p.handle(resp)
		case cmd := <-p.cmds:
			p.cl.SendJSON(cmd.JSON)
			if cmd.wait != nil {
				p.waiting[cmd.Data[len(cmd.Data)-1].ID] = cmd.wait
			}
		}
	}
}

func (p *SPJSPort) handle(resp interface{}) {
	switch msg := resp.(type) {
	case *spjs.DataFrame:
		if msg.Port != p.port || msg.Data == "" {
			return
		}
		if msg.Data[0] == '<' {
			stat, err := parseStatus(p.CurrentState(), msg.Data)
			if err != nil {
				log.Println("ERROR: parse status:", err)
				return
			}
			p.setState(*stat)
		}
	case *spjs.CmdStatus:
		switch msg.Cmd {
		case "WipedQueue":
			for key, ch := range p.waiting {
				ch <- errors.New("wiped queue")
				delete(p.waiting, key)
			}
		case "Complete":
			if p.waiting[msg.ID] != nil {
				p.waiting[msg.ID] <- nil
				delete(p.waiting, msg.ID)
			}
		}
	case *spjs.SerialPortList:
		for _, port := range msg.SerialPorts {
			if port.Name != p.port {
				continue
			}
			if !port.IsOpen {
				p.cl.WriteString("open " + p.port + " grbl 115200")
			}
		}
	case *spjs.ErrorMessage:
		log.Println("ERROR: spjs:", msg.Error)
	}
}

// ReadFrom will queue all lines from r on the server in batches of
// 100, returning once the final batch reports complete.
func (p *SPJSPort) ReadFrom(r io.Reader) (n int64, err error) {
	scan := bufio.NewScanner(r)
	var wait chan error
	for {
		var j spjs.JSON
		j.Port = p.port
		for scan.Scan() {
			n += int64(len(scan.Bytes()))
			j.Data = append(j.Data, spjs.Data{
				Data: strings.TrimSpace(scan.Text()) + "\n",
				ID:   nextCmdID(),
			})
			if len(j.Data) == 100 {
				break
			}
		}
		if len(j.Data) == 0 {
			break
		}
		wait = make(chan error, 1)
		p.cmds <- portCommand{JSON: j, wait: wait}
	}
	if err = scan.Err(); err != nil {
		return n, err
	}

	if wait == nil {
		return 0, nil
	}

	return n, <-wait
}

// Write will send p as program lines, returning after execution.
func (p *SPJSPort) Write(b []byte) (int, error) {
	n, err := p.ReadFrom(bytes.NewBuffer(b))
	return int(n), err
}

// WriteByte queues a single-byte line. SPJS has no realtime lane,
// so it rides the normal queue.
func (p *SPJSPort) WriteByte(b byte) error {
	_, err := p.Write([]byte{b, '\n'})
	return err
}
