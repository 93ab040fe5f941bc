// Package spjs is a minimal client for Serial Port JSON Server,
// covering the commands and push messages needed to stream programs
// to a controller behind it.
package spjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Client maintains a websocket connection to an SPJS instance,
// reconnecting as needed. Queued writes survive a reconnect.
type Client struct {
	url string

	outgoing chan message
	incoming chan interface{}
}

type message struct {
	done    chan struct{}
	payload []byte
}

// DataFrame is raw data received from a serial port.
type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}

// CmdStatus reports queueing progress for a sent command.
type CmdStatus struct {
	Cmd        string
	QueueCount int `json:"QCnt"`
	Type       []string
	Data       []string `json:"D"`
	ID         string   `json:"Id"`
}

// ErrorMessage is an error pushed by the server.
type ErrorMessage struct {
	Error string
}

// SerialPortList is the response to a `list` command.
type SerialPortList struct {
	SerialPorts []SerialPort
}

// SerialPort describes one port known to the server.
type SerialPort struct {
	Name                      string
	Friendly                  string
	SerialNumber              string
	DeviceClass               string
	IsOpen                    bool
	IsPrimary                 bool
	RelatedNames              []string
	Baud                      int
	BufferAlgorithm           string
	AvailableBufferAlgorithms []string
	Ver                       float64
	USBVID                    string
	USBPID                    string
	FeedRateOverride          float64
}

// JSON is the payload of a `sendjson` command.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}

// Data is one queued line with its tracking ID.
type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

// New will return a Client connecting to url in the background.
func New(url string) *Client {
	cl := &Client{
		url:      url,
		outgoing: make(chan message, 1000),
		incoming: make(chan interface{}, 1000),
	}
	go cl.loop()
	return cl
}

// Messages will return the channel of parsed push messages. Values
// are pointers to DataFrame, CmdStatus, SerialPortList, or
// ErrorMessage.
func (cl *Client) Messages() chan interface{} {
	return cl.incoming
}

func parseMessage(data []byte, fields map[string]json.RawMessage) (val interface{}, err error) {
	check := func(fieldName string, v interface{}) bool {
		if fields[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return
	}
	if check("SerialPorts", &SerialPortList{}) {
		return
	}
	if check("Type", &CmdStatus{}) {
		return
	}
	if check("D", &DataFrame{}) {
		return
	}

	return nil, errors.New("unknown message: " + string(data))
}

func (cl *Client) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Println("ERROR: read:", err)
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		var fields map[string]json.RawMessage
		err = json.Unmarshal(data, &fields)
		if err != nil {
			log.Println("ERROR: read:", err)
			continue
		}
		val, err := parseMessage(data, fields)
		if err != nil {
			log.Println("ERROR: parse:", err)
			continue
		}
		cl.incoming <- val
	}
}

func (cl *Client) loop() {
	var nextUp message

reconnect:
	for {
		log.Println("Connecting to", cl.url)
		ws, _, err := websocket.DefaultDialer.Dial(cl.url, nil)
		if err != nil {
			log.Println("ERROR: connect:", err)
			time.Sleep(3 * time.Second)
			continue
		}
		log.Println("Connected.")
		ch := make(chan struct{})
		go cl.readLoop(ws, ch)
		go cl.WriteString("list") // refresh list on reconnect

		for {
			if nextUp.done != nil {
				err = ws.WriteMessage(websocket.TextMessage, nextUp.payload)
				if err != nil {
					log.Println("ERROR: send:", err)
					continue reconnect
				}
				close(nextUp.done)
				nextUp.done = nil
			}

			select {
			case <-ch:
				continue reconnect
			case nextUp = <-cl.outgoing:
			}
		}
	}
}

// SendJSON will queue v as a `sendjson` command and block until it
// has been written to the server.
func (cl *Client) SendJSON(v JSON) {
	data, err := json.Marshal(v)
	if err != nil {
		// shouldn't happen since we control everything that's sent out
		log.Panicln("ERROR: sendjson (marshal):", err)
		return
	}

	ch := make(chan struct{})
	cl.outgoing <- message{done: ch, payload: append([]byte("sendjson "), data...)}
	<-ch
}

// WriteString will queue a raw command line and block until it has
// been written to the server.
func (cl *Client) WriteString(data string) {
	ch := make(chan struct{})
	cl.outgoing <- message{done: ch, payload: []byte(data)}
	<-ch
}
