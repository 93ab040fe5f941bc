package device

import "github.com/tarm/serial"

// DialSerial will open the named serial port and return a Conn
// speaking the controller protocol over it.
func DialSerial(name string, baud int) (*Conn, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	return NewConn(port), nil
}
