// Package rover talks to a Waveshare Wave Rover driver board over a serial
// link. Commands are single JSON objects tagged with an integer "T" field;
// some elicit a JSON reply read back from the same stream after a short
// delay. See https://www.waveshare.com/wiki/WAVE_ROVER for the catalog.
package rover

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"go.bug.st/serial"
)

const (
	// DefaultPort is where the driver board usually shows up on a Pi.
	DefaultPort = "/dev/ttyUSB0"
	// DefaultBaudRate matches the board firmware's UART configuration.
	DefaultBaudRate = 1000000

	readTimeout       = 100 * time.Millisecond
	defaultReplyDelay = 50 * time.Millisecond
)

// ErrNoReply is returned when a command that expects a reply reads nothing
// back before the timeout.
var ErrNoReply = errors.New("no reply from rover")

// port is the slice of serial.Port the client needs; tests substitute an
// in-memory implementation.
type port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Client owns a serial connection to the driver board. Methods are safe for
// concurrent use; command/reply exchanges are serialized on the port.
type Client struct {
	logger     golog.Logger
	replyDelay time.Duration

	mu   sync.Mutex
	port port
}

// Open connects to the driver board on the given serial port.
func Open(portName string, baudRate int, logger golog.Logger) (*Client, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("setting read timeout: %w", err)
	}

	logger.Infow("rover connected", "port", portName, "baud", baudRate)
	return newClient(p, logger), nil
}

func newClient(p port, logger golog.Logger) *Client {
	return &Client{
		logger:     logger,
		replyDelay: defaultReplyDelay,
		port:       p,
	}
}

// Close releases the serial port.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}

// send writes a command and drains whatever acknowledgement the board prints,
// logging it for debugging.
func (c *Client) send(cmd any) error {
	reply, err := c.exchange(cmd)
	if err != nil {
		return err
	}
	if len(reply) > 0 {
		c.logger.Debugw("command acknowledged", "reply", string(reply))
	}
	return nil
}

// query writes a command and unmarshals the board's JSON reply into out.
func (c *Client) query(cmd, out any) error {
	reply, err := c.exchange(cmd)
	if err != nil {
		return err
	}
	if len(reply) == 0 {
		return ErrNoReply
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("decoding reply %q: %w", reply, err)
	}
	return nil
}

func (c *Client) exchange(cmd any) ([]byte, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debugw("sending command", "json", string(payload))
	if _, err := c.port.Write(payload); err != nil {
		return nil, fmt.Errorf("writing command: %w", err)
	}

	// Give the board time to respond before reading.
	time.Sleep(c.replyDelay)

	buf := make([]byte, 1024)
	n, err := c.port.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading reply: %w", err)
	}
	return trimReply(buf[:n]), nil
}

func trimReply(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && (isSpace(b[end-1]) || b[end-1] == 0) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
