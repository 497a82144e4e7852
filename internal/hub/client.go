package hub

import (
	"encoding/json"

	"github.com/edaniels/golog"
	"github.com/gorilla/websocket"
)

// Commander defines the rover operations reachable from a WebSocket client.
type Commander interface {
	EmergencyStop() error
	OLEDSet(line int, text string) error
}

// Client represents a connected WebSocket client.
type Client struct {
	hub    *Hub
	logger golog.Logger
	conn   *websocket.Conn
	send   chan []byte
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn, logger golog.Logger) *Client {
	return &Client{
		hub:    hub,
		logger: logger,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer func() {
		c.conn.Close()
	}()

	for msg := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, msg)
		if err != nil {
			break
		}
	}
}

// ReadPump reads operator commands from the WebSocket and dispatches them to
// the rover.
func (c *Client) ReadPump(cmd Commander) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Errorw("parsing client message", "error", err)
			continue
		}

		switch clientMsg.Type {
		case "estop":
			c.logger.Infow("emergency stop requested over websocket")
			if err := cmd.EmergencyStop(); err != nil {
				c.logger.Errorw("emergency stop failed", "error", err)
			}
		case "oled":
			if err := cmd.OLEDSet(clientMsg.Line, clientMsg.Text); err != nil {
				c.logger.Errorw("oled update failed", "error", err)
			}
		default:
			c.logger.Debugw("ignoring unknown client message", "type", clientMsg.Type)
		}
	}
}
