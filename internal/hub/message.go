package hub

import (
	"time"

	"github.com/soar/roverctl/internal/rover"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string           `json:"type"` // Message type: "state", "battery"
	Seq       int64            `json:"seq"`  // Sequence number for ordering
	Timestamp int64            `json:"timestamp"`
	Channels  map[uint16]int32 `json:"channels,omitempty"` // Channel id -> current value
	Battery   *BatteryReading  `json:"battery,omitempty"`
}

// BatteryReading is the telemetry view of an INA219 power reading.
type BatteryReading struct {
	Percent          float64 `json:"percent"`
	BusVolts         float64 `json:"busVolts"`
	CurrentMilliamps float64 `json:"currentMilliamps"`
	PowerState       string  `json:"powerState"`
}

// NewStateMessage creates a "state" message carrying the full channel-state
// mapping.
func NewStateMessage(seq int64, channels map[uint16]int32) *WSMessage {
	return &WSMessage{
		Type:      "state",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Channels:  channels,
	}
}

// NewBatteryMessage creates a "battery" message from a power reading.
func NewBatteryMessage(seq int64, info rover.PowerInfo) *WSMessage {
	return &WSMessage{
		Type:      "battery",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Battery: &BatteryReading{
			Percent:          info.BatteryPercent(),
			BusVolts:         info.BusVolts,
			CurrentMilliamps: info.CurrentMilliamps,
			PowerState:       info.PowerState(),
		},
	}
}

// ClientMessage represents an operator command sent from the client to the
// server.
type ClientMessage struct {
	Type string `json:"type"` // "estop" or "oled"
	Line int    `json:"line,omitempty"`
	Text string `json:"text,omitempty"`
}
