package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/edaniels/golog"

	"github.com/soar/roverctl/internal/rover"
)

const fullSyncInterval = 5 * time.Second

// Broadcaster fans channel-state snapshots and battery readings out to the
// hub's clients as sequenced JSON messages.
type Broadcaster struct {
	hub     *Hub
	logger  golog.Logger
	states  <-chan map[uint16]int32
	battery <-chan rover.PowerInfo

	mu        sync.Mutex
	lastState map[uint16]int32
	seq       int64
}

func NewBroadcaster(h *Hub, states <-chan map[uint16]int32, battery <-chan rover.PowerInfo, logger golog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		logger:  logger,
		states:  states,
		battery: battery,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine. It returns
// when the state channel closes.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-b.states:
			if !ok {
				return
			}
			b.mu.Lock()
			b.lastState = state
			b.seq++
			seq := b.seq
			b.mu.Unlock()
			b.send(NewStateMessage(seq, state))

		case info, ok := <-b.battery:
			if !ok {
				b.battery = nil
				continue
			}
			b.mu.Lock()
			b.seq++
			seq := b.seq
			b.mu.Unlock()
			b.send(NewBatteryMessage(seq, info))

		case <-ticker.C:
			// Periodic resync for clients that missed updates.
			b.mu.Lock()
			state := b.lastState
			b.seq++
			seq := b.seq
			b.mu.Unlock()
			if state != nil {
				b.send(NewStateMessage(seq, state))
			}
		}
	}
}

// SendInitialState sends the most recent full state to a newly connected
// client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	state := b.lastState
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	if state == nil {
		return
	}
	data, err := json.Marshal(NewStateMessage(seq, state))
	if err != nil {
		b.logger.Errorw("marshaling initial state", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) send(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Errorw("marshaling message", "error", err, "type", msg.Type)
		return
	}
	b.hub.Broadcast(data)
}
