// Package drive turns the live gamepad channel state into wheel speed
// commands. Left-stick Y gives throttle, right-stick X gives steering, and
// the two are tank-mixed into per-side speeds. The south button is wired to
// the emergency stop.
package drive

import (
	"context"
	"sync"
	"time"

	"github.com/edaniels/golog"

	"github.com/soar/roverctl/internal/evdev"
	"github.com/soar/roverctl/internal/rover"
)

// DefaultSendRateHz paces outgoing speed commands (~30ms apart).
const DefaultSendRateHz = 33

// Commander is the slice of the rover client the mapper needs.
type Commander interface {
	SpeedInput(left, right int) error
	EmergencyStop() error
}

// Mapper consumes channel-state updates and periodically flushes the mixed
// wheel speeds to the rover. State updates arrive on the input event loop
// goroutine; the send loop runs on its own ticker so a burst of stick events
// does not turn into a burst of serial writes.
type Mapper struct {
	logger golog.Logger
	cmd    Commander
	period time.Duration

	mu        sync.Mutex
	left      int
	right     int
	estop     bool
	lastLeft  int
	lastRight int
	sentOnce  bool
}

func New(cmd Commander, sendRateHz int, logger golog.Logger) *Mapper {
	if sendRateHz <= 0 {
		sendRateHz = DefaultSendRateHz
	}
	return &Mapper{
		logger: logger,
		cmd:    cmd,
		period: time.Second / time.Duration(sendRateHz),
	}
}

// Mix converts throttle and steering percentages into left/right wheel
// speeds on the board's -255..255 scale.
func Mix(throttle, steering int32) (left, right int) {
	left = clampSpeed(int(throttle+steering) * rover.SpeedMax / 100)
	right = clampSpeed(int(throttle-steering) * rover.SpeedMax / 100)
	return left, right
}

func clampSpeed(v int) int {
	if v > rover.SpeedMax {
		return rover.SpeedMax
	}
	if v < rover.SpeedMin {
		return rover.SpeedMin
	}
	return v
}

// HandleState is the event-loop callback. It only records the desired
// speeds; nothing is written to the serial port from here.
func (m *Mapper) HandleState(state map[uint16]int32) {
	throttle := state[evdev.AbsLeftY]
	steering := state[evdev.AbsRightX]
	left, right := Mix(throttle, steering)

	m.mu.Lock()
	defer m.mu.Unlock()

	if state[evdev.BtnSouth] == evdev.KeyPressed {
		m.estop = true
		m.left, m.right = 0, 0
		return
	}
	m.left, m.right = left, right
}

// Run flushes pending speed changes at the configured rate until ctx is
// cancelled, then stops the motors.
func (m *Mapper) Run(ctx context.Context) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := m.cmd.EmergencyStop(); err != nil {
				m.logger.Errorw("stopping motors on shutdown", "error", err)
			}
			return
		case <-ticker.C:
			m.flush()
		}
	}
}

func (m *Mapper) flush() {
	m.mu.Lock()
	left, right, estop := m.left, m.right, m.estop
	m.estop = false
	changed := !m.sentOnce || left != m.lastLeft || right != m.lastRight
	if estop || changed {
		m.lastLeft, m.lastRight = left, right
		m.sentOnce = true
	}
	m.mu.Unlock()

	if estop {
		if err := m.cmd.EmergencyStop(); err != nil {
			m.logger.Errorw("emergency stop failed", "error", err)
		}
		return
	}
	if !changed {
		return
	}
	if err := m.cmd.SpeedInput(left, right); err != nil {
		m.logger.Errorw("speed command failed", "error", err)
	}
}
