package evdev

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"sync"

	"github.com/edaniels/golog"
)

// StateFunc receives the full channel-state mapping after every processed
// button or axis event. The map is shared with the reader and must be treated
// as read-only; it is only valid for the duration of the call.
type StateFunc func(state map[uint16]int32)

// Reader drains input events from a single device and maintains the
// last-observed value per channel: normalized percentages for axes, raw press
// states for buttons.
//
// The mapping is seeded once when Run starts and lives until the loop
// terminates. It is mutated only by the Run goroutine; Snapshot provides a
// copy for other goroutines.
type Reader struct {
	logger golog.Logger
	src    io.ReadCloser
	name   string

	mu    sync.Mutex
	state map[uint16]int32

	closeOnce sync.Once
}

// Open opens the input device at path, or the first enumerated event device
// if path is empty.
func Open(path string, logger golog.Logger) (*Reader, error) {
	f, err := openDevice(path)
	if err != nil {
		return nil, err
	}

	r := NewReader(f, logger)
	r.name = deviceName(f)
	logger.Infow("input device opened", "path", f.Name(), "name", r.name)
	return r, nil
}

// NewReader wraps an arbitrary event source. The source must deliver
// little-endian InputEvent records.
func NewReader(src io.ReadCloser, logger golog.Logger) *Reader {
	return &Reader{
		logger: logger,
		src:    src,
		state:  seedState(),
	}
}

func seedState() map[uint16]int32 {
	return map[uint16]int32{
		AbsLeftTrigger:  0,
		AbsRightTrigger: 0,
		AbsLeftX:        0,
	}
}

// Name returns the device's reported name, if known.
func (r *Reader) Name() string {
	return r.name
}

// Snapshot returns a copy of the current channel-state mapping. Safe to call
// from any goroutine.
func (r *Reader) Snapshot() map[uint16]int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uint16]int32, len(r.state))
	for code, value := range r.state {
		out[code] = value
	}
	return out
}

// Run blocks reading events until the source closes or ctx is cancelled.
// Events are processed strictly in delivery order; fn is invoked exactly once
// per button or axis event with the cumulative state. A closed source is the
// definitive end of the session: Run returns nil and the device handle is
// released. The handle must not be reused afterwards.
func (r *Reader) Run(ctx context.Context, fn StateFunc) error {
	// Unblock the pending read when the context goes away.
	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	defer stop()
	defer func() { _ = r.Close() }()

	for {
		var e InputEvent
		if err := binary.Read(r.src, binary.LittleEndian, &e); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, fs.ErrClosed) {
				r.logger.Debug("event stream closed")
				return nil
			}
			return err
		}

		switch e.Type {
		case EvKey:
			// Button states pass through unnormalized.
			r.mu.Lock()
			r.state[e.Code] = e.Value
			r.mu.Unlock()

		case EvAbs:
			pct, err := Percentage(e.Code, e.Value)
			if err != nil {
				r.logger.Debugw("skipping axis event", "code", e.Code, "error", err)
				continue
			}
			r.mu.Lock()
			r.state[e.Code] = pct
			r.mu.Unlock()

		default:
			continue
		}

		if fn != nil {
			fn(r.state)
		}
	}
}

// Close releases the underlying device handle. It is safe to call more than
// once and unblocks a Run loop waiting on the next event.
func (r *Reader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.src.Close()
	})
	return err
}
