package evdev

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/edaniels/golog"
)

func eventStream(t *testing.T, events ...InputEvent) io.ReadCloser {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range events {
		if err := binary.Write(&buf, binary.LittleEndian, e); err != nil {
			t.Fatalf("encoding event: %v", err)
		}
	}
	return io.NopCloser(&buf)
}

func collectStates(t *testing.T, events ...InputEvent) []map[uint16]int32 {
	t.Helper()
	r := NewReader(eventStream(t, events...), golog.NewTestLogger(t))

	var seen []map[uint16]int32
	err := r.Run(context.Background(), func(state map[uint16]int32) {
		snapshot := make(map[uint16]int32, len(state))
		for code, value := range state {
			snapshot[code] = value
		}
		seen = append(seen, snapshot)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return seen
}

func stateEqual(got, want map[uint16]int32) bool {
	if len(got) != len(want) {
		return false
	}
	for code, value := range want {
		if got[code] != value {
			return false
		}
	}
	return true
}

func TestRunCumulativeState(t *testing.T) {
	seen := collectStates(t,
		InputEvent{Type: EvAbs, Code: AbsLeftTrigger, Value: 1023},
		InputEvent{Type: EvAbs, Code: AbsLeftX, Value: -16383},
	)

	if len(seen) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(seen))
	}
	if want := map[uint16]int32{AbsLeftTrigger: 100, AbsRightTrigger: 0, AbsLeftX: 0}; !stateEqual(seen[0], want) {
		t.Errorf("first callback state = %v, want %v", seen[0], want)
	}
	if want := map[uint16]int32{AbsLeftTrigger: 100, AbsRightTrigger: 0, AbsLeftX: 49}; !stateEqual(seen[1], want) {
		t.Errorf("second callback state = %v, want %v", seen[1], want)
	}
}

func TestRunLastWriteWins(t *testing.T) {
	seen := collectStates(t,
		InputEvent{Type: EvAbs, Code: AbsLeftX, Value: 1000},
		InputEvent{Type: EvAbs, Code: AbsLeftX, Value: 2000},
	)

	if len(seen) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(seen))
	}
	if got := seen[0][AbsLeftX]; got != -3 {
		t.Errorf("intermediate value = %d, want -3", got)
	}
	if got := seen[1][AbsLeftX]; got != -6 {
		t.Errorf("final value = %d, want -6", got)
	}
}

func TestRunIdempotentEvents(t *testing.T) {
	seen := collectStates(t,
		InputEvent{Type: EvAbs, Code: AbsRightTrigger, Value: 511},
		InputEvent{Type: EvAbs, Code: AbsRightTrigger, Value: 511},
	)

	if len(seen) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(seen))
	}
	if !stateEqual(seen[0], seen[1]) {
		t.Errorf("repeated event produced different payloads: %v vs %v", seen[0], seen[1])
	}
	if got := seen[1][AbsRightTrigger]; got != 49 {
		t.Errorf("stored value = %d, want 49", got)
	}
}

func TestRunButtonPassthrough(t *testing.T) {
	seen := collectStates(t,
		InputEvent{Type: EvKey, Code: BtnSouth, Value: KeyPressed},
		InputEvent{Type: EvKey, Code: BtnSouth, Value: KeyReleased},
	)

	if len(seen) != 2 {
		t.Fatalf("callback invoked %d times, want 2", len(seen))
	}
	if got := seen[0][BtnSouth]; got != 1 {
		t.Errorf("pressed value = %d, want raw 1", got)
	}
	if got := seen[1][BtnSouth]; got != 0 {
		t.Errorf("released value = %d, want raw 0", got)
	}
}

func TestRunIgnoresOtherEventKinds(t *testing.T) {
	seen := collectStates(t,
		InputEvent{Type: EvSyn},
		InputEvent{Type: EvMsc, Code: 4, Value: 100},
		InputEvent{Type: EvKey, Code: BtnStart, Value: KeyPressed},
		InputEvent{Type: EvSyn},
	)

	if len(seen) != 1 {
		t.Fatalf("callback invoked %d times, want 1", len(seen))
	}
}

func TestRunSkipsUnsupportedAxis(t *testing.T) {
	const hatX uint16 = 0x10
	seen := collectStates(t,
		InputEvent{Type: EvAbs, Code: hatX, Value: 1},
		InputEvent{Type: EvAbs, Code: AbsLeftTrigger, Value: 1023},
	)

	if len(seen) != 1 {
		t.Fatalf("callback invoked %d times, want 1", len(seen))
	}
	if _, ok := seen[0][hatX]; ok {
		t.Errorf("unsupported channel %#x stored in state mapping", hatX)
	}
}

func TestRunTerminatesOnStreamClose(t *testing.T) {
	r := NewReader(eventStream(t,
		InputEvent{Type: EvAbs, Code: AbsLeftTrigger, Value: 511},
	), golog.NewTestLogger(t))

	calls := 0
	err := r.Run(context.Background(), func(map[uint16]int32) { calls++ })
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("callback invoked %d times after stream close, want 1", calls)
	}
}

func TestRunCancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	r := NewReader(pr, golog.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, nil)
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewReader(eventStream(t), golog.NewTestLogger(t))

	snap := r.Snapshot()
	snap[AbsLeftTrigger] = 42

	if got := r.Snapshot()[AbsLeftTrigger]; got != 0 {
		t.Errorf("mutating snapshot leaked into reader state: %d", got)
	}
}
