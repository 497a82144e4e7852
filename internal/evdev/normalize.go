package evdev

import "errors"

// Raw value ranges of the Xbox One pad's analog inputs.
const (
	joystickMax = 32767
	triggerMax  = 1023
)

// ErrUnsupportedChannel is returned for axis codes that belong to neither the
// joystick nor the trigger set. The reader skips such events instead of
// storing a made-up value.
var ErrUnsupportedChannel = errors.New("unsupported axis channel")

// Percentage converts a raw absolute-axis reading into a percentage.
//
// Joystick axes map to [-100, 100] with the polarity flipped so that
// stick-forward and stick-left come out positive. Triggers map to [0, 100].
// The division is truncated toward zero before the joystick sign flip;
// flipping first can be off by one. Raw values outside the hardware range are
// not clamped and may yield percentages beyond the nominal bounds.
func Percentage(code uint16, raw int32) (int32, error) {
	switch code {
	case AbsLeftX, AbsLeftY, AbsRightX, AbsRightY:
		return int32(float64(raw)/joystickMax*100) * -1, nil
	case AbsLeftTrigger, AbsRightTrigger:
		return int32(float64(raw) / triggerMax * 100), nil
	default:
		return 0, ErrUnsupportedChannel
	}
}
