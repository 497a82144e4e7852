package evdev

import (
	"errors"
	"testing"
)

func TestPercentageJoystick(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		raw  int32
		want int32
	}{
		{"zero", AbsLeftX, 0, 0},
		{"half forward", AbsLeftX, 16383, -49},
		{"half back", AbsLeftX, -16383, 49},
		{"full forward", AbsLeftY, 32767, -100},
		{"full back", AbsLeftY, -32767, 100},
		{"right stick x", AbsRightX, 16383, -49},
		{"right stick y", AbsRightY, -32767, 100},
		{"small deflection truncates to zero", AbsLeftX, 163, 0},
		{"truncate before sign flip", AbsLeftX, 327, 0},
		{"one percent", AbsLeftX, 328, -1},
		{"beyond hardware range not clamped", AbsLeftX, 65534, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentage(tt.code, tt.raw)
			if err != nil {
				t.Fatalf("Percentage(%d, %d) returned error: %v", tt.code, tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.code, tt.raw, got, tt.want)
			}
		})
	}
}

func TestPercentageTrigger(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		raw  int32
		want int32
	}{
		{"released", AbsLeftTrigger, 0, 0},
		{"half pull", AbsLeftTrigger, 511, 49},
		{"full pull", AbsLeftTrigger, 1023, 100},
		{"right trigger", AbsRightTrigger, 1023, 100},
		{"no sign flip on triggers", AbsRightTrigger, 512, 50},
		{"beyond hardware range not clamped", AbsLeftTrigger, 2046, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentage(tt.code, tt.raw)
			if err != nil {
				t.Fatalf("Percentage(%d, %d) returned error: %v", tt.code, tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.code, tt.raw, got, tt.want)
			}
		})
	}
}

func TestPercentageUnsupportedChannel(t *testing.T) {
	for _, code := range []uint16{0x06, 0x10, 0x11, 0xff} {
		if _, err := Percentage(code, 100); !errors.Is(err, ErrUnsupportedChannel) {
			t.Errorf("Percentage(%#x, 100) error = %v, want ErrUnsupportedChannel", code, err)
		}
	}
}
