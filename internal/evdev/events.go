package evdev

// Event type codes from linux/input-event-codes.h. Only EV_KEY and EV_ABS
// carry controller state; everything else in the stream is skipped.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03
	EvMsc uint16 = 0x04
)

// Absolute axis codes as reported by an Xbox One pad (M1142084-007).
const (
	AbsLeftX        uint16 = 0x00 // ABS_X
	AbsLeftY        uint16 = 0x01 // ABS_Y
	AbsLeftTrigger  uint16 = 0x02 // ABS_Z
	AbsRightX       uint16 = 0x03 // ABS_RX
	AbsRightY       uint16 = 0x04 // ABS_RY
	AbsRightTrigger uint16 = 0x05 // ABS_RZ
)

// Gamepad button codes.
const (
	BtnSouth uint16 = 0x130
	BtnEast  uint16 = 0x131
	BtnNorth uint16 = 0x133
	BtnWest  uint16 = 0x134
	BtnLB    uint16 = 0x136
	BtnRB    uint16 = 0x137
	BtnStart uint16 = 0x13b
)

// Button press states carried in the value field of an EV_KEY event.
const (
	KeyReleased int32 = 0
	KeyPressed  int32 = 1
	KeyRepeated int32 = 2
)

// InputEvent mirrors the kernel's struct input_event on 64-bit platforms:
// a 16-byte timeval followed by type, code and value.
type InputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}
