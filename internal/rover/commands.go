package rover

import "encoding/json"

// Motor speed limits accepted by the speed command.
const (
	SpeedMin = -255
	SpeedMax = 255
)

const oledLineWidth = 22

type emptyCommand struct {
	T int `json:"T"`
}

// EmergencyStop halts both motors immediately.
func (c *Client) EmergencyStop() error {
	return c.send(emptyCommand{T: 0})
}

type speedCommand struct {
	T int `json:"T"`
	L int `json:"L"`
	R int `json:"R"`
}

// SpeedInput sets the left and right wheel speeds, each -255..255.
func (c *Client) SpeedInput(left, right int) error {
	return c.send(speedCommand{T: 1, L: left, R: right})
}

type pidCommand struct {
	T int `json:"T"`
	P int `json:"P"`
	I int `json:"I"`
}

// PIDSet configures closed-loop gains. Only meaningful on chassis with speed
// feedback; the Wave Rover itself ignores it.
func (c *Client) PIDSet(proportional, integral int) error {
	return c.send(pidCommand{T: 2, P: proportional, I: integral})
}

type oledCommand struct {
	T       int    `json:"T"`
	LineNum int    `json:"lineNum"`
	Text    string `json:"Text"`
}

// OLEDSet writes text to one of the four display lines. Text longer than the
// 22-character line width is cut off.
func (c *Client) OLEDSet(line int, text string) error {
	if len(text) > oledLineWidth {
		text = text[:oledLineWidth]
	}
	return c.send(oledCommand{T: 3, LineNum: line, Text: text})
}

// OLEDClear blanks all four display lines.
func (c *Client) OLEDClear() error {
	for line := 0; line < 4; line++ {
		if err := c.send(oledCommand{T: 3, LineNum: line}); err != nil {
			return err
		}
	}
	return nil
}

// OLEDDefault restores the board's built-in status screen.
func (c *Client) OLEDDefault() error {
	return c.send(emptyCommand{T: -3})
}

type pwmServoCommand struct {
	T        int `json:"T"`
	Position int `json:"pos"`
	Speed    int `json:"spd"`
}

// PWMServoControl moves the PWM servo to a position at the given speed.
func (c *Client) PWMServoControl(position, speed int) error {
	return c.send(pwmServoCommand{T: 40, Position: position, Speed: speed})
}

// PWMServoMid centers the PWM servo at its 90° position.
func (c *Client) PWMServoMid() error {
	return c.send(emptyCommand{T: -4})
}

type busServoCommand struct {
	T            int `json:"T"`
	ID           int `json:"id"`
	Position     int `json:"pos"`
	Speed        int `json:"spd"`
	Acceleration int `json:"acc"`
}

// BusServoControl drives a serial bus servo (e.g. ST3215). Position is
// 0..4095 in angle mode, speed in steps/second (0 = max), acceleration
// 0..254 (0 = max).
func (c *Client) BusServoControl(servoID, position, speed, acceleration int) error {
	return c.send(busServoCommand{
		T:            50,
		ID:           servoID,
		Position:     position,
		Speed:        speed,
		Acceleration: acceleration,
	})
}

type busServoIDCommand struct {
	T  int `json:"T"`
	ID int `json:"id"`
}

// BusServoMid centers the bus servo at its 90° position.
func (c *Client) BusServoMid(servoID int) error {
	return c.send(busServoIDCommand{T: -5, ID: servoID})
}

type busServoScanCommand struct {
	T   int `json:"T"`
	Num int `json:"num"`
}

// BusServoScan probes the bus for connected servos up to the given maximum
// ID.
func (c *Client) BusServoScan(maxID int) (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(busServoScanCommand{T: 52, Num: maxID}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// BusServoInfo fetches position, speed, voltage and torque feedback for one
// servo.
func (c *Client) BusServoInfo(servoID int) (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(busServoIDCommand{T: 53, ID: servoID}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

type busServoSetIDCommand struct {
	T   int `json:"T"`
	Old int `json:"old"`
	New int `json:"new"`
}

// BusServoSetID reassigns a servo's bus ID. Only one servo may be connected
// while doing this.
func (c *Client) BusServoSetID(oldID, newID int) error {
	return c.send(busServoSetIDCommand{T: 54, Old: oldID, New: newID})
}

type busServoStatusCommand struct {
	T      int `json:"T"`
	ID     int `json:"id"`
	Status int `json:"status"`
}

// BusServoTorqueLock toggles the servo's torque lock: 1 holds position, 0
// lets it rotate freely under external force.
func (c *Client) BusServoTorqueLock(servoID, status int) error {
	return c.send(busServoStatusCommand{T: 55, ID: servoID, Status: status})
}

type busServoLimitCommand struct {
	T     int `json:"T"`
	ID    int `json:"id"`
	Limit int `json:"limit"`
}

// BusServoTorqueLimit caps the servo's torque in thousandths of the stall
// torque (500 = 50%).
func (c *Client) BusServoTorqueLimit(servoID, limit int) error {
	return c.send(busServoLimitCommand{T: 56, ID: servoID, Limit: limit})
}

type busServoModeCommand struct {
	T    int `json:"T"`
	ID   int `json:"id"`
	Mode int `json:"mode"`
}

// BusServoMode selects the servo operation mode: 0 position servo, 3 stepper.
func (c *Client) BusServoMode(servoID, mode int) error {
	return c.send(busServoModeCommand{T: 57, ID: servoID, Mode: mode})
}

// WifiScan disconnects and scans for surrounding hotspots.
func (c *Client) WifiScan() error {
	return c.send(emptyCommand{T: 60})
}

// WifiTrySTA connects to the board's known WIFI in STA mode.
func (c *Client) WifiTrySTA() error {
	return c.send(emptyCommand{T: 61})
}

// WifiAPDefault starts the board's own hotspot (AP mode).
func (c *Client) WifiAPDefault() error {
	return c.send(emptyCommand{T: 62})
}

// WifiInfo reports the current WIFI status.
func (c *Client) WifiInfo() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 65}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// WifiOff disables the WIFI radio.
func (c *Client) WifiOff() error {
	return c.send(emptyCommand{T: 66})
}

// INA219Info reads supply voltage, current and power from the INA219 monitor.
func (c *Client) INA219Info() (PowerInfo, error) {
	var info PowerInfo
	if err := c.query(emptyCommand{T: 70}, &info); err != nil {
		return PowerInfo{}, err
	}
	return info, nil
}

// IMUInfo fetches heading, attitude, acceleration and temperature readings.
func (c *Client) IMUInfo() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 71}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// EncoderInfo reads motor encoder feedback. The Wave Rover has no encoders,
// so this only returns data on other chassis.
func (c *Client) EncoderInfo() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 73}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeviceInfo fetches the user-customized device description.
func (c *Client) DeviceInfo() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 74}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

type ioIRCutCommand struct {
	T      int `json:"T"`
	Status int `json:"status"`
}

// IOIRCut drives the IO5 pin high or low, typically wired to an IR-cut
// filter or a relay.
func (c *Client) IOIRCut(status int) error {
	return c.send(ioIRCutCommand{T: 80, Status: status})
}

type speedRateCommand struct {
	T int     `json:"T"`
	L float64 `json:"L"`
	R float64 `json:"R"`
}

// SetSpeedRate fine-tunes per-side motor power coefficients so the rover
// tracks straight.
func (c *Client) SetSpeedRate(left, right float64) error {
	return c.send(speedRateCommand{T: 901, L: left, R: right})
}

// GetSpeedRate reads back the per-side power coefficients.
func (c *Client) GetSpeedRate() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 902}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// SpeedRateSave persists the power coefficients to the ESP32's NVS area.
func (c *Client) SpeedRateSave() error {
	return c.send(emptyCommand{T: 903})
}

// NVSSpace reports the remaining NVS space on the ESP32.
func (c *Client) NVSSpace() (json.RawMessage, error) {
	var reply json.RawMessage
	if err := c.query(emptyCommand{T: 904}, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// NVSClear wipes the NVS area, resetting speed coefficients to 1.0.
func (c *Client) NVSClear() error {
	return c.send(emptyCommand{T: 905})
}
