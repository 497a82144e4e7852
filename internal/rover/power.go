package rover

// Battery voltage window of the 3S pack: 9.0 V empty, 12.6 V full.
const (
	batteryEmptyVolts = 9.0
	batteryRangeVolts = 3.6
)

// Charger/power-switch states inferred from the INA219 readings.
const (
	PowerStateAllOff     = "Charger: OFF, PowerSwitch: OFF"
	PowerStateCharging   = "Charger: ON, PowerSwitch: OFF"
	PowerStateChargingOn = "Charger: ON, PowerSwitch: ON"
	PowerStateRunning    = "Charger: OFF, PowerSwitch: ON"
	PowerStateUnknown    = "Unknown state"
)

// PowerInfo is the INA219 monitor reading returned by the board. Fields the
// firmware reports as null stay zero.
type PowerInfo struct {
	ShuntMillivolts  float64 `json:"shunt_mV"`
	BusVolts         float64 `json:"bus_V"`
	LoadVolts        float64 `json:"load_V"`
	CurrentMilliamps float64 `json:"current_mA"`
	PowerMilliwatts  float64 `json:"power_mW"`
}

// BatteryPercent estimates the remaining charge from the bus voltage,
// clamped to [0, 100].
func (p PowerInfo) BatteryPercent() float64 {
	pct := (p.BusVolts - batteryEmptyVolts) / batteryRangeVolts * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// PowerState classifies the charger and power-switch positions from the
// shunt voltage polarity and the load voltage level.
func (p PowerInfo) PowerState() string {
	switch {
	case p.ShuntMillivolts < 0 && p.LoadVolts < 1:
		return PowerStateAllOff
	case p.ShuntMillivolts < 0 && p.LoadVolts > 1:
		return PowerStateCharging
	case p.ShuntMillivolts > 0 && p.LoadVolts > 11.7:
		return PowerStateChargingOn
	case p.ShuntMillivolts > 0 && p.LoadVolts < 11.7:
		return PowerStateRunning
	default:
		return PowerStateUnknown
	}
}
