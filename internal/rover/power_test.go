package rover

import "testing"

func TestBatteryPercent(t *testing.T) {
	tests := []struct {
		name string
		bus  float64
		want float64
	}{
		{"empty", 9.0, 0},
		{"full", 12.6, 100},
		{"half", 10.8, 50},
		{"below empty clamps", 8.0, 0},
		{"above full clamps", 13.0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := PowerInfo{BusVolts: tt.bus}
			if got := info.BatteryPercent(); got != tt.want {
				t.Errorf("BatteryPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerState(t *testing.T) {
	tests := []struct {
		name  string
		shunt float64
		load  float64
		want  string
	}{
		{"all off", -1, 0.5, PowerStateAllOff},
		{"charging switched off", -1, 5, PowerStateCharging},
		{"charging switched on", 2, 12.0, PowerStateChargingOn},
		{"running on battery", 2, 11.0, PowerStateRunning},
		{"indeterminate", 0, 11.7, PowerStateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := PowerInfo{ShuntMillivolts: tt.shunt, LoadVolts: tt.load}
			if got := info.PowerState(); got != tt.want {
				t.Errorf("PowerState() = %q, want %q", got, tt.want)
			}
		})
	}
}
