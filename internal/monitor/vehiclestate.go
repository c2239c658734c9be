package monitor

import (
	"fmt"
	"sync"

	"github.com/aerolith-io/groundwatch/internal/mavlink"
)

// Snapshot is the read model of the latest known vehicle state,
// returned as a defensive copy for the API layer.
type Snapshot struct {
	HasHeartbeat bool     `json:"has_heartbeat"`
	Armed        bool     `json:"armed"`
	ModeLabel    string   `json:"mode_label,omitempty"`
	CustomMode   uint32   `json:"custom_mode"`
	BatteryVolts *float64 `json:"battery_volts,omitempty"`
	LoadPercent  *float64 `json:"load_percent,omitempty"`
	Lines        []string `json:"lines"`
}

// VehicleState is the latest-value store for armed/mode/battery/load.
// Each relevant message overwrites in place; no history is kept.
//
// Panel sequencing: a heartbeat rewrites the panel to the armed and
// mode rows alone, and a system-status message appends its rows to
// whatever is currently shown. Battery rows are therefore transiently
// absent between a heartbeat and the next system status.
type VehicleState struct {
	mu sync.RWMutex

	hasHeartbeat bool
	armed        bool
	modeLabel    string
	customMode   uint32

	batteryVolts float64
	batteryValid bool
	loadPercent  float64
	loadValid    bool

	lines []string
}

func NewVehicleState() *VehicleState {
	return &VehicleState{}
}

// ApplyHeartbeat overwrites armed state and flight mode and returns the
// re-rendered panel lines.
func (v *VehicleState) ApplyHeartbeat(hb *mavlink.Heartbeat) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.hasHeartbeat = true
	v.armed = hb.Armed()
	v.modeLabel = mavlink.ModeLabel(hb)
	v.customMode = hb.CustomMode

	armedText := "DISARMED"
	if v.armed {
		armedText = "ARMED"
	}

	v.lines = []string{
		fmt.Sprintf("Armed Status: %s", armedText),
		fmt.Sprintf("Flight Mode: %s (Custom Mode: %d)", v.modeLabel, v.customMode),
	}

	return append([]string(nil), v.lines...)
}

// ApplySysStatus overwrites battery and load values and appends their
// rows to the panel. System Load and CPU Usage both report the same
// underlying load field scaled by ten; the duplication is deliberate.
func (v *VehicleState) ApplySysStatus(ss *mavlink.SysStatus) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.batteryValid = ss.VoltageBattery != mavlink.Unreported
	if v.batteryValid {
		v.batteryVolts = float64(ss.VoltageBattery) / 1000.0
	} else {
		v.batteryVolts = 0
	}

	v.loadValid = ss.Load != mavlink.Unreported
	if v.loadValid {
		v.loadPercent = float64(ss.Load) / 10.0
	} else {
		v.loadPercent = 0
	}

	battery := "N/A"
	if v.batteryValid {
		battery = fmt.Sprintf("%.2fV", v.batteryVolts)
	}
	load := "N/A"
	if v.loadValid {
		load = fmt.Sprintf("%.1f%%", v.loadPercent)
	}

	v.lines = append(v.lines,
		fmt.Sprintf("Battery Voltage: %s", battery),
		fmt.Sprintf("System Load: %s", load),
		fmt.Sprintf("CPU Usage: %s", load),
	)

	return append([]string(nil), v.lines...)
}

// Clear resets to the empty default display. Safe to call repeatedly.
func (v *VehicleState) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.hasHeartbeat = false
	v.armed = false
	v.modeLabel = ""
	v.customMode = 0
	v.batteryVolts = 0
	v.batteryValid = false
	v.loadPercent = 0
	v.loadValid = false
	v.lines = nil
}

// Snapshot returns a copy of the latest values.
func (v *VehicleState) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	snap := Snapshot{
		HasHeartbeat: v.hasHeartbeat,
		Armed:        v.armed,
		ModeLabel:    v.modeLabel,
		CustomMode:   v.customMode,
		Lines:        append([]string(nil), v.lines...),
	}
	if v.batteryValid {
		volts := v.batteryVolts
		snap.BatteryVolts = &volts
	}
	if v.loadValid {
		load := v.loadPercent
		snap.LoadPercent = &load
	}
	return snap
}
