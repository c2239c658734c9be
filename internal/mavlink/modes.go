package mavlink

import "fmt"

// Vehicle types from MAV_TYPE that pick the custom-mode table.
const (
	typeFixedWing   = 1
	typeQuadrotor   = 2
	typeCoaxial     = 3
	typeHelicopter  = 4
	typeGroundRover = 10
	typeHexarotor   = 13
	typeOctorotor   = 14
	typeTricopter   = 15
)

// ArduPilot custom-mode names, keyed by vehicle family.
var copterModes = map[uint32]string{
	0:  "STABILIZE",
	1:  "ACRO",
	2:  "ALT_HOLD",
	3:  "AUTO",
	4:  "GUIDED",
	5:  "LOITER",
	6:  "RTL",
	7:  "CIRCLE",
	9:  "LAND",
	11: "DRIFT",
	13: "SPORT",
	14: "FLIP",
	15: "AUTOTUNE",
	16: "POSHOLD",
	17: "BRAKE",
	18: "THROW",
	20: "GUIDED_NOGPS",
	21: "SMART_RTL",
}

var planeModes = map[uint32]string{
	0:  "MANUAL",
	1:  "CIRCLE",
	2:  "STABILIZE",
	3:  "TRAINING",
	4:  "ACRO",
	5:  "FBWA",
	6:  "FBWB",
	7:  "CRUISE",
	8:  "AUTOTUNE",
	10: "AUTO",
	11: "RTL",
	12: "LOITER",
	15: "GUIDED",
}

var roverModes = map[uint32]string{
	0:  "MANUAL",
	1:  "ACRO",
	3:  "STEERING",
	4:  "HOLD",
	5:  "LOITER",
	10: "AUTO",
	11: "RTL",
	12: "SMART_RTL",
	15: "GUIDED",
}

// ModeLabel names the flight mode announced by a heartbeat. When the
// custom-mode flag is set the vehicle-specific table applies; otherwise
// the label falls back to the coarse base-mode flags.
func ModeLabel(h *Heartbeat) string {
	if h.BaseMode&ModeFlagCustomModeEnabled != 0 {
		if label, ok := customModeTable(h.Type)[h.CustomMode]; ok {
			return label
		}
		return fmt.Sprintf("Mode(%d)", h.CustomMode)
	}

	switch {
	case h.BaseMode&ModeFlagAutoEnabled != 0:
		return "AUTO"
	case h.BaseMode&ModeFlagGuidedEnabled != 0:
		return "GUIDED"
	case h.BaseMode&ModeFlagStabilizeEnabled != 0:
		return "STABILIZE"
	case h.BaseMode&ModeFlagManualInput != 0:
		return "MANUAL"
	default:
		return fmt.Sprintf("Mode(%d)", h.CustomMode)
	}
}

func customModeTable(vehicleType uint8) map[uint32]string {
	switch vehicleType {
	case typeFixedWing:
		return planeModes
	case typeGroundRover:
		return roverModes
	case typeQuadrotor, typeCoaxial, typeHelicopter, typeHexarotor, typeOctorotor, typeTricopter:
		return copterModes
	default:
		return copterModes
	}
}
