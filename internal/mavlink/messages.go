package mavlink

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Message IDs for the handled subset of the common dialect.
const (
	MsgIDHeartbeat  = 0
	MsgIDSysStatus  = 1
	MsgIDStatusText = 253
)

// Base mode flags from MAV_MODE_FLAG.
const (
	ModeFlagCustomModeEnabled = 1 << 0
	ModeFlagTestEnabled       = 1 << 1
	ModeFlagAutoEnabled       = 1 << 2
	ModeFlagGuidedEnabled     = 1 << 3
	ModeFlagStabilizeEnabled  = 1 << 4
	ModeFlagHILEnabled        = 1 << 5
	ModeFlagManualInput       = 1 << 6
	ModeFlagSafetyArmed       = 1 << 7
)

// Unreported reserved value for uint16 telemetry fields.
const rawUnreported = 0xFFFF

// Unreported is the sentinel carried by decoded fields whose raw value
// was the protocol's "not reported" marker.
const Unreported = -1

// Message is one decoded telemetry unit. Exactly one concrete variant
// backs each value; callers route on the concrete type.
type Message interface {
	MsgID() uint32
	Name() string
}

// Heartbeat announces vehicle presence, type and flight mode.
type Heartbeat struct {
	Type         uint8
	Autopilot    uint8
	BaseMode     uint8
	CustomMode   uint32
	SystemStatus uint8
}

func (*Heartbeat) MsgID() uint32 { return MsgIDHeartbeat }
func (*Heartbeat) Name() string  { return "HEARTBEAT" }

// Armed reports whether the safety-armed flag is set in the base mode.
func (h *Heartbeat) Armed() bool {
	return h.BaseMode&ModeFlagSafetyArmed != 0
}

// SysStatus carries vehicle health values. VoltageBattery is in
// millivolts and Load in tenths of a percent; both are Unreported (-1)
// when the vehicle does not measure them.
type SysStatus struct {
	VoltageBattery int32
	Load           int16
}

func (*SysStatus) MsgID() uint32 { return MsgIDSysStatus }
func (*SysStatus) Name() string  { return "SYS_STATUS" }

// StatusText is a free-form status report with a severity code 0..7
// (0 most severe).
type StatusText struct {
	Severity uint8
	Text     string
}

func (*StatusText) MsgID() uint32 { return MsgIDStatusText }
func (*StatusText) Name() string  { return "STATUSTEXT" }

// Unknown stands in for any message ID outside the handled subset.
type Unknown struct {
	ID uint32
}

func (u *Unknown) MsgID() uint32 { return u.ID }
func (u *Unknown) Name() string  { return fmt.Sprintf("UNKNOWN(%d)", u.ID) }

// Wire payload lengths per message, before v2 zero-truncation.
const (
	heartbeatPayloadLen  = 9
	sysStatusPayloadLen  = 31
	statusTextPayloadLen = 51
)

// Message decodes the frame payload into its typed variant. Payloads
// arrive zero-truncated on v2 links, so they are zero-extended to the
// full wire length before field extraction.
func (f Frame) Message() Message {
	switch f.MsgID {
	case MsgIDHeartbeat:
		p := padPayload(f.Payload, heartbeatPayloadLen)
		return &Heartbeat{
			CustomMode:   binary.LittleEndian.Uint32(p[0:4]),
			Type:         p[4],
			Autopilot:    p[5],
			BaseMode:     p[6],
			SystemStatus: p[7],
		}

	case MsgIDSysStatus:
		p := padPayload(f.Payload, sysStatusPayloadLen)
		return &SysStatus{
			Load:           unreportedInt16(binary.LittleEndian.Uint16(p[12:14])),
			VoltageBattery: unreportedInt32(binary.LittleEndian.Uint16(p[14:16])),
		}

	case MsgIDStatusText:
		p := padPayload(f.Payload, statusTextPayloadLen)
		text := strings.TrimRight(string(p[1:statusTextPayloadLen]), "\x00")
		return &StatusText{
			Severity: p[0],
			Text:     text,
		}

	default:
		return &Unknown{ID: f.MsgID}
	}
}

func padPayload(payload []byte, length int) []byte {
	if len(payload) >= length {
		return payload
	}
	padded := make([]byte, length)
	copy(padded, payload)
	return padded
}

func unreportedInt32(raw uint16) int32 {
	if raw == rawUnreported {
		return Unreported
	}
	return int32(raw)
}

func unreportedInt16(raw uint16) int16 {
	if raw == rawUnreported {
		return Unreported
	}
	return int16(raw)
}
