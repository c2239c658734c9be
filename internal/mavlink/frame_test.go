package mavlink

import (
	"encoding/binary"
	"errors"
	"testing"
)

// encodeV1 builds a valid MAVLink v1 frame for tests.
func encodeV1(msgID uint8, payload []byte) []byte {
	frame := make([]byte, 0, headerLenV1+len(payload)+checksumLen)
	frame = append(frame, magicV1, byte(len(payload)), 0, 1, 1, msgID)
	frame = append(frame, payload...)
	return appendChecksum(frame, uint32(msgID), frame[1:])
}

// encodeV2 builds a valid MAVLink v2 frame, zero-truncating the payload
// the way v2 senders do.
func encodeV2(msgID uint32, payload []byte) []byte {
	trimmed := payload
	for len(trimmed) > 1 && trimmed[len(trimmed)-1] == 0 {
		trimmed = trimmed[:len(trimmed)-1]
	}

	frame := make([]byte, 0, headerLenV2+len(trimmed)+checksumLen)
	frame = append(frame, magicV2, byte(len(trimmed)), 0, 0, 0, 1, 1,
		byte(msgID), byte(msgID>>8), byte(msgID>>16))
	frame = append(frame, trimmed...)
	return appendChecksum(frame, msgID, frame[1:])
}

func appendChecksum(frame []byte, msgID uint32, covered []byte) []byte {
	crc := crcInit
	for _, b := range covered {
		crc = crcAccumulate(crc, b)
	}
	if extra, ok := crcExtra[msgID]; ok {
		crc = crcAccumulate(crc, extra)
	}
	return append(frame, byte(crc), byte(crc>>8))
}

func heartbeatPayload(vehicleType, baseMode uint8, customMode uint32) []byte {
	p := make([]byte, heartbeatPayloadLen)
	binary.LittleEndian.PutUint32(p[0:4], customMode)
	p[4] = vehicleType
	p[5] = 3 // MAV_AUTOPILOT_ARDUPILOTMEGA
	p[6] = baseMode
	p[7] = 4 // MAV_STATE_ACTIVE
	return p
}

func sysStatusPayload(voltage, load uint16) []byte {
	p := make([]byte, sysStatusPayloadLen)
	binary.LittleEndian.PutUint16(p[12:14], load)
	binary.LittleEndian.PutUint16(p[14:16], voltage)
	return p
}

func statusTextPayload(severity uint8, text string) []byte {
	p := make([]byte, statusTextPayloadLen)
	p[0] = severity
	copy(p[1:], text)
	return p
}

func TestParseFrameHeartbeatV1(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDHeartbeat, heartbeatPayload(typeQuadrotor, ModeFlagSafetyArmed|ModeFlagCustomModeEnabled, 4))

	frame, consumed, err := parseFrame(data)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(data))
	}

	hb, ok := frame.Message().(*Heartbeat)
	if !ok {
		t.Fatalf("decoded %T, want *Heartbeat", frame.Message())
	}
	if !hb.Armed() {
		t.Error("Armed() = false, want true")
	}
	if hb.CustomMode != 4 {
		t.Errorf("CustomMode = %d, want 4", hb.CustomMode)
	}
}

func TestParseFrameSysStatus(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDSysStatus, sysStatusPayload(12600, 550))

	frame, _, err := parseFrame(data)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}

	ss, ok := frame.Message().(*SysStatus)
	if !ok {
		t.Fatalf("decoded %T, want *SysStatus", frame.Message())
	}
	if ss.VoltageBattery != 12600 {
		t.Errorf("VoltageBattery = %d, want 12600", ss.VoltageBattery)
	}
	if ss.Load != 550 {
		t.Errorf("Load = %d, want 550", ss.Load)
	}
}

func TestParseFrameSysStatusUnreported(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDSysStatus, sysStatusPayload(rawUnreported, rawUnreported))

	frame, _, err := parseFrame(data)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}

	ss := frame.Message().(*SysStatus)
	if ss.VoltageBattery != Unreported {
		t.Errorf("VoltageBattery = %d, want %d", ss.VoltageBattery, Unreported)
	}
	if ss.Load != Unreported {
		t.Errorf("Load = %d, want %d", ss.Load, Unreported)
	}
}

func TestParseFrameStatusText(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDStatusText, statusTextPayload(3, "Low battery"))

	frame, _, err := parseFrame(data)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}

	st, ok := frame.Message().(*StatusText)
	if !ok {
		t.Fatalf("decoded %T, want *StatusText", frame.Message())
	}
	if st.Severity != 3 {
		t.Errorf("Severity = %d, want 3", st.Severity)
	}
	if st.Text != "Low battery" {
		t.Errorf("Text = %q, want %q", st.Text, "Low battery")
	}
}

func TestParseFrameV2ZeroTruncated(t *testing.T) {
	t.Parallel()

	// "EKF ready" leaves 40 trailing NULs that a v2 sender strips.
	data := encodeV2(MsgIDStatusText, statusTextPayload(6, "EKF ready"))

	frame, consumed, err := parseFrame(data)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("consumed %d bytes, want %d", consumed, len(data))
	}
	if len(frame.Payload) >= statusTextPayloadLen {
		t.Fatalf("payload was not truncated on the wire (len %d)", len(frame.Payload))
	}

	st := frame.Message().(*StatusText)
	if st.Text != "EKF ready" {
		t.Errorf("Text = %q, want %q", st.Text, "EKF ready")
	}
}

func TestParseFrameChecksumMismatch(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDHeartbeat, heartbeatPayload(typeQuadrotor, 0, 0))
	data[len(data)-1] ^= 0xFF

	_, _, err := parseFrame(data)
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
}

func TestParseFrameBadMagic(t *testing.T) {
	t.Parallel()

	_, _, err := parseFrame([]byte{0x55, 0x01, 0x02})
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestParseFrameTruncated(t *testing.T) {
	t.Parallel()

	data := encodeV1(MsgIDHeartbeat, heartbeatPayload(typeQuadrotor, 0, 0))

	_, _, err := parseFrame(data[:len(data)-3])
	if !errors.Is(err, ErrShortFrame) {
		t.Fatalf("err = %v, want ErrShortFrame", err)
	}
}

func TestParseFrameUnknownIDSkipsChecksum(t *testing.T) {
	t.Parallel()

	// ATTITUDE (#30) has no CRC_EXTRA entry here, so an arbitrary
	// checksum must still parse into an Unknown message.
	payload := make([]byte, 28)
	frame := []byte{magicV1, byte(len(payload)), 0, 1, 1, 30}
	frame = append(frame, payload...)
	frame = append(frame, 0xAB, 0xCD)

	parsed, _, err := parseFrame(frame)
	if err != nil {
		t.Fatalf("parseFrame: %v", err)
	}

	unknown, ok := parsed.Message().(*Unknown)
	if !ok {
		t.Fatalf("decoded %T, want *Unknown", parsed.Message())
	}
	if unknown.ID != 30 {
		t.Errorf("ID = %d, want 30", unknown.ID)
	}
}

func TestParseFrameCoalescedDatagram(t *testing.T) {
	t.Parallel()

	first := encodeV1(MsgIDHeartbeat, heartbeatPayload(typeQuadrotor, 0, 0))
	second := encodeV1(MsgIDStatusText, statusTextPayload(5, "takeoff"))
	data := append(append([]byte{}, first...), second...)

	frame1, n1, err := parseFrame(data)
	if err != nil {
		t.Fatalf("first parseFrame: %v", err)
	}
	if _, ok := frame1.Message().(*Heartbeat); !ok {
		t.Fatalf("first message is %T, want *Heartbeat", frame1.Message())
	}

	frame2, n2, err := parseFrame(data[n1:])
	if err != nil {
		t.Fatalf("second parseFrame: %v", err)
	}
	if n1+n2 != len(data) {
		t.Errorf("consumed %d bytes total, want %d", n1+n2, len(data))
	}
	if _, ok := frame2.Message().(*StatusText); !ok {
		t.Fatalf("second message is %T, want *StatusText", frame2.Message())
	}
}
