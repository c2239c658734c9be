package mavlink

import (
	"errors"
	"fmt"
)

// Frame magic bytes.
const (
	magicV1 = 0xFE
	magicV2 = 0xFD
)

const (
	headerLenV1 = 6
	headerLenV2 = 10
	checksumLen = 2
	// Incompat flag bit for an appended 13-byte signature block.
	incompatSigned  = 0x01
	signatureLen    = 13
	maxDatagramSize = 2048
)

var (
	ErrShortFrame = errors.New("mavlink: truncated frame")
	ErrBadMagic   = errors.New("mavlink: bad magic byte")
	ErrChecksum   = errors.New("mavlink: checksum mismatch")
)

// crcExtra seeds, one per handled message. The checksum of a message ID
// outside this table cannot be verified.
var crcExtra = map[uint32]uint8{
	MsgIDHeartbeat:  50,
	MsgIDSysStatus:  124,
	MsgIDStatusText: 83,
}

// Frame is one validated MAVLink frame, version-agnostic.
type Frame struct {
	Version     uint8
	Seq         uint8
	SystemID    uint8
	ComponentID uint8
	MsgID       uint32
	Payload     []byte
}

// parseFrame decodes one frame from the start of data and reports how
// many bytes it consumed. The checksum is verified for the handled
// message subset; unknown IDs pass through unverified since their
// CRC_EXTRA seed is not known.
func parseFrame(data []byte) (Frame, int, error) {
	if len(data) < 1 {
		return Frame{}, 0, ErrShortFrame
	}

	switch data[0] {
	case magicV1:
		return parseFrameV1(data)
	case magicV2:
		return parseFrameV2(data)
	default:
		return Frame{}, 0, fmt.Errorf("%w: 0x%02x", ErrBadMagic, data[0])
	}
}

func parseFrameV1(data []byte) (Frame, int, error) {
	if len(data) < headerLenV1+checksumLen {
		return Frame{}, 0, ErrShortFrame
	}

	payloadLen := int(data[1])
	total := headerLenV1 + payloadLen + checksumLen
	if len(data) < total {
		return Frame{}, 0, ErrShortFrame
	}

	frame := Frame{
		Version:     1,
		Seq:         data[2],
		SystemID:    data[3],
		ComponentID: data[4],
		MsgID:       uint32(data[5]),
		Payload:     data[headerLenV1 : headerLenV1+payloadLen],
	}

	if err := verifyChecksum(frame.MsgID, data[1:headerLenV1+payloadLen], data[headerLenV1+payloadLen:total]); err != nil {
		return Frame{}, 0, err
	}

	return frame, total, nil
}

func parseFrameV2(data []byte) (Frame, int, error) {
	if len(data) < headerLenV2+checksumLen {
		return Frame{}, 0, ErrShortFrame
	}

	payloadLen := int(data[1])
	incompat := data[2]
	total := headerLenV2 + payloadLen + checksumLen
	if incompat&incompatSigned != 0 {
		total += signatureLen
	}
	if len(data) < total {
		return Frame{}, 0, ErrShortFrame
	}

	frame := Frame{
		Version:     2,
		Seq:         data[4],
		SystemID:    data[5],
		ComponentID: data[6],
		MsgID:       uint32(data[7]) | uint32(data[8])<<8 | uint32(data[9])<<16,
		Payload:     data[headerLenV2 : headerLenV2+payloadLen],
	}

	if err := verifyChecksum(frame.MsgID, data[1:headerLenV2+payloadLen], data[headerLenV2+payloadLen:headerLenV2+payloadLen+checksumLen]); err != nil {
		return Frame{}, 0, err
	}

	return frame, total, nil
}

// verifyChecksum runs X.25 over the header (minus magic) and payload,
// folds in the message's CRC_EXTRA seed, and compares against the wire
// checksum (little-endian).
func verifyChecksum(msgID uint32, covered, checksum []byte) error {
	extra, known := crcExtra[msgID]
	if !known {
		return nil
	}

	crc := crcInit
	for _, b := range covered {
		crc = crcAccumulate(crc, b)
	}
	crc = crcAccumulate(crc, extra)

	wire := uint16(checksum[0]) | uint16(checksum[1])<<8
	if crc != wire {
		return fmt.Errorf("%w: msgid %d computed 0x%04x wire 0x%04x", ErrChecksum, msgID, crc, wire)
	}
	return nil
}

const crcInit uint16 = 0xFFFF

// crcAccumulate folds one byte into an X.25 (CRC-16/MCRF4XX) running
// checksum.
func crcAccumulate(crc uint16, b byte) uint16 {
	tmp := b ^ byte(crc&0xFF)
	tmp ^= tmp << 4
	return (crc >> 8) ^ uint16(tmp)<<8 ^ uint16(tmp)<<3 ^ uint16(tmp)>>4
}
