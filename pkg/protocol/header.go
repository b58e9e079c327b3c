package protocol

import (
	"encoding/binary"
)

// Envelope header field offsets. These are the wire compatibility contract:
//
//	0x00–0x07  magic header
//	0x20–0x21  envelope checksum (zeroed during computation)
//	0x24–0x25  device type
//	0x26–0x27  packet type
//	0x28–0x29  count (top bit forced set)
//	0x2A–0x2F  hardware address, byte-reversed
//	0x30–0x33  session id (0 until authenticated)
//	0x34–0x35  payload checksum (plaintext, before encryption)
//
// Bytes not listed are zero. All multi-byte fields are little-endian.
const (
	offMagic           = 0x00
	offChecksum        = 0x20
	offDeviceType      = 0x24
	offPacketType      = 0x26
	offCount           = 0x28
	offMAC             = 0x2A
	offID              = 0x30
	offPayloadChecksum = 0x34
)

// CommandHeader is the fixed 0x38-byte envelope header preceding every
// encrypted command payload. A header is built fresh per outbound message and
// parsed fresh per inbound message; none is shared across exchanges.
type CommandHeader struct {
	// DeviceType is the numeric model identifier from the device profile.
	DeviceType uint16

	// PacketType is the operation code of the command being sent.
	PacketType uint16

	// Count is the message sequence number as sent on the wire, top bit set.
	Count uint16

	// MAC is the hardware address in natural byte order. It is reversed on
	// encode and un-reversed on decode.
	MAC [6]byte

	// ID is the device session identifier, zero until a handshake assigns
	// one.
	ID uint32

	// Checksum is the additive checksum of the whole envelope plus
	// ciphertext, computed with this field zeroed.
	Checksum uint16

	// PayloadChecksum is the additive checksum of the plaintext payload
	// before encryption.
	PayloadChecksum uint16
}

// Encode serializes the header into a fresh HeaderSize-byte buffer.
func (h *CommandHeader) Encode() []byte {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf
}

// EncodeTo serializes the header into buf, which must be at least HeaderSize
// bytes long. Reserved bytes are written as zero.
func (h *CommandHeader) EncodeTo(buf []byte) {
	for i := range buf[:HeaderSize] {
		buf[i] = 0
	}

	copy(buf[offMagic:], MagicHeader[:])
	binary.LittleEndian.PutUint16(buf[offChecksum:], h.Checksum)
	binary.LittleEndian.PutUint16(buf[offDeviceType:], h.DeviceType)
	binary.LittleEndian.PutUint16(buf[offPacketType:], h.PacketType)
	binary.LittleEndian.PutUint16(buf[offCount:], h.Count)

	rev := ReverseMAC(h.MAC)
	copy(buf[offMAC:], rev[:])

	binary.LittleEndian.PutUint32(buf[offID:], h.ID)
	binary.LittleEndian.PutUint16(buf[offPayloadChecksum:], h.PayloadChecksum)
}

// Decode deserializes a header from the first HeaderSize bytes of data.
func (h *CommandHeader) Decode(data []byte) error {
	if len(data) < HeaderSize {
		return ErrTruncatedMessage
	}

	h.Checksum = binary.LittleEndian.Uint16(data[offChecksum:])
	h.DeviceType = binary.LittleEndian.Uint16(data[offDeviceType:])
	h.PacketType = binary.LittleEndian.Uint16(data[offPacketType:])
	h.Count = binary.LittleEndian.Uint16(data[offCount:])

	var rev [6]byte
	copy(rev[:], data[offMAC:offMAC+6])
	h.MAC = ReverseMAC(rev)

	h.ID = binary.LittleEndian.Uint32(data[offID:])
	h.PayloadChecksum = binary.LittleEndian.Uint16(data[offPayloadChecksum:])

	return nil
}
