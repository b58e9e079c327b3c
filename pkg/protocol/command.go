package protocol

// Packet types (operation codes) understood by device firmware. The packet
// type is selected by the logical command being sent, not hardcoded per
// message.
const (
	// PacketTypeAuth is the session handshake operation.
	PacketTypeAuth uint16 = 0x65

	// PacketTypeCommand is the generic authenticated command operation used
	// for control, learning and informational payloads.
	PacketTypeCommand uint16 = 0x6A
)

// Command couples a packet type with the payload bytes it carries. Each
// logical command variant knows its own operation code and payload shape;
// the codec stays generic over opaque payload bytes plus a numeric packet
// type.
type Command interface {
	// PacketType returns the operation code for the envelope header.
	PacketType() uint16

	// Payload returns the plaintext payload bytes to encrypt.
	Payload() ([]byte, error)
}

// RawCommand is a Command carrying caller-assembled payload bytes.
type RawCommand struct {
	Type uint16
	Data []byte
}

// PacketType implements Command.
func (c RawCommand) PacketType() uint16 { return c.Type }

// Payload implements Command.
func (c RawCommand) Payload() ([]byte, error) { return c.Data, nil }
