// Package protocol implements the Broadlink command envelope codec: the
// fixed-layout binary header, the dual additive checksums and the
// AES-128-CBC payload encryption that together form one wire message.
//
// Byte offsets are part of the compatibility contract with device firmware,
// not incidental; see the wire table in the header field constants.
package protocol

// Wire constants shared by every device of the protocol family.
const (
	// HeaderSize is the fixed size of the command envelope header.
	HeaderSize = 0x38

	// DevicePort is the UDP port devices listen on for both discovery and
	// command exchange.
	DevicePort = 80
)

// MagicHeader is the 8-byte sentinel opening every command envelope.
var MagicHeader = [8]byte{0x5A, 0xA5, 0xAA, 0x55, 0x5A, 0xA5, 0xAA, 0x55}

// InitialIV is the AES-CBC initialization vector shared by all devices of
// this family. It is a fixed protocol constant, never derived from message
// content; reusing it across messages is required for wire compatibility.
var InitialIV = []byte{
	0x56, 0x2E, 0x17, 0x99, 0x6D, 0x09, 0x3D, 0x28,
	0xDD, 0xB3, 0xBA, 0x69, 0x5A, 0x2E, 0x6F, 0x58,
}

// InitialKey is the well-known pre-authentication AES-128 key. Devices accept
// it until a handshake assigns a per-session key.
var InitialKey = []byte{
	0x09, 0x76, 0x28, 0x34, 0x3F, 0xE9, 0x9E, 0x23,
	0x76, 0x5C, 0x15, 0x13, 0xAC, 0xCF, 0x8B, 0x02,
}
