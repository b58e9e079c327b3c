package protocol

import (
	"crypto/rand"
	"encoding/binary"
)

// CountSource supplies the sequence number for an outbound message. Pack
// forces the top bit set on whatever the source returns, marking the message
// as controller-originated.
type CountSource func() uint16

// RandomCount draws a fresh random count for every message. It is the
// default source when a Codec is configured without one.
func RandomCount() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms
		return 1
	}
	return binary.LittleEndian.Uint16(buf[:])
}

// FixedCount returns a CountSource that always yields n. Use it for
// deterministic tests or when the caller manages sequence numbers itself.
func FixedCount(n uint16) CountSource {
	return func() uint16 { return n }
}
