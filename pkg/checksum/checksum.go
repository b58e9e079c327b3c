// Package checksum implements the two 16-bit integrity codes used by the
// Broadlink wire protocol.
//
// Additive is the seeded byte sum carried in command envelopes; Internet is
// the ones'-complement word sum carried in discovery hello packets. The two
// are distinct algorithms and are not interchangeable: callers must know
// which one a given wire field expects.
package checksum

// additiveSeed is the accumulator seed for the envelope checksum.
const additiveSeed = 0xBEAF

// Additive computes the seeded byte-sum checksum used for command envelopes
// and payloads. Every byte is added to the seed as an unsigned value and the
// result is truncated to 16 bits. Additive(nil) returns the seed itself.
func Additive(data []byte) uint16 {
	sum := uint32(additiveSeed)
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16(sum)
}

// Internet computes a ones'-complement checksum over data interpreted as
// consecutive little-endian 16-bit words. An odd trailing byte is treated as
// the low byte of a final word with a zero high byte. The accumulator starts
// at 0xFFFF; its high half is folded into the low half once before
// complementing.
func Internet(data []byte) uint16 {
	state := uint32(0xFFFF)

	i := 0
	for ; i+1 < len(data); i += 2 {
		state += uint32(data[i]) | uint32(data[i+1])<<8
	}
	if i < len(data) {
		state += uint32(data[i])
	}

	state = (state >> 16) + (state & 0xFFFF)
	return uint16(^state & 0xFFFF)
}
