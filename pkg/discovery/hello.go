// Package discovery finds Broadlink-family devices on the local network by
// broadcasting a hello message on UDP port 80 and parsing the replies.
package discovery

import (
	"encoding/binary"
	"net/netip"
	"time"

	"github.com/castaf/broadlink/pkg/checksum"
)

const (
	// helloSize is the fixed size of the discovery hello packet.
	helloSize = 0x30

	// helloOpcode identifies the packet as a discovery hello.
	helloOpcode = 0x06
)

// Hello packet field offsets.
const (
	helloOffTimezone = 0x08
	helloOffYear     = 0x0C
	helloOffMinute   = 0x0E
	helloOffHour     = 0x0F
	helloOffSubyear  = 0x10
	helloOffWeekday  = 0x11
	helloOffDay      = 0x12
	helloOffMonth    = 0x13
	helloOffIP       = 0x18
	helloOffPort     = 0x1C
	helloOffChecksum = 0x20
	helloOffOpcode   = 0x26
)

// HelloMessage is the discovery hello broadcast to devices. It advertises the
// sender's address, port and wall-clock time so devices know where to reply.
type HelloMessage struct {
	// LocalAddr is the IPv4 address replies should be sent to.
	LocalAddr netip.Addr

	// LocalPort is the port replies should be sent to.
	LocalPort uint16

	// Timestamp is the sender's local time, including its zone.
	Timestamp time.Time
}

// Encode serializes the hello into its 0x30-byte wire form. The checksum
// field carries the ones'-complement checksum of the packet computed with the
// field itself zeroed. Fails with ErrNoIPv4Address if LocalAddr is not IPv4.
func (m HelloMessage) Encode() ([]byte, error) {
	addr := m.LocalAddr
	if addr.Is4In6() {
		addr = addr.Unmap()
	}
	if !addr.Is4() {
		return nil, ErrNoIPv4Address
	}

	buf := make([]byte, helloSize)

	_, offset := m.Timestamp.Zone()
	binary.LittleEndian.PutUint32(buf[helloOffTimezone:], uint32(int32(offset/3600)))

	year := m.Timestamp.Year()
	binary.LittleEndian.PutUint16(buf[helloOffYear:], uint16(year))
	buf[helloOffMinute] = byte(m.Timestamp.Minute())
	buf[helloOffHour] = byte(m.Timestamp.Hour())
	buf[helloOffSubyear] = byte(year % 100)
	buf[helloOffWeekday] = byte(m.Timestamp.Weekday())
	buf[helloOffDay] = byte(m.Timestamp.Day())
	buf[helloOffMonth] = byte(m.Timestamp.Month())

	ip := addr.As4()
	copy(buf[helloOffIP:], ip[:])
	binary.LittleEndian.PutUint16(buf[helloOffPort:], m.LocalPort)

	buf[helloOffOpcode] = helloOpcode

	binary.LittleEndian.PutUint16(buf[helloOffChecksum:], checksum.Internet(buf))

	return buf, nil
}
