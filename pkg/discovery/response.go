package discovery

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/castaf/broadlink/pkg/protocol"
)

// Discovery reply field offsets.
const (
	respOffDeviceType = 0x34
	respOffMAC        = 0x3A
	respOffName       = 0x40
)

// respMinSize is the smallest reply carrying all device fields.
const respMinSize = respOffName

// DeviceInfo describes one device that answered a discovery hello.
type DeviceInfo struct {
	// Addr is the address the reply came from.
	Addr net.Addr

	// DeviceType is the device's numeric model identifier.
	DeviceType uint16

	// MAC is the device's hardware address, in transmission order.
	MAC [6]byte

	// Name is the device's friendly name, empty if the reply carried none.
	Name string
}

// HardwareAddr returns the MAC in net.HardwareAddr form.
func (d DeviceInfo) HardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(d.MAC[:])
}

// ParseDeviceInfo extracts the device fields from a discovery reply. The MAC
// is byte-reversed on the wire; the name, when present, is the NUL-terminated
// string trailing the fixed fields.
func ParseDeviceInfo(data []byte, from net.Addr) (DeviceInfo, error) {
	if len(data) < respMinSize {
		return DeviceInfo{}, ErrResponseTooShort
	}

	var macReversed [6]byte
	copy(macReversed[:], data[respOffMAC:respOffMAC+6])

	info := DeviceInfo{
		Addr:       from,
		DeviceType: binary.LittleEndian.Uint16(data[respOffDeviceType:]),
		MAC:        protocol.ReverseMAC(macReversed),
	}

	name := data[respOffName:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	info.Name = string(name)

	return info, nil
}
