package transport

import "net"

// Factory creates the packet socket an exchange runs on. Implementations
// provide real UDP sockets or in-memory pipes for testing; the exchange logic
// is identical over both.
type Factory interface {
	// PacketConn binds a datagram socket on the unspecified address and the
	// given local port (zero selects an ephemeral port), ready for broadcast
	// sends.
	PacketConn(localPort uint16) (net.PacketConn, error)
}

// NetFactory creates real IPv4 UDP sockets. The Go runtime enables the
// broadcast socket option on datagram sockets, so sockets from this factory
// can send to the broadcast address without further setup.
type NetFactory struct{}

// PacketConn implements Factory.
func (NetFactory) PacketConn(localPort uint16) (net.PacketConn, error) {
	return net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: int(localPort)})
}

// Verify NetFactory implements Factory.
var _ Factory = NetFactory{}
