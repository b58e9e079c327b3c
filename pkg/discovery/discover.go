package discovery

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/pion/logging"

	"github.com/castaf/broadlink/pkg/protocol"
	"github.com/castaf/broadlink/pkg/transport"
)

// Config configures a discovery run. The zero value broadcasts from an
// ephemeral port on the first non-loopback IPv4 interface with the transport
// default timeout.
type Config struct {
	// LocalAddr is the IPv4 address to advertise in the hello. When invalid,
	// the first non-loopback IPv4 interface address is used.
	LocalAddr netip.Addr

	// LocalPort is the local port to bind; zero selects an ephemeral port.
	LocalPort uint16

	// Timeout bounds each receive wait. Zero selects the transport default.
	Timeout time.Duration

	// Factory creates the packet socket. Nil selects real UDP sockets.
	Factory transport.Factory

	// LoggerFactory is the factory for creating loggers. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

func (c Config) options() transport.Options {
	return transport.Options{
		LocalPort:     c.LocalPort,
		Timeout:       c.Timeout,
		Factory:       c.Factory,
		LoggerFactory: c.LoggerFactory,
	}
}

// hello builds the outbound hello once the socket is bound, so the packet
// advertises the actually bound port when an ephemeral one was requested.
func (c Config) hello() (transport.Builder, error) {
	local, err := transport.LocalAddr(c.LocalAddr)
	if err != nil {
		return nil, err
	}

	return func(bound net.Addr) ([]byte, error) {
		msg := HelloMessage{
			LocalAddr: local,
			LocalPort: boundPort(bound, c.LocalPort),
			Timestamp: time.Now(),
		}
		return msg.Encode()
	}, nil
}

// boundPort extracts the port from the bound socket address, falling back to
// the configured port for address types that do not carry one.
func boundPort(bound net.Addr, fallback uint16) uint16 {
	switch a := bound.(type) {
	case *net.UDPAddr:
		return uint16(a.Port)
	case transport.PipeAddr:
		return a.Port
	default:
		return fallback
	}
}

// Discover broadcasts a hello and returns every device that answers before
// the timeout. Replies that fail to parse are logged and skipped; absence of
// devices is an empty result, not an error.
func Discover(ctx context.Context, cfg Config) ([]DeviceInfo, error) {
	build, err := cfg.hello()
	if err != nil {
		return nil, err
	}

	dst := &net.UDPAddr{IP: net.IPv4bcast, Port: protocol.DevicePort}
	return transport.ExchangeAllFunc(ctx, cfg.options(), build, dst, ParseDeviceInfo)
}

// Probe sends a hello directly to addr and returns the device's reply, or
// transport.ErrNoResponse if it stays silent past the timeout.
func Probe(ctx context.Context, cfg Config, addr netip.Addr) (DeviceInfo, error) {
	build, err := cfg.hello()
	if err != nil {
		return DeviceInfo{}, err
	}

	dst := &net.UDPAddr{IP: addr.AsSlice(), Port: protocol.DevicePort}
	return transport.ExchangeOneFunc(ctx, cfg.options(), build, dst, ParseDeviceInfo)
}
