package transport

import (
	"fmt"
	"net"
	"net/netip"
)

// LocalAddr returns override unchanged when it is a valid address, otherwise
// the first non-loopback IPv4 address of any local interface.
//
// Resolution runs per call and is never cached: a caller may sit on a
// different subnet from one exchange to the next. Fails with
// ErrNoLocalAddress when enumeration fails or nothing qualifies.
func LocalAddr(override netip.Addr) (netip.Addr, error) {
	if override.IsValid() {
		return override, nil
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrNoLocalAddress, err)
	}

	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if addr, ok := netip.AddrFromSlice(ip); ok {
			return addr, nil
		}
	}

	return netip.Addr{}, ErrNoLocalAddress
}
