package discovery

import (
	"context"
	"encoding/binary"
	"net/netip"
	"testing"
	"time"

	"github.com/castaf/broadlink/pkg/transport"
)

// fakeDevice answers one hello on the factory's endpoint with the given
// replies. It reports hello validation problems through t.
func fakeDevice(t *testing.T, f *transport.PipeFactory, replies ...[]byte) {
	t.Helper()

	conn, err := f.PacketConn(0)
	if err != nil {
		t.Fatalf("fake device bind failed: %v", err)
	}

	go func() {
		defer conn.Close()

		buf := make([]byte, 256)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}

		if n != helloSize {
			t.Errorf("hello: got %d bytes, want %d", n, helloSize)
		}
		if buf[helloOffOpcode] != helloOpcode {
			t.Errorf("hello opcode: got %#02x, want %#02x", buf[helloOffOpcode], helloOpcode)
		}
		if port := binary.LittleEndian.Uint16(buf[helloOffPort:]); port != 1234 {
			t.Errorf("hello port: got %d, want 1234", port)
		}

		for _, reply := range replies {
			conn.WriteTo(reply, nil)
		}
	}()
}

func testConfig(f *transport.PipeFactory) Config {
	return Config{
		LocalAddr: netip.MustParseAddr("192.168.1.10"),
		LocalPort: 1234,
		Timeout:   200 * time.Millisecond,
		Factory:   f,
	}
}

func TestDiscoverCollectsDevices(t *testing.T) {
	client, server := transport.NewPipeFactoryPair()
	fakeDevice(t, server,
		deviceReply(0x2712, [6]byte{0xE8, 0x16, 0x56, 0x96, 0xE5, 0xB1}, "rm one"),
		deviceReply(0x5213, [6]byte{0x24, 0xDF, 0xA7, 0x01, 0x02, 0x03}, "rm two"),
	)

	devices, err := Discover(context.Background(), testConfig(client))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].Name != "rm one" || devices[1].Name != "rm two" {
		t.Errorf("got devices %q, %q; want receipt order", devices[0].Name, devices[1].Name)
	}
	if devices[0].DeviceType != 0x2712 {
		t.Errorf("device type: got %#04x, want 0x2712", devices[0].DeviceType)
	}
}

func TestDiscoverSkipsMalformedReplies(t *testing.T) {
	client, server := transport.NewPipeFactoryPair()
	fakeDevice(t, server,
		make([]byte, 0x10),
		deviceReply(0x2712, [6]byte{1, 2, 3, 4, 5, 6}, "survivor"),
	)

	devices, err := Discover(context.Background(), testConfig(client))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	if devices[0].Name != "survivor" {
		t.Errorf("got %q, want %q", devices[0].Name, "survivor")
	}
}

func TestDiscoverNoDevices(t *testing.T) {
	client, _ := transport.NewPipeFactoryPair()

	devices, err := Discover(context.Background(), testConfig(client))
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices, want none", len(devices))
	}
}

func TestProbeReturnsFirstReply(t *testing.T) {
	client, server := transport.NewPipeFactoryPair()
	fakeDevice(t, server,
		deviceReply(0x2712, [6]byte{1, 2, 3, 4, 5, 6}, "probed"),
	)

	info, err := Probe(context.Background(), testConfig(client), netip.MustParseAddr("192.168.1.42"))
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.Name != "probed" {
		t.Errorf("got %q, want %q", info.Name, "probed")
	}
}
