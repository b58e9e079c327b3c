package transport

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/pion/transport/v3/packetio"
)

// Pipe is an in-memory datagram link between two endpoints, used to exercise
// exchanges without touching the network. Each endpoint delivers writes into
// the peer's receive buffer and reads from its own, preserving packet
// boundaries and honoring read deadlines the way a UDP socket does.
type Pipe struct {
	mu       sync.Mutex
	buffers  [2]*packetio.Buffer
	dropRate float64
}

// NewPipe creates a connected pair of in-memory endpoints.
func NewPipe() *Pipe {
	return &Pipe{
		buffers: [2]*packetio.Buffer{packetio.NewBuffer(), packetio.NewBuffer()},
	}
}

// SetDropRate makes subsequent writes drop with probability rate in [0, 1].
func (p *Pipe) SetDropRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropRate = rate
}

// Conn returns the endpoint with the given id (0 or 1).
func (p *Pipe) Conn(id int) *PipePacketConn {
	return &PipePacketConn{pipe: p, localID: id}
}

// Close closes both endpoints. Blocked reads return net.ErrClosed.
func (p *Pipe) Close() error {
	var firstErr error
	for _, b := range p.buffers {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Pipe) shouldDrop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dropRate <= 0 {
		return false
	}
	return rand.Float64() < p.dropRate
}

// PipeAddr is the net.Addr of a pipe endpoint.
type PipeAddr struct {
	ID   int
	Port uint16
}

// Network implements net.Addr.
func (a PipeAddr) Network() string { return "pipe" }

// String implements net.Addr.
func (a PipeAddr) String() string { return fmt.Sprintf("pipe:%d:%d", a.ID, a.Port) }

// PipePacketConn is one endpoint of a Pipe, implementing net.PacketConn.
type PipePacketConn struct {
	pipe    *Pipe
	localID int
	port    uint16
}

var _ net.PacketConn = (*PipePacketConn)(nil)

// ReadFrom implements net.PacketConn. The reported source address is always
// the peer endpoint.
func (c *PipePacketConn) ReadFrom(p []byte) (int, net.Addr, error) {
	n, err := c.pipe.buffers[c.localID].Read(p)
	if err != nil {
		return 0, nil, err
	}
	return n, PipeAddr{ID: 1 - c.localID}, nil
}

// WriteTo implements net.PacketConn. The destination address is ignored; the
// packet is delivered to the peer endpoint unless the pipe drops it.
func (c *PipePacketConn) WriteTo(p []byte, _ net.Addr) (int, error) {
	if c.pipe.shouldDrop() {
		return len(p), nil
	}
	return c.pipe.buffers[1-c.localID].Write(p)
}

// Close implements net.PacketConn. Only the local receive buffer is closed so
// the peer endpoint stays usable.
func (c *PipePacketConn) Close() error {
	return c.pipe.buffers[c.localID].Close()
}

// LocalAddr implements net.PacketConn.
func (c *PipePacketConn) LocalAddr() net.Addr {
	return PipeAddr{ID: c.localID, Port: c.port}
}

// SetDeadline implements net.PacketConn. Write deadlines are not supported;
// the read deadline is applied.
func (c *PipePacketConn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

// SetReadDeadline implements net.PacketConn.
func (c *PipePacketConn) SetReadDeadline(t time.Time) error {
	return c.pipe.buffers[c.localID].SetReadDeadline(t)
}

// SetWriteDeadline implements net.PacketConn. Writes never block, so this is
// a no-op.
func (c *PipePacketConn) SetWriteDeadline(time.Time) error { return nil }

// PipeFactory hands out one endpoint of a Pipe, satisfying Factory so
// exchanges can run over an in-memory link.
type PipeFactory struct {
	pipe    *Pipe
	localID int
}

var _ Factory = (*PipeFactory)(nil)

// NewPipeFactoryPair creates a connected pipe and returns a factory for each
// of its endpoints.
func NewPipeFactoryPair() (*PipeFactory, *PipeFactory) {
	p := NewPipe()
	return &PipeFactory{pipe: p, localID: 0}, &PipeFactory{pipe: p, localID: 1}
}

// Pipe returns the underlying link, e.g. to adjust its drop rate.
func (f *PipeFactory) Pipe() *Pipe { return f.pipe }

// PacketConn implements Factory.
func (f *PipeFactory) PacketConn(localPort uint16) (net.PacketConn, error) {
	c := f.pipe.Conn(f.localID)
	c.port = localPort
	return c, nil
}
