package transport

import (
	"bytes"
	"testing"
	"time"
)

func TestPipeDeliversPackets(t *testing.T) {
	p := NewPipe()
	defer p.Close()

	a := p.Conn(0)
	b := p.Conn(1)

	packets := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, pkt := range packets {
		if _, err := a.WriteTo(pkt, nil); err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
	}

	buf := make([]byte, 64)
	for _, want := range packets {
		b.SetReadDeadline(time.Now().Add(time.Second))
		n, from, err := b.ReadFrom(buf)
		if err != nil {
			t.Fatalf("ReadFrom failed: %v", err)
		}
		if !bytes.Equal(buf[:n], want) {
			t.Errorf("got %q, want %q", buf[:n], want)
		}
		if addr, ok := from.(PipeAddr); !ok || addr.ID != 0 {
			t.Errorf("got source %v, want pipe endpoint 0", from)
		}
	}
}

func TestPipeReadDeadline(t *testing.T) {
	p := NewPipe()
	defer p.Close()

	conn := p.Conn(0)
	conn.SetReadDeadline(time.Now().Add(20 * time.Millisecond))

	buf := make([]byte, 64)
	_, _, err := conn.ReadFrom(buf)
	if !isTimeout(err) {
		t.Fatalf("got %v, want timeout", err)
	}
}

func TestPipeDropRate(t *testing.T) {
	p := NewPipe()
	defer p.Close()
	p.SetDropRate(1.0)

	a := p.Conn(0)
	b := p.Conn(1)

	if _, err := a.WriteTo([]byte("lost"), nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	b.SetReadDeadline(time.Now().Add(20 * time.Millisecond))
	buf := make([]byte, 64)
	if _, _, err := b.ReadFrom(buf); !isTimeout(err) {
		t.Fatalf("got %v, want timeout", err)
	}
}

func TestPipeFactoryPair(t *testing.T) {
	client, server := NewPipeFactoryPair()

	a, err := client.PacketConn(1234)
	if err != nil {
		t.Fatalf("client PacketConn failed: %v", err)
	}
	b, err := server.PacketConn(0)
	if err != nil {
		t.Fatalf("server PacketConn failed: %v", err)
	}

	if addr := a.LocalAddr().(PipeAddr); addr.Port != 1234 {
		t.Errorf("got local port %d, want 1234", addr.Port)
	}

	if _, err := a.WriteTo([]byte("hello"), nil); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	b.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 64)
	n, _, err := b.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("got %q, want %q", buf[:n], "hello")
	}
}
