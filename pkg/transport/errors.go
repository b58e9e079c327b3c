package transport

import "errors"

// Transport errors.
var (
	// ErrSetup is returned when the exchange socket cannot be bound. Fatal
	// for the exchange; no retry is built in.
	ErrSetup = errors.New("transport: socket setup failed")

	// ErrSend is returned when the outbound datagram cannot be sent.
	ErrSend = errors.New("transport: send failed")

	// ErrNoResponse is returned by a collect-first exchange when the timeout
	// elapses with no reply. Callers may retry or treat it as device absence.
	ErrNoResponse = errors.New("transport: no response within timeout")

	// ErrInvalidAddress is returned when no destination address is provided.
	ErrInvalidAddress = errors.New("transport: invalid destination address")

	// ErrNoLocalAddress is returned when no non-loopback IPv4 address can be
	// found on any local interface.
	ErrNoLocalAddress = errors.New("transport: no local IPv4 address found")
)
