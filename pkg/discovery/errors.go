package discovery

import "errors"

// Discovery errors.
var (
	// ErrResponseTooShort is returned when a discovery reply is too short to
	// carry the device fields.
	ErrResponseTooShort = errors.New("discovery: response too short")

	// ErrNoIPv4Address is returned when the hello message is given a local
	// address that is not IPv4.
	ErrNoIPv4Address = errors.New("discovery: local address is not IPv4")
)
