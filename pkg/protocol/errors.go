package protocol

import (
	"errors"
	"fmt"
)

// Protocol layer errors.
var (
	// ErrInvalidKey is returned when the encryption key has the wrong length.
	// This is a precondition violation on the send path, not a recoverable
	// runtime case.
	ErrInvalidKey = errors.New("protocol: invalid encryption key, must be 16 bytes")

	// ErrTruncatedMessage is returned for buffers shorter than the envelope
	// header.
	ErrTruncatedMessage = errors.New("protocol: message shorter than envelope header")

	// ErrDeviceLocked is returned for a header-only reply with no payload.
	// Devices send this when cloud lock prevents local control; it is a
	// device signal, not a malformed message.
	ErrDeviceLocked = errors.New("protocol: device is locked")

	// ErrChecksumMismatch is returned when the envelope checksum does not
	// cover the received bytes.
	ErrChecksumMismatch = errors.New("protocol: envelope checksum mismatch")

	// ErrPayloadChecksumMismatch is returned when the decrypted payload does
	// not match the checksum taken before encryption.
	ErrPayloadChecksumMismatch = errors.New("protocol: payload checksum mismatch")

	// ErrDecryptionFailed is returned when the payload cannot be decrypted,
	// e.g. the ciphertext length is not a multiple of the cipher block size.
	ErrDecryptionFailed = errors.New("protocol: payload decryption failed")
)

// ChecksumError reports a checksum verification failure with the value the
// header carried and the value recomputed from the received bytes. It wraps
// ErrChecksumMismatch or ErrPayloadChecksumMismatch for errors.Is.
type ChecksumError struct {
	err  error
	Want uint16 // value carried in the envelope header
	Got  uint16 // value recomputed from the received bytes
}

// Error implements the error interface.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%v: header says 0x%04X, computed 0x%04X", e.err, e.Want, e.Got)
}

// Unwrap returns the wrapped sentinel error.
func (e *ChecksumError) Unwrap() error { return e.err }
