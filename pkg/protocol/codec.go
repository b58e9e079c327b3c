package protocol

import (
	"github.com/castaf/broadlink/pkg/checksum"
	"github.com/castaf/broadlink/pkg/crypto"
)

// Codec packs and unpacks command envelopes for one device profile. Apart
// from its immutable profile a Codec holds no state: it can be shared by
// concurrent exchanges, and no envelope outlives the call that built or
// parsed it.
type Codec struct {
	deviceType uint16
	mac        [6]byte
	id         uint32
	cipher     *crypto.AESCBC
	count      CountSource
}

// CodecConfig describes the device profile a Codec packs envelopes for.
type CodecConfig struct {
	// DeviceType is the numeric model identifier of the target device.
	DeviceType uint16

	// MAC is the hardware address, in natural byte order.
	MAC [6]byte

	// ID is the device-assigned session identifier; zero before
	// authentication.
	ID uint32

	// Key is the 16-byte AES-128 key. Use InitialKey before a handshake has
	// assigned a per-session key.
	Key []byte

	// Count supplies per-message sequence numbers. Nil selects RandomCount.
	Count CountSource
}

// NewCodec creates a codec for the given device profile. It fails with
// ErrInvalidKey if the key is not exactly 16 bytes.
func NewCodec(config CodecConfig) (*Codec, error) {
	cipher, err := crypto.NewAESCBC(config.Key, InitialIV)
	if err != nil {
		return nil, ErrInvalidKey
	}

	count := config.Count
	if count == nil {
		count = RandomCount
	}

	return &Codec{
		deviceType: config.DeviceType,
		mac:        config.MAC,
		id:         config.ID,
		cipher:     cipher,
		count:      count,
	}, nil
}

// Pack builds the wire bytes for cmd.
func (c *Codec) Pack(cmd Command) ([]byte, error) {
	payload, err := cmd.Payload()
	if err != nil {
		return nil, err
	}
	return c.PackPayload(cmd.PacketType(), payload)
}

// PackPayload builds the wire bytes for an envelope carrying payload under
// the given packet type.
//
// The payload checksum is taken over the plaintext before encryption; the
// envelope checksum is taken over the serialized header (checksum field
// zeroed) concatenated with the ciphertext. The output is HeaderSize plus the
// padded payload length.
func (c *Codec) PackPayload(packetType uint16, payload []byte) ([]byte, error) {
	header := CommandHeader{
		DeviceType:      c.deviceType,
		PacketType:      packetType,
		Count:           c.count() | 0x8000,
		MAC:             c.mac,
		ID:              c.id,
		PayloadChecksum: checksum.Additive(payload),
	}

	ciphertext := c.cipher.Encrypt(payload)

	buf := make([]byte, HeaderSize+len(ciphertext))
	header.EncodeTo(buf)
	copy(buf[HeaderSize:], ciphertext)

	header.Checksum = checksum.Additive(buf)
	header.EncodeTo(buf[:HeaderSize])
	copy(buf[HeaderSize:], ciphertext)

	return buf, nil
}

// Unpack validates and decrypts a received envelope, returning the plaintext
// payload. The input buffer is never modified.
//
// Validation order is cheap-first: the envelope checksum covers the
// ciphertext and catches transport corruption before any decryption; the
// payload checksum covers the plaintext and catches key mismatch after.
// Trailing zero bytes of the plaintext are indistinguishable from cipher
// padding and are trimmed.
func (c *Codec) Unpack(data []byte) ([]byte, error) {
	if len(data) == HeaderSize {
		return nil, ErrDeviceLocked
	}
	if len(data) < HeaderSize {
		return nil, ErrTruncatedMessage
	}

	var header CommandHeader
	if err := header.Decode(data); err != nil {
		return nil, err
	}

	if got := checksumWithZeroedField(data); got != header.Checksum {
		return nil, &ChecksumError{err: ErrChecksumMismatch, Want: header.Checksum, Got: got}
	}

	plaintext, err := c.cipher.Decrypt(data[HeaderSize:])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext = trimZeroPadding(plaintext)

	if got := checksum.Additive(plaintext); got != header.PayloadChecksum {
		return nil, &ChecksumError{err: ErrPayloadChecksumMismatch, Want: header.PayloadChecksum, Got: got}
	}

	return plaintext, nil
}

// checksumWithZeroedField computes the additive checksum of data as if the
// two checksum bytes were zero, without mutating the caller's buffer. The
// additive checksum is a plain byte sum, so the field's contribution can be
// subtracted instead of copied away.
func checksumWithZeroedField(data []byte) uint16 {
	sum := checksum.Additive(data)
	sum -= uint16(data[offChecksum])
	sum -= uint16(data[offChecksum+1])
	return sum
}

// trimZeroPadding strips the zero bytes the cipher appended to reach the
// block boundary. The additive payload checksum is insensitive to trailing
// zeros, so verification holds on the trimmed plaintext.
func trimZeroPadding(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
