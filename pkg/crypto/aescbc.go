// AES-CBC implementation for the Broadlink command protocol.
// The protocol encrypts command payloads with AES-128 in CBC mode using:
//   - Key length: 128 bits (16 bytes), supplied per device
//   - IV length: 128 bits (16 bytes), a fixed protocol-family constant
//   - Padding: zero bytes up to the block boundary
//
// Reusing one key+IV pair across messages is intentional protocol behavior
// and part of the wire compatibility contract; the IV is never derived from
// message content.

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// AES-CBC constants.
const (
	// AESCBCKeySize is the AES-128 key size in bytes.
	AESCBCKeySize = 16

	// AESCBCIVSize is the initialization vector size in bytes.
	AESCBCIVSize = 16

	// aesBlockSize is the AES block size (always 16 bytes).
	aesBlockSize = 16
)

// Errors
var (
	ErrAESCBCInvalidKeySize = errors.New("aescbc: invalid key size, must be 16 bytes")
	ErrAESCBCInvalidIVSize  = errors.New("aescbc: invalid IV size, must be 16 bytes")
	ErrAESCBCInvalidLength  = errors.New("aescbc: ciphertext length is not a multiple of the block size")
)

// AESCBC represents an AES-128-CBC cipher instance with zero padding.
type AESCBC struct {
	block cipher.Block
	iv    []byte
}

// NewAESCBC creates a new AES-128-CBC cipher.
// The key and IV must each be exactly 16 bytes.
func NewAESCBC(key, iv []byte) (*AESCBC, error) {
	if len(key) != AESCBCKeySize {
		return nil, ErrAESCBCInvalidKeySize
	}
	if len(iv) != AESCBCIVSize {
		return nil, ErrAESCBCInvalidIVSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return &AESCBC{
		block: block,
		iv:    append([]byte(nil), iv...),
	}, nil
}

// Encrypt encrypts plaintext, zero-padding it to the block size first.
// Block-aligned input gains no extra padding block. An empty input is padded
// to one full block so the result always carries at least one block of
// ciphertext.
//
// Returns ciphertext whose length is the padded plaintext length.
func (c *AESCBC) Encrypt(plaintext []byte) []byte {
	n := len(plaintext)
	if n == 0 {
		n = 1
	}
	padded := make([]byte, (n+aesBlockSize-1)/aesBlockSize*aesBlockSize)
	copy(padded, plaintext)

	mode := cipher.NewCBCEncrypter(c.block, c.iv)
	mode.CryptBlocks(padded, padded)
	return padded
}

// Decrypt decrypts ciphertext, whose length must be a multiple of the block
// size. Zero padding is not stripped here: the plaintext is returned block
// for block, and the caller decides how to delimit it.
func (c *AESCBC) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%aesBlockSize != 0 {
		return nil, ErrAESCBCInvalidLength
	}
	if len(ciphertext) == 0 {
		return nil, nil
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(c.block, c.iv)
	mode.CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}

// AESCBCEncrypt is a convenience function for one-shot AES-128-CBC encryption
// with zero padding.
func AESCBCEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	cbc, err := NewAESCBC(key, iv)
	if err != nil {
		return nil, err
	}
	return cbc.Encrypt(plaintext), nil
}

// AESCBCDecrypt is a convenience function for one-shot AES-128-CBC
// decryption.
func AESCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	cbc, err := NewAESCBC(key, iv)
	if err != nil {
		return nil, err
	}
	return cbc.Decrypt(ciphertext)
}
