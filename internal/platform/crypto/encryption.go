package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotConfigured      = errors.New("encryption key not configured")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	errKeyLength          = errors.New("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
)

// Box seals small secrets (MFA seeds) with AES-256-GCM. The nonce is
// prepended to the ciphertext.
type Box struct {
	aead cipher.AEAD
}

// New returns an unconfigured Box for an empty key.
func New(key string) (*Box, error) {
	if key == "" {
		return &Box{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, errKeyLength
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Box{aead: aead}, nil
}

func (b *Box) Configured() bool {
	return b != nil && b.aead != nil
}

func (b *Box) Seal(plain []byte) ([]byte, error) {
	if !b.Configured() {
		return nil, ErrNotConfigured
	}
	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(plain)+b.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plain, nil), nil
}

func (b *Box) Open(sealed []byte) ([]byte, error) {
	if !b.Configured() {
		return nil, ErrNotConfigured
	}
	size := b.aead.NonceSize()
	if len(sealed) < size {
		return nil, ErrCiphertextTooShort
	}
	return b.aead.Open(nil, sealed[:size], sealed[size:], nil)
}

func (b *Box) EncryptString(value string) ([]byte, error) {
	return b.Seal([]byte(value))
}

func (b *Box) DecryptString(value []byte) (string, error) {
	plain, err := b.Open(value)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// decodeKey accepts hex, standard base64 (padded or not) or raw bytes.
func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
