// Package tincrypt protects Tax Identification Numbers (SSNs and EINs) at
// rest. TINs are encrypted with AES-256-GCM so tampering or a wrong key is
// detected on decryption rather than yielding garbage plaintext.
package tincrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EnvKey is the environment variable NewFromEnv reads the encryption key
// from. The value is the base64url encoding of 32 random bytes, as printed
// by GenerateKey.
const EnvKey = "TIN_ENCRYPTION_KEY"

// KeySize is the required raw key length in bytes (AES-256).
const KeySize = 32

var (
	// ErrKeyNotConfigured reports that no key was supplied and none could
	// be read from the environment.
	ErrKeyNotConfigured = errors.New("tincrypt: " + EnvKey + " not set")

	// ErrInvalidKey reports key material that is not a 32-byte key (raw or
	// base64url encoded).
	ErrInvalidKey = errors.New("tincrypt: key must be 32 bytes")

	// ErrEmptyTIN reports an encryption input that is empty after
	// separator stripping.
	ErrEmptyTIN = errors.New("tincrypt: empty tin")

	// ErrDecrypt reports any decryption failure: truncated input, flipped
	// bytes, or the wrong key. The cause is deliberately not distinguished.
	ErrDecrypt = errors.New("tincrypt: decryption failed")
)

// Cipher encrypts and decrypts TINs under a single key held for its
// lifetime. The key is never rotated or persisted by the cipher. A Cipher is
// safe for concurrent use; calls do not mutate its state.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a raw 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("tincrypt: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("tincrypt: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// NewFromString builds a Cipher from a base64url-encoded key, the form
// produced by GenerateKey.
func NewFromString(encoded string) (*Cipher, error) {
	if encoded == "" {
		return nil, ErrKeyNotConfigured
	}

	key, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	return New(key)
}

// NewFromEnv builds a Cipher from the TIN_ENCRYPTION_KEY environment
// variable. A missing value is a configuration error for this construction
// call only; callers may set the variable and retry.
func NewFromEnv() (*Cipher, error) {
	return NewFromString(os.Getenv(EnvKey))
}

// Encrypt seals the canonical (separator-stripped) form of tin. Each call
// uses a fresh random nonce, so encrypting the same TIN twice yields
// different ciphertexts. The output layout is [nonce][ciphertext][auth tag].
func (c *Cipher) Encrypt(tin string) ([]byte, error) {
	clean := Normalize(tin)
	if clean == "" {
		return nil, ErrEmptyTIN
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("tincrypt: generate nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, []byte(clean), nil), nil
}

// Decrypt authenticates and opens data produced by Encrypt, returning the
// canonical TIN. Any failure is reported as ErrDecrypt; unauthenticated
// plaintext is never returned.
func (c *Cipher) Decrypt(data []byte) (string, error) {
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrDecrypt
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

// Normalize strips the separators accepted on intake (dashes and spaces),
// yielding the canonical storage form. A valid 9-digit TIN normalizes to a
// 9-character digit string.
func Normalize(tin string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(tin)
}

// GenerateKey returns a fresh random key in the base64url form expected by
// NewFromEnv. Key generation happens out of band; the service only ever
// consumes the result.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("tincrypt: generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}
