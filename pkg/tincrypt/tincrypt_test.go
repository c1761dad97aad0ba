package tincrypt

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, KeySize)
	return key
}

func TestNewRejectsBadKeys(t *testing.T) {
	t.Parallel()

	t.Run("short key", func(t *testing.T) {
		_, err := New(make([]byte, 16))
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("long key", func(t *testing.T) {
		_, err := New(make([]byte, 64))
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("nil key", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestNewFromEnv(t *testing.T) {
	t.Run("missing key is a configuration error", func(t *testing.T) {
		t.Setenv(EnvKey, "")
		_, err := NewFromEnv()
		require.ErrorIs(t, err, ErrKeyNotConfigured)
	})

	t.Run("undecodable key rejected", func(t *testing.T) {
		t.Setenv(EnvKey, "not!!!base64url***")
		_, err := NewFromEnv()
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("wrong decoded length rejected", func(t *testing.T) {
		t.Setenv(EnvKey, base64.RawURLEncoding.EncodeToString(make([]byte, 16)))
		_, err := NewFromEnv()
		require.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("generated key round-trips through the env", func(t *testing.T) {
		encoded, err := GenerateKey()
		require.NoError(t, err)

		t.Setenv(EnvKey, encoded)
		c, err := NewFromEnv()
		require.NoError(t, err)

		ct, err := c.Encrypt("123-45-6789")
		require.NoError(t, err)

		tin, err := c.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, "123456789", tin)
	})
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, input := range []string{
		"123456789",
		"123-45-6789",
		"12-3456789",
		"123 45 6789",
	} {
		ct, err := c.Encrypt(input)
		require.NoError(t, err)

		tin, err := c.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, "123456789", tin, "input %q", input)
	}
}

func TestEncryptRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, input := range []string{"", "---", "  ", "- -"} {
		_, err := c.Encrypt(input)
		require.ErrorIs(t, err, ErrEmptyTIN, "input %q", input)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	first, err := c.Encrypt("123-45-6789")
	require.NoError(t, err)
	second, err := c.Encrypt("123-45-6789")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "fresh nonce per call must vary the ciphertext")

	// Both ciphertexts remain independently decryptable.
	a, err := c.Decrypt(first)
	require.NoError(t, err)
	b, err := c.Decrypt(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDecryptDetectsTampering(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	ct, err := c.Encrypt("123456789")
	require.NoError(t, err)

	// Flipping any single byte (nonce, body, or tag) must fail closed.
	for i := range ct {
		mangled := append([]byte(nil), ct...)
		mangled[i] ^= 0x01

		_, err := c.Decrypt(mangled)
		require.ErrorIs(t, err, ErrDecrypt, "byte %d", i)
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	c, err := New(testKey(t))
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		_, err := c.Decrypt([]byte{0x01, 0x02})
		require.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := c.Decrypt(nil)
		require.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := New(bytes.Repeat([]byte{0x7f}, KeySize))
		require.NoError(t, err)

		ct, err := c.Encrypt("123456789")
		require.NoError(t, err)

		_, err = other.Decrypt(ct)
		require.ErrorIs(t, err, ErrDecrypt)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("ssn pattern", func(t *testing.T) {
		require.Equal(t, "123-45-6789", Format("123456789", SSN))
		require.Equal(t, "123-45-6789", Format("123-45-6789", SSN))
	})

	t.Run("ein pattern", func(t *testing.T) {
		require.Equal(t, "12-3456789", Format("123456789", EIN))
		require.Equal(t, "12-3456789", Format("12-3456789", EIN))
	})

	t.Run("non nine digit strings pass through stripped", func(t *testing.T) {
		require.Equal(t, "12345", Format("123-45", SSN))
		require.Equal(t, "1234567890", Format("1234567890", EIN))
		require.Equal(t, "", Format("--", SSN))
	})

	t.Run("idempotent after first application", func(t *testing.T) {
		once := Format("123456789", SSN)
		require.Equal(t, once, Format(once, SSN))

		once = Format("123456789", EIN)
		require.Equal(t, once, Format(once, EIN))
	})
}
