// Package testing provides test utilities for latent.
package testing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/latent"
)

// TestRC4Key returns a fixed 16-byte RC4 key for testing.
func TestRC4Key(t testing.TB) []byte {
	t.Helper()
	return []byte("16-byte-rc4-key!")
}

// TestXORKey returns a fixed single-byte XOR key for testing.
func TestXORKey(t testing.TB) []byte {
	t.Helper()
	return []byte{0xAA}
}

// CountingCipher wraps a cipher and counts calls. An optional delay is added
// to every Decode to widen race windows.
type CountingCipher struct {
	latent.Cipher
	delay   time.Duration
	decodes atomic.Int64
	encodes atomic.Int64
}

// NewCountingCipher wraps inner.
func NewCountingCipher(inner latent.Cipher, delay time.Duration) *CountingCipher {
	return &CountingCipher{Cipher: inner, delay: delay}
}

// Encode counts the call and delegates.
func (c *CountingCipher) Encode(buf, key []byte) {
	c.encodes.Add(1)
	c.Cipher.Encode(buf, key)
}

// Decode counts the call, sleeps for the configured delay, and delegates.
func (c *CountingCipher) Decode(buf, key []byte) {
	c.decodes.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.Cipher.Decode(buf, key)
}

// Decodes returns how many times Decode ran.
func (c *CountingCipher) Decodes() int64 {
	return c.decodes.Load()
}

// Encodes returns how many times Encode ran.
func (c *CountingCipher) Encodes() int64 {
	return c.encodes.Load()
}

// NewTextCell builds a text cell over an RC4 test key and closes it when the test ends.
func NewTextCell(t testing.TB, name, plaintext string, opts ...latent.Option) *latent.Cell {
	t.Helper()
	opts = append([]latent.Option{latent.WithName(name), latent.WithView(latent.ViewText)}, opts...)
	cell, err := latent.New([]byte(plaintext), latent.RC4(), TestRC4Key(t), opts...)
	if err != nil {
		t.Fatalf("latent.New(%s) error: %v", name, err)
	}
	t.Cleanup(func() { _ = cell.Close() })
	return cell
}

// Secret is a fixture plaintext with the settings used to seal it.
type Secret struct {
	Name      string
	Plaintext []byte
	Cipher    latent.Cipher
	Key       []byte
	Options   []latent.Option
}

// Secrets returns a fixed fixture set covering both ciphers, both views and
// every release kind.
func Secrets(t testing.TB) []Secret {
	t.Helper()
	return []Secret{
		{
			Name:      "db_password",
			Plaintext: []byte("hunter2"),
			Cipher:    latent.RC4(),
			Key:       TestRC4Key(t),
			Options:   []latent.Option{latent.WithView(latent.ViewText)},
		},
		{
			Name:      "api_key",
			Plaintext: []byte("sk_live_4eC39HqLyjWD"),
			Cipher:    latent.RC4(),
			Key:       []byte("my-secret-key!!"),
			Options:   []latent.Option{latent.WithView(latent.ViewText), latent.WithRelease(latent.ReEncrypt(nil))},
		},
		{
			Name:      "greeting",
			Plaintext: []byte("hello"),
			Cipher:    latent.XOR(),
			Key:       TestXORKey(t),
			Options:   []latent.Option{latent.WithView(latent.ViewText), latent.WithRelease(latent.ReEncrypt([]byte{0x55}))},
		},
		{
			Name:      "hmac",
			Plaintext: []byte{0x00, 0x01, 0x7F, 0x80, 0xFE, 0xFF},
			Cipher:    latent.XOR(),
			Key:       TestXORKey(t),
			Options:   []latent.Option{latent.WithRelease(latent.NoOp())},
		},
	}
}

// SealAll seals every fixture.
func SealAll(t testing.TB, secrets []Secret) []latent.Sealed {
	t.Helper()
	out := make([]latent.Sealed, 0, len(secrets))
	for _, s := range secrets {
		sealed, err := latent.Seal(s.Name, s.Plaintext, s.Cipher, s.Key, s.Options...)
		if err != nil {
			t.Fatalf("latent.Seal(%s) error: %v", s.Name, err)
		}
		out = append(out, sealed)
	}
	return out
}
