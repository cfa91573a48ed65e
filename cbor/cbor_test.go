package cbor

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/zoobzio/latent"
)

func fixtures(t *testing.T) []latent.Sealed {
	t.Helper()

	vector, err := latent.Seal("vector", []byte("Plaintext"), latent.RC4(), []byte("Key"))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	token, err := latent.Seal("token", []byte("sk_live_4eC39HqLyjWD"), latent.XOR(), []byte{0x5A},
		latent.WithView(latent.ViewText), latent.WithRelease(latent.ReEncrypt([]byte{0x33})))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	raw, err := latent.Seal("hmac", []byte{0x00, 0xFF, 0x10}, latent.RC4(), []byte("hmac-key"),
		latent.WithRelease(latent.NoOp()))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	return []latent.Sealed{vector, token, raw}
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/cbor" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/cbor")
	}
}

func TestBundleRoundTrip(t *testing.T) {
	c := New()
	secrets := fixtures(t)

	data, err := latent.EncodeBundle(c, secrets...)
	if err != nil {
		t.Fatalf("EncodeBundle() error: %v", err)
	}

	b, err := latent.DecodeBundle(c, data)
	if err != nil {
		t.Fatalf("DecodeBundle() error: %v", err)
	}
	if b.Version != latent.BundleVersion {
		t.Errorf("Version = %d, want %d", b.Version, latent.BundleVersion)
	}
	if !reflect.DeepEqual(b.Secrets, secrets) {
		t.Errorf("round-trip failed: got %+v, want %+v", b.Secrets, secrets)
	}

	for _, s := range b.Secrets {
		cell, err := latent.FromSealed(s)
		if err != nil {
			t.Fatalf("FromSealed(%s) error: %v", s.Name, err)
		}
		_ = cell.Bytes()
		_ = cell.Close()
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	c := New()
	secrets := fixtures(t)

	a, err := latent.EncodeBundle(c, secrets...)
	if err != nil {
		t.Fatalf("EncodeBundle() error: %v", err)
	}
	b, err := latent.EncodeBundle(c, secrets...)
	if err != nil {
		t.Fatalf("EncodeBundle() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("equal bundles should encode to equal bytes")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v latent.Bundle
	if err := c.Unmarshal([]byte{0xFF, 0xFF, 0xFF}, &v); err == nil {
		t.Error("Unmarshal() should fail on invalid input")
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	c := New()

	data, err := latent.EncodeBundle(c, fixtures(t)...)
	if err != nil {
		t.Fatalf("EncodeBundle() error: %v", err)
	}

	var v latent.Bundle
	if err := c.Unmarshal(data[:len(data)/2], &v); err == nil {
		t.Error("Unmarshal() should fail on truncated input")
	}
}
