package latent

import (
	"bytes"
	"crypto/rc4" //nolint:staticcheck // reference implementation for cross-checking
	"encoding/hex"
	"errors"
	"testing"
)

func TestXOR_RoundTrip(t *testing.T) {
	c := XOR()
	key := []byte{0xAA}

	plaintext := []byte("hello, world!")
	buf := append([]byte(nil), plaintext...)

	c.Encode(buf, key)
	if bytes.Equal(buf, plaintext) {
		t.Error("ciphertext should differ from plaintext")
	}

	c.Decode(buf, key)
	if !bytes.Equal(buf, plaintext) {
		t.Errorf("round-trip failed: got %q, want %q", buf, plaintext)
	}
}

func TestXOR_Involution(t *testing.T) {
	c := XOR()
	key := []byte{0x5C}
	plaintext := []byte{0x00, 0x01, 0x7F, 0x80, 0xFF}

	encoded := append([]byte(nil), plaintext...)
	c.Encode(encoded, key)

	decoded := append([]byte(nil), plaintext...)
	c.Decode(decoded, key)

	if !bytes.Equal(encoded, decoded) {
		t.Errorf("Encode and Decode should be the same operation: %x vs %x", encoded, decoded)
	}

	c.Encode(encoded, key)
	if !bytes.Equal(encoded, plaintext) {
		t.Errorf("applying XOR twice should restore input: got %x, want %x", encoded, plaintext)
	}
}

func TestXOR_Bytewise(t *testing.T) {
	buf := []byte("hello")
	XOR().Encode(buf, []byte{0xAA})

	for i, b := range []byte("hello") {
		if buf[i] != b^0xAA {
			t.Errorf("byte %d = %#x, want %#x", i, buf[i], b^0xAA)
		}
	}
}

func TestXOR_ValidateKey(t *testing.T) {
	c := XOR()

	if err := c.ValidateKey([]byte{0x01}); err != nil {
		t.Errorf("ValidateKey(1 byte) error: %v", err)
	}

	for _, key := range [][]byte{nil, {}, {0x01, 0x02}} {
		err := c.ValidateKey(key)
		if !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("ValidateKey(%d bytes) = %v, want ErrInvalidKeySize", len(key), err)
		}
	}
}

func TestRC4_ReferenceVectors(t *testing.T) {
	tests := []struct {
		key, plaintext, want string
	}{
		{"Key", "Plaintext", "bbf316e8d940af0ad3"},
		{"Wiki", "pedia", "1021bf0420"},
		{"Secret", "Attack at dawn", "45a01f645fc35b383552544b9bf5"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			buf := []byte(tt.plaintext)
			RC4().Encode(buf, []byte(tt.key))

			if got := hex.EncodeToString(buf); got != tt.want {
				t.Errorf("RC4(%q, %q) = %s, want %s", tt.key, tt.plaintext, got, tt.want)
			}
		})
	}
}

func TestRC4_RoundTrip(t *testing.T) {
	c := RC4()
	key := []byte("my-secret-key!!")
	plaintext := []byte("rc4sec")

	buf := append([]byte(nil), plaintext...)
	c.Encode(buf, key)
	if bytes.Equal(buf, plaintext) {
		t.Error("ciphertext should differ from plaintext")
	}

	c.Decode(buf, key)
	if !bytes.Equal(buf, plaintext) {
		t.Errorf("round-trip failed: got %q, want %q", buf, plaintext)
	}
}

func TestRC4_Stateless(t *testing.T) {
	c := RC4()
	key := []byte("stateless")

	a := []byte("same input")
	b := []byte("same input")
	c.Encode(a, key)
	c.Encode(b, key)

	if !bytes.Equal(a, b) {
		t.Error("repeated Encode calls should produce identical ciphertext")
	}
}

func TestRC4_MatchesStandardLibrary(t *testing.T) {
	keys := [][]byte{
		{0x00},
		[]byte("benchmark-key-16"),
		bytes.Repeat([]byte{0xA5}, 256),
	}
	plaintext := bytes.Repeat([]byte("0123456789abcdef"), 17)

	for _, key := range keys {
		ref, err := rc4.NewCipher(key)
		if err != nil {
			t.Fatalf("rc4.NewCipher() error: %v", err)
		}
		want := make([]byte, len(plaintext))
		ref.XORKeyStream(want, plaintext)

		got := append([]byte(nil), plaintext...)
		RC4().Encode(got, key)

		if !bytes.Equal(got, want) {
			t.Errorf("key length %d: keystream differs from crypto/rc4", len(key))
		}
	}
}

func TestRC4_ValidateKey_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"empty", 0, true},
		{"one", 1, false},
		{"max", 256, false},
		{"over", 257, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RC4().ValidateKey(make([]byte, tt.size))
			if tt.wantErr && !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("ValidateKey(%d) = %v, want ErrInvalidKeySize", tt.size, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateKey(%d) error: %v", tt.size, err)
			}
		})
	}
}

func TestCipherFor(t *testing.T) {
	c, err := CipherFor(CipherRC4)
	if err != nil {
		t.Fatalf("CipherFor(rc4) error: %v", err)
	}
	if c.Algo() != CipherRC4 {
		t.Errorf("Algo() = %q, want %q", c.Algo(), CipherRC4)
	}

	c, err = CipherFor(CipherXOR)
	if err != nil {
		t.Fatalf("CipherFor(xor) error: %v", err)
	}
	if c.Algo() != CipherXOR {
		t.Errorf("Algo() = %q, want %q", c.Algo(), CipherXOR)
	}

	if _, err := CipherFor("aes"); !errors.Is(err, ErrUnknownCipher) {
		t.Errorf("CipherFor(aes) = %v, want ErrUnknownCipher", err)
	}
}

func TestRC4_NoAllocation(t *testing.T) {
	buf := make([]byte, 64)
	key := []byte("alloc-free")
	c := RC4()

	allocs := testing.AllocsPerRun(100, func() {
		c.Encode(buf, key)
	})
	if allocs != 0 {
		t.Errorf("Encode allocated %.0f times, want 0", allocs)
	}
}
