package latent

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	seed := []byte("build-seed")

	a, err := DeriveKey(seed, "api_key", CipherRC4, 0)
	if err != nil {
		t.Fatalf("DeriveKey() error: %v", err)
	}
	b, err := DeriveKey(seed, "api_key", CipherRC4, 0)
	if err != nil {
		t.Fatalf("DeriveKey() error: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("same inputs should derive the same key")
	}
	if len(a) != DefaultRC4KeyLen {
		t.Errorf("len = %d, want %d", len(a), DefaultRC4KeyLen)
	}
}

func TestDeriveKey_Separation(t *testing.T) {
	seed := []byte("build-seed")

	base, _ := DeriveKey(seed, "api_key", CipherRC4, 32)
	otherName, _ := DeriveKey(seed, "db_password", CipherRC4, 32)
	otherSeed, _ := DeriveKey([]byte("other-seed"), "api_key", CipherRC4, 32)

	if bytes.Equal(base, otherName) {
		t.Error("different names should derive different keys")
	}
	if bytes.Equal(base, otherSeed) {
		t.Error("different seeds should derive different keys")
	}
}

func TestDeriveKey_XORIsOneByte(t *testing.T) {
	key, err := DeriveKey([]byte("seed"), "flag", CipherXOR, 64)
	if err != nil {
		t.Fatalf("DeriveKey() error: %v", err)
	}
	if len(key) != 1 {
		t.Errorf("len = %d, want 1", len(key))
	}
	if err := XOR().ValidateKey(key); err != nil {
		t.Errorf("derived XOR key rejected: %v", err)
	}
}

func TestDeriveKey_Errors(t *testing.T) {
	tests := []struct {
		name string
		seed []byte
		algo CipherAlgo
		size int
		want error
	}{
		{"empty seed", nil, CipherRC4, 16, ErrInvalidKeySize},
		{"rc4 too long", []byte("s"), CipherRC4, 257, ErrInvalidKeySize},
		{"rc4 negative", []byte("s"), CipherRC4, -1, ErrInvalidKeySize},
		{"unknown cipher", []byte("s"), "aes", 16, ErrUnknownCipher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveKey(tt.seed, "x", tt.algo, tt.size)
			if !errors.Is(err, tt.want) {
				t.Errorf("DeriveKey() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSeedFromPassphrase(t *testing.T) {
	params := Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}
	salt := []byte("project-salt")

	a, err := SeedFromPassphrase([]byte("correct horse"), salt, params)
	if err != nil {
		t.Fatalf("SeedFromPassphrase() error: %v", err)
	}
	b, _ := SeedFromPassphrase([]byte("correct horse"), salt, params)
	c, _ := SeedFromPassphrase([]byte("battery staple"), salt, params)

	if len(a) != 32 {
		t.Errorf("len = %d, want 32", len(a))
	}
	if !bytes.Equal(a, b) {
		t.Error("same passphrase and salt should give the same seed")
	}
	if bytes.Equal(a, c) {
		t.Error("different passphrases should give different seeds")
	}

	if _, err := SeedFromPassphrase(nil, salt, params); err == nil {
		t.Error("empty passphrase should fail")
	}
	if _, err := SeedFromPassphrase([]byte("p"), []byte("short"), params); err == nil {
		t.Error("short salt should fail")
	}
}
