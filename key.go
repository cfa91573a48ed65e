package latent

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// DefaultRC4KeyLen is the derived key length when none is requested.
const DefaultRC4KeyLen = 16

// deriveSalt fixes the HKDF salt so derivation is reproducible across builds.
const deriveSalt = "latent.derive.v1"

// DeriveKey derives a cipher key from a seed with HKDF-SHA256. The secret name
// and algorithm are bound into the derivation, so every secret gets its own key.
// XOR keys are always one byte; a size of 0 selects DefaultRC4KeyLen for RC4.
func DeriveKey(seed []byte, name string, algo CipherAlgo, size int) ([]byte, error) {
	if len(seed) == 0 {
		return nil, newConfigError(ErrInvalidKeySize, string(algo), "derivation seed is empty")
	}

	switch algo {
	case CipherXOR:
		size = 1
	case CipherRC4:
		if size == 0 {
			size = DefaultRC4KeyLen
		}
		if size < MinRC4KeyLen || size > MaxRC4KeyLen {
			return nil, newConfigError(ErrInvalidKeySize, string(algo),
				fmt.Sprintf("got %d bytes, want %d-%d", size, MinRC4KeyLen, MaxRC4KeyLen))
		}
	default:
		return nil, newConfigError(ErrUnknownCipher, string(algo), "")
	}

	info := make([]byte, 0, len(algo)+1+len(name))
	info = append(info, string(algo)...)
	info = append(info, 0)
	info = append(info, name...)

	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, []byte(deriveSalt), info), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Argon2Params configures passphrase stretching.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output seed length
}

// DefaultArgon2Params returns the Argon2id parameters used by SeedFromPassphrase.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
		KeyLen:  32,
	}
}

// SeedFromPassphrase stretches a passphrase into a derivation seed with Argon2id.
// The salt is caller supplied and must be stable for the output to be reproducible.
func SeedFromPassphrase(passphrase, salt []byte, params Argon2Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("passphrase is empty")
	}
	if len(salt) < 8 {
		return nil, fmt.Errorf("salt must be at least 8 bytes, got %d", len(salt))
	}
	return argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, params.KeyLen), nil
}
