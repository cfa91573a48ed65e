package latent

import (
	"fmt"
)

// RC4 key length bounds.
const (
	MinRC4KeyLen = 1
	MaxRC4KeyLen = 256
)

// Cipher transforms a buffer in place.
// Implementations hold no state between calls and never allocate.
// Encode and Decode assume the key has already passed ValidateKey.
type Cipher interface {
	// Algo returns the algorithm tag recorded alongside ciphertext.
	Algo() CipherAlgo

	// ValidateKey reports whether key can be used with this cipher.
	ValidateKey(key []byte) error

	// Encode transforms plaintext in buf into ciphertext.
	Encode(buf, key []byte)

	// Decode transforms ciphertext in buf back into plaintext.
	Decode(buf, key []byte)
}

// xorCipher XORs every byte with a single key byte.
type xorCipher struct{}

// XOR returns the single-byte XOR cipher.
// Encode and Decode are the same operation: applying it twice restores the input.
func XOR() Cipher {
	return xorCipher{}
}

func (xorCipher) Algo() CipherAlgo { return CipherXOR }

func (xorCipher) ValidateKey(key []byte) error {
	if len(key) != 1 {
		return newConfigError(ErrInvalidKeySize, string(CipherXOR),
			fmt.Sprintf("must be exactly 1 byte, got %d", len(key)))
	}
	return nil
}

func (xorCipher) Encode(buf, key []byte) {
	k := key[0]
	for i := range buf {
		buf[i] ^= k
	}
}

func (c xorCipher) Decode(buf, key []byte) {
	c.Encode(buf, key)
}

// rc4Cipher applies the RC4 keystream.
type rc4Cipher struct{}

// RC4 returns the RC4 stream cipher. Keys are 1 to 256 bytes.
// Every call reschedules the key, so Encode and Decode are the same operation.
//
// RC4 is broken as a cipher; it is offered for obfuscation only.
func RC4() Cipher {
	return rc4Cipher{}
}

func (rc4Cipher) Algo() CipherAlgo { return CipherRC4 }

func (rc4Cipher) ValidateKey(key []byte) error {
	if len(key) < MinRC4KeyLen || len(key) > MaxRC4KeyLen {
		return newConfigError(ErrInvalidKeySize, string(CipherRC4),
			fmt.Sprintf("must be %d to %d bytes, got %d", MinRC4KeyLen, MaxRC4KeyLen, len(key)))
	}
	return nil
}

func (rc4Cipher) Encode(buf, key []byte) {
	var s [256]byte
	rc4Schedule(&s, key)
	rc4Stream(&s, buf)
}

func (c rc4Cipher) Decode(buf, key []byte) {
	c.Encode(buf, key)
}

// rc4Schedule runs the key-scheduling algorithm over an identity permutation.
func rc4Schedule(s *[256]byte, key []byte) {
	for i := range s {
		s[i] = byte(i)
	}
	var j byte
	for i := 0; i < 256; i++ {
		j += s[i] + key[i%len(key)]
		s[i], s[j] = s[j], s[i]
	}
}

// rc4Stream XORs the keystream generated from s into buf.
func rc4Stream(s *[256]byte, buf []byte) {
	var i, j byte
	for n := range buf {
		i++
		j += s[i]
		s[i], s[j] = s[j], s[i]
		buf[n] ^= s[s[i]+s[j]]
	}
}

// builtinCiphers is the default cipher registry.
var builtinCiphers = map[CipherAlgo]Cipher{
	CipherXOR: XOR(),
	CipherRC4: RC4(),
}

// CipherFor returns the builtin cipher for algo.
func CipherFor(algo CipherAlgo) (Cipher, error) {
	c, ok := builtinCiphers[algo]
	if !ok {
		return nil, newConfigError(ErrUnknownCipher, string(algo), "")
	}
	return c, nil
}
