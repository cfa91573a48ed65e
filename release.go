package latent

import (
	"github.com/zoobzio/latent/internal/mem"
)

// Release is the end-of-life action a Cell applies to its buffer when closed.
// The set of actions is closed: use Wipe, ReEncrypt or NoOp.
type Release struct {
	kind ReleaseKind
	key  []byte
}

// Wipe zeroes the buffer with a write the compiler cannot remove.
func Wipe() Release {
	return Release{kind: ReleaseWipe}
}

// ReEncrypt encodes the buffer again with key, restoring ciphertext.
// A nil key reuses the cell's own key. The key is copied.
//
// ReEncrypt only acts when the cell was decrypted; a buffer that still holds
// ciphertext is left as it is rather than encoded a second time.
func ReEncrypt(key []byte) Release {
	var k []byte
	if key != nil {
		k = append([]byte(nil), key...)
	}
	return Release{kind: ReleaseReEncrypt, key: k}
}

// NoOp leaves the buffer untouched.
func NoOp() Release {
	return Release{kind: ReleaseNoOp}
}

// ReleaseFor builds a Release from its persisted form.
func ReleaseFor(kind ReleaseKind, key []byte) (Release, error) {
	switch kind {
	case ReleaseWipe:
		return Wipe(), nil
	case ReleaseReEncrypt:
		return ReEncrypt(key), nil
	case ReleaseNoOp:
		return NoOp(), nil
	default:
		return Release{}, newConfigError(ErrUnknownRelease, string(kind), "")
	}
}

// Kind returns the release kind. The zero Release reports ReleaseWipe.
func (r Release) Kind() ReleaseKind {
	if r.kind == "" {
		return ReleaseWipe
	}
	return r.kind
}

// Key returns the re-encryption key, or nil when the cell key is reused.
func (r Release) Key() []byte {
	return r.key
}

// validate checks the release key against the cell cipher.
func (r Release) validate(c Cipher) error {
	if r.Kind() != ReleaseReEncrypt || r.key == nil {
		return nil
	}
	return c.ValidateKey(r.key)
}

// apply runs the action against buf. prior is the gate state at release.
func (r Release) apply(buf []byte, c Cipher, cellKey []byte, prior State) {
	switch r.Kind() {
	case ReleaseWipe:
		mem.Wipe(buf)
	case ReleaseReEncrypt:
		if prior != StateDecrypted {
			return
		}
		key := r.key
		if key == nil {
			key = cellKey
		}
		c.Encode(buf, key)
	case ReleaseNoOp:
	}
}
