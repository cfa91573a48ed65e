package latent

// CipherAlgo names a supported obfuscation cipher.
// Use these constants in manifests and bundles: `cipher: rc4`
type CipherAlgo string

const (
	// CipherXOR XORs every byte with a single key byte.
	CipherXOR CipherAlgo = "xor"

	// CipherRC4 applies the RC4 keystream derived from a 1-256 byte key.
	CipherRC4 CipherAlgo = "rc4"
)

// ViewMode describes how a decrypted buffer is interpreted.
type ViewMode string

const (
	// ViewText exposes the buffer as a string. The plaintext must be valid UTF-8.
	ViewText ViewMode = "text"

	// ViewBytes exposes the buffer as raw bytes with no interpretation.
	ViewBytes ViewMode = "bytes"
)

// ReleaseKind names the end-of-life action applied when a Cell is closed.
type ReleaseKind string

const (
	// ReleaseWipe zeroes the buffer.
	ReleaseWipe ReleaseKind = "wipe"

	// ReleaseReEncrypt encodes the plaintext back into ciphertext.
	ReleaseReEncrypt ReleaseKind = "reencrypt"

	// ReleaseNoOp leaves the buffer as it is.
	ReleaseNoOp ReleaseKind = "noop"
)

// validCipherAlgos contains all valid cipher algorithms for manifest validation.
var validCipherAlgos = map[CipherAlgo]bool{
	CipherXOR: true,
	CipherRC4: true,
}

// validViewModes contains all valid view modes.
var validViewModes = map[ViewMode]bool{
	ViewText:  true,
	ViewBytes: true,
}

// validReleaseKinds contains all valid release kinds.
var validReleaseKinds = map[ReleaseKind]bool{
	ReleaseWipe:      true,
	ReleaseReEncrypt: true,
	ReleaseNoOp:      true,
}

// validMaskTypes contains all valid mask types.
var validMaskTypes = map[MaskType]bool{
	MaskFull:  true,
	MaskTail:  true,
	MaskToken: true,
}

// IsValidCipherAlgo returns true if the algorithm is a known cipher.
func IsValidCipherAlgo(algo CipherAlgo) bool {
	return validCipherAlgos[algo]
}

// IsValidViewMode returns true if the mode is a known view mode.
func IsValidViewMode(mode ViewMode) bool {
	return validViewModes[mode]
}

// IsValidReleaseKind returns true if the kind is a known release kind.
func IsValidReleaseKind(kind ReleaseKind) bool {
	return validReleaseKinds[kind]
}

// IsValidMaskType returns true if the type is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}
