package latent

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidKeySize indicates a key length outside the cipher's bounds.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrUnknownCipher indicates a cipher algorithm that is not registered.
	ErrUnknownCipher = errors.New("unknown cipher")

	// ErrUnknownView indicates a view mode that is not recognized.
	ErrUnknownView = errors.New("unknown view mode")

	// ErrUnknownRelease indicates a release kind that is not recognized.
	ErrUnknownRelease = errors.New("unknown release")

	// ErrInvalidText indicates plaintext for a text view is not valid UTF-8.
	ErrInvalidText = errors.New("plaintext is not valid UTF-8")

	// ErrChecksum indicates sealed ciphertext or metadata does not match its checksum.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrUnknownSecret indicates a secret name is not present in a store.
	ErrUnknownSecret = errors.New("unknown secret")

	// ErrDuplicateSecret indicates two secrets in a bundle share a name.
	ErrDuplicateSecret = errors.New("duplicate secret")

	// ErrMissingName indicates a bundle record without a secret name.
	ErrMissingName = errors.New("secret has no name")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrBundleVersion indicates a bundle written by an incompatible format version.
	ErrBundleVersion = errors.New("unsupported bundle version")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrReleased is the panic value when a released cell is read.
	ErrReleased = errors.New("cell released")

	// ErrViewMode is the panic value when Text is requested from a bytes view.
	ErrViewMode = errors.New("view mode mismatch")
)

// ConfigError represents a construction-time validation failure.
// It wraps a sentinel error with the secret and algorithm that triggered it.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrInvalidKeySize, etc.)
	Secret    string // Secret name, if known
	Algorithm string // Cipher, view or release value that was rejected
	Detail    string // Optional detail such as the offending length
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Algorithm != "" {
		msg = fmt.Sprintf("%s for %q", msg, e.Algorithm)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Secret != "" {
		msg = fmt.Sprintf("%s (secret %s)", msg, e.Secret)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for construction failures.
func newConfigError(sentinel error, algorithm, detail string) *ConfigError {
	return &ConfigError{
		Err:       sentinel,
		Algorithm: algorithm,
		Detail:    detail,
	}
}

// withSecret attaches a secret name to a ConfigError, leaving other errors untouched.
func withSecret(err error, name string) error {
	var cfg *ConfigError
	if name != "" && errors.As(err, &cfg) && cfg.Secret == "" {
		cfg.Secret = name
	}
	return err
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
