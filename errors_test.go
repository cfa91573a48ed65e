package latent

import (
	"errors"
	"testing"
)

func TestConfigError_Is(t *testing.T) {
	err := newConfigError(ErrInvalidKeySize, "rc4", "got 0 bytes")

	if !errors.Is(err, ErrInvalidKeySize) {
		t.Error("ConfigError should unwrap to ErrInvalidKeySize")
	}

	if errors.Is(err, ErrUnknownCipher) {
		t.Error("ConfigError should not match ErrUnknownCipher")
	}
}

func TestConfigError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full context",
			err:  &ConfigError{Err: ErrInvalidKeySize, Algorithm: "rc4", Detail: "got 0 bytes", Secret: "api_key"},
			want: `invalid key size for "rc4": got 0 bytes (secret api_key)`,
		},
		{
			name: "algorithm only",
			err:  &ConfigError{Err: ErrUnknownCipher, Algorithm: "aes"},
			want: `unknown cipher for "aes"`,
		},
		{
			name: "secret only",
			err:  &ConfigError{Err: ErrInvalidText, Secret: "banner"},
			want: `plaintext is not valid UTF-8 (secret banner)`,
		},
		{
			name: "bare",
			err:  &ConfigError{Err: ErrChecksum},
			want: `checksum mismatch`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSecret(t *testing.T) {
	err := withSecret(newConfigError(ErrInvalidKeySize, "xor", ""), "token")

	var cfg *ConfigError
	if !errors.As(err, &cfg) {
		t.Fatal("expected ConfigError")
	}
	if cfg.Secret != "token" {
		t.Errorf("Secret = %q, want %q", cfg.Secret, "token")
	}

	plain := errors.New("other")
	if got := withSecret(plain, "token"); got != plain {
		t.Error("withSecret should pass through non-config errors")
	}
}

func TestCodecError_Is(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := newCodecError(ErrUnmarshal, cause)

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}

	want := "unmarshal failed: unexpected EOF"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodecError_NoCause(t *testing.T) {
	err := &CodecError{Err: ErrMarshal}
	if got := err.Error(); got != "marshal failed" {
		t.Errorf("Error() = %q, want %q", got, "marshal failed")
	}
}
