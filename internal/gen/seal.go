package gen

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/zoobzio/latent"
	"github.com/zoobzio/latent/internal/mem"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Sealer resolves manifest entries into sealed records.
type Sealer struct {
	// Seed drives derived keys. Required when any secret sets derive.
	Seed []byte

	// Lookup resolves env references.
	Lookup LookupFunc
}

// Entry pairs a sealed record with the Go identifier it is emitted under.
type Entry struct {
	Var    string
	Sealed latent.Sealed
}

// SealAll seals every secret in manifest order.
func (s *Sealer) SealAll(m *Manifest) ([]Entry, error) {
	entries := make([]Entry, 0, len(m.Secrets))
	for _, secret := range m.Secrets {
		sealed, err := s.Seal(secret)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Var: secret.VarName(), Sealed: sealed})
	}
	return entries, nil
}

// Seal resolves one secret's plaintext and key and seals it. The resolved
// plaintext is wiped before returning.
func (s *Sealer) Seal(secret Secret) (latent.Sealed, error) {
	algo := latent.CipherAlgo(secret.Cipher)
	c, err := latent.CipherFor(algo)
	if err != nil {
		return latent.Sealed{}, fmt.Errorf("secret %q: %w", secret.Name, err)
	}

	key, err := s.key(secret, algo)
	if err != nil {
		return latent.Sealed{}, fmt.Errorf("secret %q: %w", secret.Name, err)
	}

	plaintext, err := s.plaintext(secret)
	if err != nil {
		return latent.Sealed{}, fmt.Errorf("secret %q: %w", secret.Name, err)
	}
	defer mem.Wipe(plaintext)

	opts := []latent.Option{}
	if secret.View != "" {
		opts = append(opts, latent.WithView(latent.ViewMode(secret.View)))
	}
	if secret.Release != "" {
		var releaseKey []byte
		if secret.ReleaseKey != "" {
			releaseKey, err = hex.DecodeString(secret.ReleaseKey)
			if err != nil {
				return latent.Sealed{}, fmt.Errorf("secret %q: release_key: %w", secret.Name, err)
			}
		}
		r, err := latent.ReleaseFor(latent.ReleaseKind(secret.Release), releaseKey)
		if err != nil {
			return latent.Sealed{}, fmt.Errorf("secret %q: %w", secret.Name, err)
		}
		opts = append(opts, latent.WithRelease(r))
	}

	return latent.Seal(secret.Name, plaintext, c, key, opts...)
}

func (s *Sealer) key(secret Secret, algo latent.CipherAlgo) ([]byte, error) {
	if secret.Derive {
		if len(s.Seed) == 0 {
			return nil, fmt.Errorf("derive requires a seed (set LATENT_SEED or --seed)")
		}
		return latent.DeriveKey(s.Seed, secret.Name, algo, secret.KeySize)
	}
	key, err := hex.DecodeString(secret.Key)
	if err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}
	return key, nil
}

func (s *Sealer) plaintext(secret Secret) ([]byte, error) {
	raw := secret.Value
	if secret.Env != "" {
		if s.Lookup == nil {
			return nil, fmt.Errorf("env %s: no environment available", secret.Env)
		}
		v, ok := s.Lookup(secret.Env)
		if !ok {
			return nil, fmt.Errorf("env %s is not set", secret.Env)
		}
		raw = v
	}

	switch secret.Encoding {
	case "hex":
		b, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("hex value: %w", err)
		}
		return b, nil
	case "base64":
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("base64 value: %w", err)
		}
		return b, nil
	default:
		return []byte(raw), nil
	}
}
