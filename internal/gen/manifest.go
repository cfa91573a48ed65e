// Package gen turns a secrets manifest into sealed records, Go source and bundles.
package gen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zoobzio/latent"
)

// Manifest lists the secrets to seal into one generated package or bundle.
type Manifest struct {
	Package string   `yaml:"package" json:"package"`
	Secrets []Secret `yaml:"secrets" json:"secrets"`
}

// Secret describes one manifest entry. Exactly one of Value and Env supplies
// the plaintext; exactly one of Key and Derive supplies the key.
type Secret struct {
	Name       string `yaml:"name" json:"name"`
	Var        string `yaml:"var,omitempty" json:"var,omitempty"`
	Cipher     string `yaml:"cipher" json:"cipher"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
	KeySize    int    `yaml:"key_size,omitempty" json:"key_size,omitempty"`
	Derive     bool   `yaml:"derive,omitempty" json:"derive,omitempty"`
	Value      string `yaml:"value,omitempty" json:"value,omitempty"`
	Env        string `yaml:"env,omitempty" json:"env,omitempty"`
	Encoding   string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	View       string `yaml:"view,omitempty" json:"view,omitempty"`
	Release    string `yaml:"release,omitempty" json:"release,omitempty"`
	ReleaseKey string `yaml:"release_key,omitempty" json:"release_key,omitempty"`
}

// Manifest errors.
var (
	ErrManifest = errors.New("invalid manifest")
)

// ParseManifest decodes a manifest. format is "yaml" or "json"; an empty
// format is inferred from path.
func ParseManifest(data []byte, format, path string) (*Manifest, error) {
	if format == "" {
		format = FormatFromPath(path)
	}

	var m Manifest
	switch format {
	case "yaml", "yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifest, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported manifest format %q", ErrManifest, format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest without resolving values or keys.
func (m *Manifest) Validate() error {
	if m.Package != "" && !token.IsIdentifier(m.Package) {
		return fmt.Errorf("%w: package %q is not a Go identifier", ErrManifest, m.Package)
	}
	if len(m.Secrets) == 0 {
		return fmt.Errorf("%w: no secrets", ErrManifest)
	}

	names := make(map[string]bool, len(m.Secrets))
	vars := make(map[string]string, len(m.Secrets))
	for i, s := range m.Secrets {
		if s.Name == "" {
			return fmt.Errorf("%w: secret %d has no name", ErrManifest, i)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: duplicate secret %q", ErrManifest, s.Name)
		}
		names[s.Name] = true

		v := s.VarName()
		if !token.IsIdentifier(v) || !token.IsExported(v) {
			return fmt.Errorf("%w: secret %q: var %q is not an exported Go identifier", ErrManifest, s.Name, v)
		}
		if other, dup := vars[v]; dup {
			return fmt.Errorf("%w: secrets %q and %q both map to var %s", ErrManifest, other, s.Name, v)
		}
		vars[v] = s.Name

		if !latent.IsValidCipherAlgo(latent.CipherAlgo(s.Cipher)) {
			return fmt.Errorf("%w: secret %q: unknown cipher %q", ErrManifest, s.Name, s.Cipher)
		}
		if (s.Value == "") == (s.Env == "") {
			return fmt.Errorf("%w: secret %q: set exactly one of value and env", ErrManifest, s.Name)
		}
		if (s.Key == "") == !s.Derive {
			return fmt.Errorf("%w: secret %q: set exactly one of key and derive", ErrManifest, s.Name)
		}
		if s.View != "" && !latent.IsValidViewMode(latent.ViewMode(s.View)) {
			return fmt.Errorf("%w: secret %q: unknown view %q", ErrManifest, s.Name, s.View)
		}
		if s.Release != "" && !latent.IsValidReleaseKind(latent.ReleaseKind(s.Release)) {
			return fmt.Errorf("%w: secret %q: unknown release %q", ErrManifest, s.Name, s.Release)
		}
		if s.ReleaseKey != "" && s.Release != string(latent.ReleaseReEncrypt) {
			return fmt.Errorf("%w: secret %q: release_key requires release reencrypt", ErrManifest, s.Name)
		}
		switch s.Encoding {
		case "", "hex", "base64":
		default:
			return fmt.Errorf("%w: secret %q: unknown encoding %q", ErrManifest, s.Name, s.Encoding)
		}
	}
	return nil
}

// VarName returns the Go identifier for the secret's generated variable.
func (s Secret) VarName() string {
	if s.Var != "" {
		return s.Var
	}
	return Identifier(s.Name)
}

// initialisms are upper-cased whole when they form a name segment.
var initialisms = map[string]bool{
	"api": true, "aws": true, "db": true, "gcp": true, "hmac": true, "http": true,
	"id": true, "jwt": true, "oauth": true, "smtp": true, "sql": true, "ssh": true,
	"tls": true, "uri": true, "url": true,
}

// Identifier converts a secret name such as "db_password" into "DBPassword".
func Identifier(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})

	var b strings.Builder
	for _, p := range parts {
		lower := strings.ToLower(p)
		if initialisms[lower] {
			b.WriteString(strings.ToUpper(lower))
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}

	id := b.String()
	if id == "" || (id[0] >= '0' && id[0] <= '9') {
		id = "Secret" + id
	}
	return id
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".xml":
		return "xml"
	case ".msgpack", ".mpk":
		return "msgpack"
	case ".bson":
		return "bson"
	case ".cbor":
		return "cbor"
	default:
		return ""
	}
}
