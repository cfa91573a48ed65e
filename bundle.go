package latent

import (
	"encoding/xml"
	"fmt"
)

// BundleVersion is the bundle format written by EncodeBundle.
const BundleVersion = 1

// Bundle is a set of sealed secrets in one file.
type Bundle struct {
	XMLName xml.Name `json:"-" yaml:"-" msgpack:"-" cbor:"-" bson:"-" xml:"bundle"`
	Version int      `json:"version" yaml:"version" msgpack:"version" cbor:"version" bson:"version" xml:"version,attr"`
	Secrets []Sealed `json:"secrets" yaml:"secrets" msgpack:"secrets" cbor:"secrets" bson:"secrets" xml:"secret"`
}

// EncodeBundle marshals secrets with the given codec.
func EncodeBundle(c Codec, secrets ...Sealed) ([]byte, error) {
	b := Bundle{Version: BundleVersion, Secrets: secrets}
	data, err := c.Marshal(b)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// DecodeBundle unmarshals a bundle and checks its version and names.
// Checksums are verified later, when each record becomes a Cell.
func DecodeBundle(c Codec, data []byte) (Bundle, error) {
	var b Bundle
	if err := c.Unmarshal(data, &b); err != nil {
		return Bundle{}, newCodecError(ErrUnmarshal, err)
	}
	if b.Version != BundleVersion {
		return Bundle{}, fmt.Errorf("%w: got %d, want %d", ErrBundleVersion, b.Version, BundleVersion)
	}

	seen := make(map[string]struct{}, len(b.Secrets))
	for _, s := range b.Secrets {
		if s.Name == "" {
			return Bundle{}, &ConfigError{Err: ErrMissingName}
		}
		if _, dup := seen[s.Name]; dup {
			return Bundle{}, &ConfigError{Err: ErrDuplicateSecret, Secret: s.Name}
		}
		seen[s.Name] = struct{}{}
	}
	return b, nil
}
