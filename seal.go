package latent

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/zeebo/blake3"

	"github.com/zoobzio/latent/internal/mem"
)

// checksumDomain separates latent checksums from any other BLAKE3 use of the same bytes.
const checksumDomain = "latent.sealed.v1"

// Blob is binary data that text-based codecs carry as standard base64.
type Blob []byte

// MarshalText implements encoding.TextMarshaler.
func (b Blob) MarshalText() ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Blob) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*b = nil
		return nil
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return fmt.Errorf("blob: %w", err)
	}
	*b = out[:n]
	return nil
}

// Sealed is a secret at rest: ciphertext plus everything needed to build a Cell.
// It never contains plaintext.
type Sealed struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name" cbor:"name" bson:"name" xml:"name,attr"`
	Cipher     CipherAlgo  `json:"cipher" yaml:"cipher" msgpack:"cipher" cbor:"cipher" bson:"cipher" xml:"cipher,attr"`
	View       ViewMode    `json:"view" yaml:"view" msgpack:"view" cbor:"view" bson:"view" xml:"view,attr"`
	Release    ReleaseKind `json:"release" yaml:"release" msgpack:"release" cbor:"release" bson:"release" xml:"release,attr"`
	Key        Blob        `json:"key" yaml:"key" msgpack:"key" cbor:"key" bson:"key" xml:"key"`
	ReleaseKey Blob        `json:"release_key,omitempty" yaml:"release_key,omitempty" msgpack:"release_key,omitempty" cbor:"release_key,omitempty" bson:"release_key,omitempty" xml:"release_key,omitempty"`
	Ciphertext Blob        `json:"ciphertext" yaml:"ciphertext" msgpack:"ciphertext" cbor:"ciphertext" bson:"ciphertext" xml:"ciphertext"`
	Checksum   Blob        `json:"checksum,omitempty" yaml:"checksum,omitempty" msgpack:"checksum,omitempty" cbor:"checksum,omitempty" bson:"checksum,omitempty" xml:"checksum,omitempty"`
}

// Seal encodes plaintext into a Sealed record. It performs the same validation
// as New and is deterministic: the same inputs always give the same record.
// Unlike New, the plaintext slice is left untouched.
func Seal(name string, plaintext []byte, c Cipher, key []byte, opts ...Option) (Sealed, error) {
	o := buildOptions(options{name: name}, opts)
	if err := validate(c, key, o); err != nil {
		return Sealed{}, withSecret(err, o.name)
	}
	if o.view == ViewText && !utf8.Valid(plaintext) {
		return Sealed{}, &ConfigError{Err: ErrInvalidText, Secret: o.name}
	}

	ciphertext := make([]byte, len(plaintext))
	copy(ciphertext, plaintext)
	c.Encode(ciphertext, key)

	s := Sealed{
		Name:       o.name,
		Cipher:     c.Algo(),
		View:       o.view,
		Release:    o.release.Kind(),
		Key:        append(Blob(nil), key...),
		ReleaseKey: append(Blob(nil), o.release.Key()...),
		Ciphertext: ciphertext,
	}
	s.Checksum = s.Sum()
	return s, nil
}

// Sum computes the BLAKE3 checksum over every field except Checksum.
func (s Sealed) Sum() Blob {
	h := blake3.New()
	writeField(h, []byte(checksumDomain))
	writeField(h, []byte(s.Name))
	writeField(h, []byte(s.Cipher))
	writeField(h, []byte(s.View))
	writeField(h, []byte(s.Release))
	writeField(h, s.Key)
	writeField(h, s.ReleaseKey)
	writeField(h, s.Ciphertext)
	return h.Sum(nil)
}

// writeField length-prefixes each field so adjacent fields cannot be shifted.
func writeField(h *blake3.Hasher, field []byte) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(field)))
	_, _ = h.Write(prefix[:n])
	_, _ = h.Write(field)
}

// Verify reports whether the checksum matches. Records without a checksum verify.
func (s Sealed) Verify() error {
	if len(s.Checksum) == 0 {
		return nil
	}
	if !bytes.Equal(s.Checksum, s.Sum()) {
		return &ConfigError{Err: ErrChecksum, Secret: s.Name}
	}
	return nil
}

// FromSealed builds a Cell over a sealed record's ciphertext without encoding
// anything. Options override the record's name, view and release.
//
// A text cell is decoded once into scratch memory to check its UTF-8, unless the
// record is checksummed and was sealed as text.
func FromSealed(s Sealed, opts ...Option) (*Cell, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	c, err := CipherFor(s.Cipher)
	if err != nil {
		return nil, withSecret(err, s.Name)
	}

	base := options{name: s.Name, view: s.View}
	if s.Release != "" {
		r, err := ReleaseFor(s.Release, s.ReleaseKey)
		if err != nil {
			return nil, withSecret(err, s.Name)
		}
		base.release = r
	}

	o := buildOptions(base, opts)
	if err := validate(c, s.Key, o); err != nil {
		return nil, withSecret(err, o.name)
	}

	buf := make([]byte, len(s.Ciphertext))
	copy(buf, s.Ciphertext)

	// A checksum only vouches for text when the record itself declared it.
	trusted := len(s.Checksum) > 0 && s.View == ViewText
	if o.view == ViewText && !trusted && !decodesToText(c, buf, s.Key) {
		return nil, &ConfigError{Err: ErrInvalidText, Secret: o.name}
	}

	return newCell(buf, c, s.Key, o)
}

// MustFromSealed is like FromSealed but panics on error.
// It is meant for package-level variables in generated code.
func MustFromSealed(s Sealed, opts ...Option) *Cell {
	cell, err := FromSealed(s, opts...)
	if err != nil {
		panic(fmt.Errorf("latent: %w", err))
	}
	return cell
}

// decodesToText reports whether ciphertext decodes to valid UTF-8.
func decodesToText(c Cipher, ciphertext, key []byte) bool {
	scratch := make([]byte, len(ciphertext))
	copy(scratch, ciphertext)
	c.Decode(scratch, key)
	ok := utf8.Valid(scratch)
	mem.Wipe(scratch)
	return ok
}
