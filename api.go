// Package latent keeps secrets obfuscated in memory until the moment they are
// first read.
//
// A Cell owns a fixed-size buffer holding ciphertext. The first read decodes it
// in place, exactly once, no matter how many goroutines race to read it. Later
// reads see the plaintext directly. Close applies an end-of-life action and the
// cell becomes inert.
//
// The ciphers are obfuscation, not encryption: they keep secrets out of the
// binary image and out of casual memory dumps, nothing more.
//
// # Basic Usage
//
//	cell, err := latent.New([]byte("hunter2"), latent.RC4(), key,
//	    latent.WithName("db_password"),
//	    latent.WithView(latent.ViewText),
//	)
//	if err != nil {
//	    return err
//	}
//	defer cell.Close()
//
//	connect(cell.Text())
//
// # Gate
//
// Each cell carries an atomic gate:
//
//	encrypted -> decrypting -> decrypted -> released
//
// The reader that moves the gate out of encrypted performs the decode. Every
// other reader spins until the gate reaches decrypted. There is no lock and no
// timeout on the read path.
//
// # Ciphers
//
//   - XOR() - one key byte applied to every byte
//   - RC4() - RC4 keystream from a 1-256 byte key, rebuilt on every call
//
// # Release
//
//   - Wipe() - zero the buffer (default)
//   - ReEncrypt(key) - encode the plaintext again; nil reuses the cell key
//   - NoOp() - leave the buffer alone
//
// ReEncrypt only acts when the cell was decrypted. A cell closed before its
// first read still holds ciphertext and is left as it is.
//
// # Views
//
// ViewText exposes the buffer as a string sharing its memory and requires
// valid UTF-8 at construction. ViewBytes exposes raw bytes.
//
// # Sealing Ahead of Time
//
// Seal produces a Sealed record: ciphertext plus the metadata needed to build a
// cell, with a BLAKE3 checksum. FromSealed turns one back into a Cell without
// ever holding plaintext. The latentgen command emits Sealed literals as Go
// source, so the plaintext never appears in the compiled binary.
//
// # Bundles and Stores
//
// A Bundle is a list of Sealed records written through a Codec:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - cbor - CBOR encoding (application/cbor)
//
// Load decodes a bundle into a Store, and Bind fills tagged struct fields:
//
//	type Secrets struct {
//	    DB  *latent.Cell `latent:"db_password"`
//	    API *latent.Cell `latent:"api_key"`
//	}
//
//	store, _ := latent.Load(ctx, json.New(), data)
//	defer store.Close()
//
//	var s Secrets
//	_ = latent.Bind(store, &s)
//
// # Masking
//
// Cells never print their contents. String, GoString, Format and LogValue
// describe the cell only. Masked gives a partial rendering for diagnostics:
//
//   - full: hunter2 -> *******
//   - tail: 0123456789abcdef -> ************cdef
//   - token: sk_live_4eC39HqLyjWD -> sk_live_************
package latent
