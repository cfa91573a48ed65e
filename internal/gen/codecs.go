package gen

import (
	"fmt"
	"sort"

	"github.com/zoobzio/latent"
	"github.com/zoobzio/latent/bson"
	"github.com/zoobzio/latent/cbor"
	"github.com/zoobzio/latent/json"
	"github.com/zoobzio/latent/msgpack"
	"github.com/zoobzio/latent/xml"
	"github.com/zoobzio/latent/yaml"
)

var codecs = map[string]func() latent.Codec{
	"json":    func() latent.Codec { return json.NewIndent("  ") },
	"yaml":    yaml.New,
	"xml":     xml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
	"cbor":    cbor.New,
}

// CodecFor returns the bundle codec for a format name.
func CodecFor(format string) (latent.Codec, error) {
	newCodec, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("unsupported bundle format %q (want one of %v)", format, Formats())
	}
	return newCodec(), nil
}

// Formats lists the supported bundle formats.
func Formats() []string {
	out := make([]string, 0, len(codecs))
	for f := range codecs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Bundle encodes entries as a bundle in the given format.
func Bundle(format string, entries []Entry) ([]byte, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	secrets := make([]latent.Sealed, len(entries))
	for i, e := range entries {
		secrets[i] = e.Sealed
	}
	return latent.EncodeBundle(c, secrets...)
}
