// Package bson provides a BSON codec for sealed bundles, for storing them in
// MongoDB or other BSON document stores.
package bson

import (
	"github.com/zoobzio/latent"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements latent.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() latent.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
