package cache

import (
	"context"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CompressedCache stores zstd compressed entries in an inner cache.
type CompressedCache struct {
	inner Cache
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// Compress wraps inner with zstd compression. Entries that do not decode
// are reported as misses.
func Compress(inner Cache) Cache {
	// nil writers and readers only fail on invalid options
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	dec, _ := zstd.NewReader(nil)
	return &CompressedCache{inner: inner, enc: enc, dec: dec}
}

// Get retrieves and decompresses a value.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false, nil
	}
	return out, true, nil
}

// Set compresses and stores a value.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, c.enc.EncodeAll(data, nil), ttl)
}

// Delete removes a value.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close releases the codecs and the inner cache.
func (c *CompressedCache) Close() error {
	c.dec.Close()
	return c.inner.Close()
}

// Ensure CompressedCache implements Cache.
var _ Cache = (*CompressedCache)(nil)
