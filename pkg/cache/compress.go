package cache

import (
	"context"
	"time"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// CompressedCache stores values zstd-compressed in another cache. SVG and
// JSON artifacts shrink several times over, which matters on network
// backends. Values that fail to decompress are misses.
type CompressedCache struct {
	inner Cache
}

// NewCompressedCache wraps inner.
func NewCompressedCache(inner Cache) *CompressedCache {
	return &CompressedCache{inner: inner}
}

// Get decompresses the stored value.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, false, nil
	}
	return out, true, nil
}

// Set compresses data before storing it.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), ttl)
}

// Delete removes a value.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear clears the wrapped cache when it supports it.
func (c *CompressedCache) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}

// Close closes the wrapped cache.
func (c *CompressedCache) Close() error {
	return c.inner.Close()
}
