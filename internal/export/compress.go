package export

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how exported documents are stored.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// ParseCompression accepts "", "none" and "zstd".
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd:
		return CompressionZstd, nil
	}
	return "", fmt.Errorf("unsupported compression %q (want none or zstd)", s)
}

// Suffix is appended to the key of compressed documents.
func (c Compression) Suffix() string {
	if c == CompressionZstd {
		return ".zst"
	}
	return ""
}

// compressor applies a Compression to whole documents.
type compressor struct {
	kind Compression
	enc  *zstd.Encoder
}

func newCompressor(kind Compression) (*compressor, error) {
	c := &compressor{kind: kind}
	if kind != CompressionZstd {
		return c, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	c.enc = enc
	return c, nil
}

// apply returns the stored bytes and the content encoding to advertise.
func (c *compressor) apply(data []byte) ([]byte, string) {
	if c.enc == nil {
		return data, ""
	}
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)/2)), "zstd"
}

func (c *compressor) Close() error {
	if c.enc == nil {
		return nil
	}
	return c.enc.Close()
}
