package diskcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Record is the self-describing on-disk form of a cache entry. Every record
// carries its own key and expiry so the index can be rebuilt from storage
// alone.
type Record struct {
	// Key is the cache key the record was stored under.
	Key string `json:"key"`
	// Value is the cached payload.
	Value []byte `json:"value"`
	// ExpiresAt is the expiry instant in Unix milliseconds.
	ExpiresAt int64 `json:"expires_at"`
	// Size is the advisory payload length. It is ignored on read; the
	// cache accounts for the actual serialized length instead.
	Size int64 `json:"size,omitempty"`
}

// Expiry returns the record's expiry instant.
func (r *Record) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// Codec serializes records for storage. Implementations must be safe for
// concurrent use.
type Codec interface {
	// Encode serializes a record into storable bytes.
	Encode(rec *Record) ([]byte, error)
	// Decode deserializes stored bytes back into a record.
	Decode(data []byte) (*Record, error)
}

// JSONCodec encodes records as JSON. It is the default codec.
type JSONCodec struct{}

// Encode serializes the record as JSON.
func (JSONCodec) Encode(rec *Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return data, nil
}

// Decode deserializes a JSON record, rejecting records without a key.
func (JSONCodec) Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if rec.Key == "" {
		return nil, fmt.Errorf("record has no key")
	}
	return &rec, nil
}

var _ Codec = JSONCodec{}

// gzipCodec wraps another codec so records are gzip-compressed on disk.
// Data that does not carry a gzip header fails to decode, so records
// written without compression surface as corrupt rather than garbage.
type gzipCodec struct {
	inner Codec
}

func (g gzipCodec) Encode(rec *Record) ([]byte, error) {
	data, err := g.inner.Encode(rec)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress record: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress record: %w", err)
	}
	return buf.Bytes(), nil
}

func (g gzipCodec) Decode(data []byte) (*Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record: %w", err)
	}
	defer func() { _ = zr.Close() }()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record: %w", err)
	}
	return g.inner.Decode(raw)
}

var _ Codec = gzipCodec{}
