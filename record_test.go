package diskcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	codec := JSONCodec{}
	rec := &Record{
		Key:       "users/42",
		Value:     []byte("payload bytes"),
		ExpiresAt: 1700000000123,
		Size:      13,
	}

	data, err := codec.Encode(rec)
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestJSONCodec_DecodeGarbage(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte("not a record"))
	assert.Error(t, err)
}

func TestJSONCodec_DecodeMissingKey(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{"value":"aGk=","expires_at":123}`))
	assert.Error(t, err)
}

func TestGzipCodec_RoundTrip(t *testing.T) {
	codec := gzipCodec{inner: JSONCodec{}}
	rec := &Record{
		Key:       "k",
		Value:     []byte("a long enough value that compression has something to chew on"),
		ExpiresAt: 1700000000123,
	}

	data, err := codec.Encode(rec)
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec.Key, got.Key)
	assert.Equal(t, rec.Value, got.Value)
	assert.Equal(t, rec.ExpiresAt, got.ExpiresAt)
}

func TestGzipCodec_DecodeUncompressed(t *testing.T) {
	plain, err := JSONCodec{}.Encode(&Record{Key: "k", ExpiresAt: 1})
	require.NoError(t, err)

	_, err = gzipCodec{inner: JSONCodec{}}.Decode(plain)
	assert.Error(t, err)
}

func TestRecord_Expiry(t *testing.T) {
	rec := &Record{ExpiresAt: 1700000000123}
	assert.Equal(t, int64(1700000000123), rec.Expiry().UnixMilli())
}
