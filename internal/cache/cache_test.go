package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadCacheRoundTrip(t *testing.T) {
	data := []byte("compiled module bytes, arbitrary content")
	framed := WriteCache(data)

	got, err := ReadCache(framed)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestReadCacheRejectsPartialRead(t *testing.T) {
	_, err := ReadCache([]byte{1, 2, 3})
	require.Error(t, err)
	cacheErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, "PartialRead", cacheErr.Kind)
}

func TestReadCacheRejectsWrongVersion(t *testing.T) {
	framed := WriteCache([]byte("x"))
	framed[0] = HeaderVersion + 1

	_, err := ReadCache(framed)
	require.Error(t, err)
	cacheErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, "WrongVersion", cacheErr.Kind)
}

func TestReadCacheRejectsInvalidChecksum(t *testing.T) {
	framed := WriteCache([]byte("hello cache"))
	framed[len(framed)-1] ^= 0xFF

	_, err := ReadCache(framed)
	require.Error(t, err)
	cacheErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, "InvalidChecksum", cacheErr.Kind)
}

func TestReadCacheRejectsTruncatedData(t *testing.T) {
	framed := WriteCache([]byte("hello cache"))

	_, err := ReadCache(framed[:len(framed)-1])
	require.Error(t, err)
	cacheErr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, "PartialRead", cacheErr.Kind)
}

func TestPath(t *testing.T) {
	got := Path("/home/user/.lumen-cache", "0.1.0", "abc123")
	require.Equal(t, "/home/user/.lumen-cache/0.1.0/abc123.rcir", got)
}
