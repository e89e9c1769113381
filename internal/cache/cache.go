// Package cache implements the on-disk compiled-artifact cache
// framing spec.md §6 specifies: a fixed header ahead of the module's
// serialized bytes, checksummed with Adler-32. No pack example frames
// a binary cache header this way, so the header layout and codec are
// built directly from the spec's explicit byte layout on the standard
// library (hash/adler32, encoding/binary) rather than grounded on a
// third-party framing library.
package cache

import (
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"path/filepath"
)

// HeaderVersion is the only header_version this package writes or
// accepts. A reader rejects any other value as WrongVersion.
const HeaderVersion uint8 = 1

// headerSize is the 16-byte-aligned size of {u8, u32, u32} padded up,
// per spec.md §6 ("16-byte-aligned header").
const headerSize = 16

// CacheHeader is spec.md §6's fixed cache-entry prefix:
// {u8 header_version, u32 total_cached_bytes, u32 data_checksum}.
type CacheHeader struct {
	Version          uint8
	TotalCachedBytes uint32
	DataChecksum     uint32
}

// Error is the taxonomy spec.md §6 names for a rejected read:
// PartialRead (buffer too small), WrongVersion, or InvalidChecksum.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func errPartialRead(msg string) error  { return &Error{Kind: "PartialRead", Message: msg} }
func errWrongVersion(msg string) error { return &Error{Kind: "WrongVersion", Message: msg} }
func errInvalidChecksum(msg string) error {
	return &Error{Kind: "InvalidChecksum", Message: msg}
}

// WriteCache frames data behind a CacheHeader: version HeaderVersion,
// total_cached_bytes = len(data), data_checksum = Adler-32(data).
func WriteCache(data []byte) []byte {
	out := make([]byte, headerSize+len(data))
	out[0] = HeaderVersion
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[5:9], adler32.Checksum(data))
	copy(out[headerSize:], data)
	return out
}

// ReadCache validates and strips buf's CacheHeader, returning the
// framed data. readCache(writeCache(b)) == b for any b, per spec.md
// §8's cache round-trip property.
func ReadCache(buf []byte) ([]byte, error) {
	if len(buf) < headerSize {
		return nil, errPartialRead(fmt.Sprintf("buffer has %d bytes, need at least %d for the header", len(buf), headerSize))
	}
	var h CacheHeader
	h.Version = buf[0]
	h.TotalCachedBytes = binary.LittleEndian.Uint32(buf[1:5])
	h.DataChecksum = binary.LittleEndian.Uint32(buf[5:9])

	if h.Version != HeaderVersion {
		return nil, errWrongVersion(fmt.Sprintf("header declares version %d, reader supports %d", h.Version, HeaderVersion))
	}
	end := headerSize + int(h.TotalCachedBytes)
	if len(buf) < end {
		return nil, errPartialRead(fmt.Sprintf("header declares %d data bytes, buffer has only %d after the header", h.TotalCachedBytes, len(buf)-headerSize))
	}
	data := buf[headerSize:end]
	if adler32.Checksum(data) != h.DataChecksum {
		return nil, errInvalidChecksum("computed Adler-32 does not match header's data_checksum")
	}
	return data, nil
}

// Path returns the on-disk location of a cache entry, per spec.md §6:
// <abs_cache_dir>/<roc_version>/<file_hash>.rcir.
func Path(cacheDir, rocVersion, fileHash string) string {
	return filepath.Join(cacheDir, rocVersion, fileHash+".rcir")
}
