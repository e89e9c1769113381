package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase58RoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{0, 0, 1, 2, 3},
		[]byte("the quick brown fox jumps over the lazy dog"),
		ContentHash([]byte("compiled module payload")),
	}
	for _, data := range cases {
		encoded := EncodeBase58(data)
		decoded, err := DecodeBase58(encoded)
		require.NoError(t, err)
		require.Equal(t, data, decoded)
	}
}

func TestDecodeBase58RejectsInvalidCharacter(t *testing.T) {
	_, err := DecodeBase58("not0base58") // '0' is excluded from the alphabet
	require.Error(t, err)
}

func TestNameProducesValidatableBundle(t *testing.T) {
	compressed := []byte("pretend this is a zstd-compressed tar")
	name := Name(compressed)
	require.True(t, len(name) > len(".tar.zst"))

	err := ValidateName(name, ContentHash(compressed))
	require.NoError(t, err)
}

func TestValidateNameRejectsForbiddenCharacter(t *testing.T) {
	err := ValidateName("abc@def.tar.zst", nil)
	require.Error(t, err)
}

func TestValidateNameRejectsUnknownExtension(t *testing.T) {
	err := ValidateName("abcdef.zip", nil)
	require.Error(t, err)
}

func TestValidateNameRejectsMismatchedHash(t *testing.T) {
	compressed := []byte("another payload")
	name := Name(compressed)
	err := ValidateName(name, ContentHash([]byte("different payload")))
	require.Error(t, err)
}
