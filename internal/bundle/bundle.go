// Package bundle implements the bundle-filename conventions spec.md
// §6 specifies for the compiler's emitted hash-named artifacts: base58
// encoding of a content hash, and the character/extension/hash rules
// unbundling rejects a name for. The tar+zstd payload itself is out of
// scope (spec.md §1) — only naming and hash verification live here.
// No pack example implements base58 or blake3, so both are built on
// the standard library: base58 on math/big (the same big-integer
// machinery internal/interp's binop.go uses for arbitrary-precision
// arithmetic), and the content hash on crypto/sha256 as a documented
// placeholder for blake3, the same way spec.md documents Adler-32 as
// a placeholder checksum for internal/cache.
package bundle

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base58Alphabet))
	for i := 0; i < len(base58Alphabet); i++ {
		m[base58Alphabet[i]] = int64(i)
	}
	return m
}()

// EncodeBase58 renders data as base58, preserving one '1' per leading
// zero byte the way Bitcoin's encoding does (so hashes starting with
// zero bytes still round-trip to their original length class).
func EncodeBase58(data []byte) string {
	zeros := 0
	for zeros < len(data) && data[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(data)
	base := big.NewInt(58)
	mod := new(big.Int)
	var digits []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, base58Alphabet[mod.Int64()])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return strings.Repeat("1", zeros) + string(digits)
}

// DecodeBase58 inverts EncodeBase58. It rejects any byte outside the
// base58 alphabet.
func DecodeBase58(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == '1' {
		zeros++
	}

	n := new(big.Int)
	base := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		digit, ok := base58Index[s[i]]
		if !ok {
			return nil, fmt.Errorf("bundle: invalid base58 character %q at offset %d", s[i], i)
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(digit))
	}

	body := n.Bytes()
	out := make([]byte, zeros+len(body))
	copy(out[zeros:], body)
	return out, nil
}

// ContentHash is the placeholder content-addressing hash this package
// uses in place of blake3; swapping it for a real blake3 implementation
// only requires changing this one function, the same substitutability
// spec.md documents for internal/cache's Adler-32 placeholder.
func ContentHash(compressed []byte) []byte {
	sum := sha256.Sum256(compressed)
	return sum[:]
}

// Name returns the compiler's canonical emitted bundle filename for
// compressed payload bytes: <base58(ContentHash(compressed))>.tar.zst.
func Name(compressed []byte) string {
	return EncodeBase58(ContentHash(compressed)) + ".tar.zst"
}

// forbiddenRunes are the characters spec.md §6 names as always
// rejected in a bundle filename, regardless of extension: '@' plus the
// four Unicode slash look-alikes unbundling must not be fooled by.
var forbiddenRunes = []rune{'@', '⁄', '∕', '／', '⧸'}

// allowedExtensions are the archive extensions unbundling accepts.
// spec.md names this exact set even though the compiler's own Name
// only ever emits .tar.zst — unbundling is written to accept any
// bundle a conforming producer could have emitted, not only this
// compiler's own output.
var allowedExtensions = []string{".tar.zst", ".tar.gz", ".tar.br", ".tar"}

// ValidateName reports whether name is an acceptable bundle filename:
// no forbidden character, a recognized extension, and — if expectedHash
// is non-empty — a base58 stem that decodes to exactly expectedHash.
func ValidateName(name string, expectedHash []byte) error {
	for _, r := range forbiddenRunes {
		if strings.ContainsRune(name, r) {
			return fmt.Errorf("bundle: name %q contains forbidden character %q", name, r)
		}
	}

	ext := matchExtension(name)
	if ext == "" {
		return fmt.Errorf("bundle: name %q has no recognized archive extension", name)
	}
	stem := strings.TrimSuffix(name, ext)

	if expectedHash == nil {
		return nil
	}
	decoded, err := DecodeBase58(stem)
	if err != nil {
		return fmt.Errorf("bundle: name %q: %w", name, err)
	}
	if string(decoded) != string(expectedHash) {
		return fmt.Errorf("bundle: name %q hash does not match expected content hash", name)
	}
	return nil
}

func matchExtension(name string) string {
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return ext
		}
	}
	return ""
}
