package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"golang.org/x/crypto/blake2b"
)

// HashAlgorithm represents the hashing algorithm to use
type HashAlgorithm string

const (
	SHA256  HashAlgorithm = "sha256"
	BLAKE2b HashAlgorithm = "blake2b"
)

// ParseHashAlgorithm validates an algorithm name
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch alg := HashAlgorithm(strings.ToLower(name)); alg {
	case SHA256, BLAKE2b:
		return alg, nil
	case "":
		return SHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", name)
	}
}

// Hasher provides extensible hashing functionality
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a new hasher with the specified algorithm
func NewHasher(algorithm HashAlgorithm) *Hasher {
	return &Hasher{
		algorithm: algorithm,
	}
}

// Hash computes a hash of the input data
func (h *Hasher) Hash(data []byte) string {
	switch h.algorithm {
	case BLAKE2b:
		sum := blake2b.Sum256(data)
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])
	}
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// HashJSON computes a hash of a JSON-serializable object.
// Map keys are sorted, so equal values always hash the same.
func (h *Hasher) HashJSON(v interface{}) (string, error) {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// HashFields computes a hash from multiple fields
// Fields are concatenated with a delimiter for consistent hashing
func (h *Hasher) HashFields(fields ...string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)

	combined := strings.Join(sorted, "|")
	return h.HashString(combined)
}

// ShortHash truncates a hash for display
func ShortHash(fullHash string) string {
	if len(fullHash) < 8 {
		return fullHash
	}
	return fullHash[:8]
}
