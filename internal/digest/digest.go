package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Algorithm names a supported one-way hash.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// Hasher computes hex-encoded digests. The same Hasher is used for leaf
// hashing and Merkle node hashing so the two stay consistent.
type Hasher interface {
	// Sum returns the lowercase hex digest of data.
	Sum(data []byte) string

	// Name returns the algorithm name as recorded in manifests.
	Name() string
}

// New returns a Hasher for the named algorithm.
func New(algo Algorithm) (Hasher, error) {
	switch algo {
	case SHA256, "":
		return sha256Hasher{}, nil
	case BLAKE3:
		return blake3Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm: %s (supported: sha256, blake3)", algo)
	}
}

// Default returns the default hasher (sha256).
func Default() Hasher {
	return sha256Hasher{}
}

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (sha256Hasher) Name() string { return string(SHA256) }

type blake3Hasher struct{}

func (blake3Hasher) Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (blake3Hasher) Name() string { return string(BLAKE3) }
