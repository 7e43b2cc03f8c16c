package integrity

import (
	"fmt"
	"time"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/merkle"
	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/segment"
)

// Sealer builds a tamper-evident manifest over segmented content.
type Sealer struct {
	hasher *segment.Hasher
}

// NewSealer creates a sealer using the given segment hasher. Leaf and Merkle
// node hashing share the hasher's digest.
func NewSealer(hasher *segment.Hasher) *Sealer {
	return &Sealer{hasher: hasher}
}

// Seal splits content into time-bounded byte ranges, hashes every range and
// folds the ordered hashes into a Merkle root.
func (s *Sealer) Seal(contentID string, content []byte, totalDuration, segmentDuration float64, meta map[string]string) (*model.Manifest, error) {
	if contentID == "" {
		return nil, fmt.Errorf("content id is required")
	}

	ranges, err := segment.Split(content, totalDuration, segmentDuration)
	if err != nil {
		return nil, fmt.Errorf("split content: %w", err)
	}

	segments, err := s.hasher.HashSegments(content, ranges)
	if err != nil {
		return nil, fmt.Errorf("hash segments: %w", err)
	}

	hashes := make([]string, len(segments))
	for i, seg := range segments {
		hashes[i] = seg.Hash
	}

	return &model.Manifest{
		ContentID:       contentID,
		TotalDuration:   totalDuration,
		SegmentDuration: segmentDuration,
		SegmentCount:    len(segments),
		Segments:        segments,
		MerkleRoot:      merkle.BuildRoot(s.hasher.Digest(), hashes),
		Algorithm:       s.hasher.Digest().Name(),
		CreatedAt:       time.Now().UTC(),
		SourceMetadata:  meta,
	}, nil
}

// hasherForManifest resolves the digest recorded in a manifest, defaulting to
// sha256 for manifests sealed before the algorithm field existed.
func hasherForManifest(m *model.Manifest) (digest.Hasher, error) {
	return digest.New(digest.Algorithm(m.Algorithm))
}
