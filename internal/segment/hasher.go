package segment

import (
	"errors"
	"fmt"

	"github.com/okulov/sigil/internal/digest"
	"github.com/okulov/sigil/internal/model"
)

// ErrEmptySegment means a byte range was zero-length. This is a request-level
// validation failure and is fatal to the caller.
var ErrEmptySegment = errors.New("empty segment byte range")

// Hasher computes per-segment content hashes and structural descriptors.
type Hasher struct {
	digest   digest.Hasher
	unitSize int64
}

// NewHasher creates a segment hasher using the given digest. unitSizeBytes is
// the nominal media unit size used for the advisory structural descriptor.
func NewHasher(d digest.Hasher, unitSizeBytes int64) *Hasher {
	if unitSizeBytes <= 0 {
		unitSizeBytes = 4096
	}
	return &Hasher{digest: d, unitSize: unitSizeBytes}
}

// Digest returns the underlying digest hasher, shared with Merkle node hashing.
func (h *Hasher) Digest() digest.Hasher {
	return h.digest
}

// HashSegments computes the content digest over the exact bytes of every range,
// with no padding or normalization. Ranges must lie within content; a
// zero-length range fails with ErrEmptySegment.
func (h *Hasher) HashSegments(content []byte, ranges []Range) ([]model.Segment, error) {
	segments := make([]model.Segment, 0, len(ranges))
	for _, r := range ranges {
		if r.Start >= r.End {
			return nil, fmt.Errorf("segment %d: %w", r.Index, ErrEmptySegment)
		}
		if r.Start < 0 || r.End > len(content) {
			return nil, fmt.Errorf("segment %d: range [%d, %d) outside content of %d bytes",
				r.Index, r.Start, r.End, len(content))
		}

		size := int64(r.End - r.Start)
		units := size / h.unitSize
		if units < 1 {
			units = 1
		}

		segments = append(segments, model.Segment{
			Index:          r.Index,
			StartTime:      r.StartTime,
			EndTime:        r.EndTime,
			ByteSize:       size,
			Hash:           h.digest.Sum(content[r.Start:r.End]),
			EstimatedUnits: units,
		})
	}
	return segments, nil
}
