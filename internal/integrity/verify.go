package integrity

import (
	"fmt"

	"github.com/okulov/sigil/internal/merkle"
	"github.com/okulov/sigil/internal/model"
	"github.com/okulov/sigil/internal/segment"
)

const reasonHashMismatch = "Hash mismatch"

// Verifier recomputes segment hashes and the Merkle root for current content
// and diffs them against a previously sealed manifest.
type Verifier struct {
	unitSize int64
}

// NewVerifier creates a verifier. unitSizeBytes mirrors the sealer's
// structural-descriptor setting and has no effect on integrity decisions.
func NewVerifier(unitSizeBytes int64) *Verifier {
	return &Verifier{unitSize: unitSizeBytes}
}

// Verify re-runs the hashing pipeline over content using the segment
// boundaries recorded in the manifest and compares per segment.
//
// Verification is advisory, not a hard gate: a re-hash failure never surfaces
// as an error. It degrades to a well-formed result with IsValid false and
// Error describing the failure.
func (v *Verifier) Verify(manifest *model.Manifest, content []byte) *model.VerificationResult {
	result := &model.VerificationResult{
		TamperedSegments:  []model.TamperedSegment{},
		SegmentComparison: []model.SegmentComparison{},
		OriginalRoot:      manifest.MerkleRoot,
	}

	hasher, err := hasherForManifest(manifest)
	if err != nil {
		result.Error = fmt.Sprintf("resolve digest: %v", err)
		return result
	}

	ranges, err := segment.Split(content, manifest.TotalDuration, manifest.SegmentDuration)
	if err != nil {
		result.Error = fmt.Sprintf("rehash content: %v", err)
		return result
	}

	current, err := segment.NewHasher(hasher, v.unitSize).HashSegments(content, ranges)
	if err != nil {
		result.Error = fmt.Sprintf("rehash content: %v", err)
		return result
	}

	if len(current) != len(manifest.Segments) {
		result.Error = fmt.Sprintf("segment count mismatch: manifest has %d, current content produced %d",
			len(manifest.Segments), len(current))
		return result
	}

	hashes := make([]string, len(current))
	for i, seg := range current {
		hashes[i] = seg.Hash
	}
	result.CurrentRoot = merkle.BuildRoot(hasher, hashes)

	allValid := true
	for i, original := range manifest.Segments {
		ok := original.Hash == current[i].Hash
		result.SegmentComparison = append(result.SegmentComparison, model.SegmentComparison{
			Index:        original.Index,
			IsValid:      ok,
			OriginalHash: original.Hash,
			CurrentHash:  current[i].Hash,
		})
		if !ok {
			allValid = false
			result.TamperedSegments = append(result.TamperedSegments, model.TamperedSegment{
				Index:     original.Index,
				StartTime: original.StartTime,
				EndTime:   original.EndTime,
				Reason:    reasonHashMismatch,
			})
		}
	}

	// Root equality alone implies per-segment equality under an ideal hash;
	// both are checked anyway.
	result.IsValid = result.CurrentRoot == manifest.MerkleRoot && allValid

	return result
}
