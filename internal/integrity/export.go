package integrity

import "github.com/okulov/sigil/internal/model"

// ManifestExport is the interchange form of a manifest written to disk or
// handed to persistence collaborators.
//
// Checksum is a non-cryptographic rolling checksum kept as a lightweight
// dedup key for export consumers. It is deliberately not the cryptographic
// digest used everywhere else: integrity decisions must never rely on it.
type ManifestExport struct {
	model.Manifest
	Checksum int32 `json:"checksum"`
}

// ExportManifest wraps a manifest with its export checksum.
func ExportManifest(m *model.Manifest) *ManifestExport {
	return &ManifestExport{
		Manifest: *m,
		Checksum: RollingChecksum(m.MerkleRoot + m.ContentID),
	}
}

// RollingChecksum accumulates a 32-bit checksum with shift-and-subtract
// folding. Stable for identical input, cheap, and not collision-resistant.
func RollingChecksum(s string) int32 {
	var sum int32
	for _, b := range []byte(s) {
		sum = (sum << 5) - sum + int32(b)
	}
	return sum
}
