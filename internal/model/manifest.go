package model

import "time"

// Segment describes one time-bounded byte range of a content item and its
// recorded content hash. Indices are contiguous, zero-based and ordered by time.
type Segment struct {
	Index     uint32  `json:"index"`
	StartTime float64 `json:"start_time"` // seconds from content start
	EndTime   float64 `json:"end_time"`
	ByteSize  int64   `json:"byte_size"`
	Hash      string  `json:"hash"` // hex digest over the exact byte range

	// EstimatedUnits is a coarse structural descriptor (rough frame/unit count).
	// Advisory only: integrity decisions never consult it.
	EstimatedUnits int64 `json:"estimated_units"`
}

// Manifest is the sealed baseline for a content item. MerkleRoot is a pure
// function of the ordered sequence of segment hashes.
type Manifest struct {
	ContentID       string            `json:"content_id"`
	TotalDuration   float64           `json:"total_duration"`   // seconds
	SegmentDuration float64           `json:"segment_duration"` // seconds
	SegmentCount    int               `json:"segment_count"`
	Segments        []Segment         `json:"segments"`
	MerkleRoot      string            `json:"merkle_root"`
	Algorithm       string            `json:"algorithm"` // digest algorithm used for leaves and nodes
	CreatedAt       time.Time         `json:"created_at"`
	SourceMetadata  map[string]string `json:"source_metadata,omitempty"`
}

// AnchorRecord is a compact, ledger-ready summary of a manifest.
// CompactHash is reproducible from (merkle_root, content_id) alone;
// AnchorID is fresh per generation and carries no such guarantee.
type AnchorRecord struct {
	AnchorID      string  `json:"anchor_id"`
	ContentID     string  `json:"content_id"`
	MerkleRoot    string  `json:"merkle_root"`
	SegmentCount  int     `json:"segment_count"`
	TotalDuration float64 `json:"total_duration"`
	CompactHash   string  `json:"compact_hash"`
}
