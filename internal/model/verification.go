package model

// IntegrityStatus is the user-visible verdict vocabulary for verification.
type IntegrityStatus string

const (
	StatusVerified IntegrityStatus = "VERIFIED"
	StatusTampered IntegrityStatus = "TAMPERED"
	StatusError    IntegrityStatus = "ERROR"
	StatusUnknown  IntegrityStatus = "UNKNOWN"
)

// SegmentComparison records the original-vs-current hash outcome for one segment.
type SegmentComparison struct {
	Index        uint32 `json:"index"`
	IsValid      bool   `json:"is_valid"`
	OriginalHash string `json:"original_hash"`
	CurrentHash  string `json:"current_hash"`
}

// TamperedSegment identifies one segment whose current content no longer
// matches the sealed baseline, with its time bounds for localization.
type TamperedSegment struct {
	Index     uint32  `json:"index"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Reason    string  `json:"reason"`
}

// VerificationResult is the complete outcome of verifying current content
// against a manifest. A re-hash failure yields a well-formed degraded result
// (IsValid false, Error set) rather than an error to the caller.
type VerificationResult struct {
	IsValid           bool                `json:"is_valid"`
	TamperedSegments  []TamperedSegment   `json:"tampered_segments"`
	SegmentComparison []SegmentComparison `json:"segment_comparison"`
	OriginalRoot      string              `json:"original_root"`
	CurrentRoot       string              `json:"current_root"`
	Error             string              `json:"error,omitempty"`
}

// Status maps the result onto the VERIFIED | TAMPERED | ERROR vocabulary.
func (r *VerificationResult) Status() IntegrityStatus {
	switch {
	case r.Error != "":
		return StatusError
	case r.IsValid:
		return StatusVerified
	default:
		return StatusTampered
	}
}
