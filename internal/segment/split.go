package segment

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyContent means there were no bytes to segment.
var ErrEmptyContent = errors.New("empty content")

// Range is one ordered, time-bounded byte range of a content item.
// Start is inclusive, End exclusive.
type Range struct {
	Index     uint32
	StartTime float64 // seconds
	EndTime   float64
	Start     int
	End       int
}

// Split derives contiguous, zero-based, time-ordered byte ranges from raw
// content and its duration. This is the boundary contract with the upstream
// segment extractor: no media decoding happens here, bytes are divided evenly
// with the remainder folded into the last segment.
func Split(content []byte, totalDuration, segmentDuration float64) ([]Range, error) {
	if len(content) == 0 {
		return nil, ErrEmptyContent
	}
	if totalDuration <= 0 {
		return nil, fmt.Errorf("total duration must be positive, got %v", totalDuration)
	}
	if segmentDuration <= 0 {
		return nil, fmt.Errorf("segment duration must be positive, got %v", segmentDuration)
	}

	count := int(math.Ceil(totalDuration / segmentDuration))
	if count > len(content) {
		return nil, fmt.Errorf("content too small: %d bytes for %d segments", len(content), count)
	}

	bytesPer := len(content) / count
	ranges := make([]Range, count)
	for i := 0; i < count; i++ {
		start := i * bytesPer
		end := start + bytesPer
		if i == count-1 {
			end = len(content) // remainder folds into the last segment
		}

		startTime := float64(i) * segmentDuration
		endTime := startTime + segmentDuration
		if endTime > totalDuration {
			endTime = totalDuration
		}

		ranges[i] = Range{
			Index:     uint32(i),
			StartTime: startTime,
			EndTime:   endTime,
			Start:     start,
			End:       end,
		}
	}

	return ranges, nil
}
