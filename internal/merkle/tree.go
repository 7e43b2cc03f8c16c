package merkle

import "github.com/okulov/sigil/internal/digest"

// BuildRoot folds an ordered list of hex hashes into a single root hash.
//
// Leaves are never sorted: order is the segment's temporal index order, so any
// tampered leaf maps directly back to a specific time range. Each level is
// partitioned into consecutive pairs; an odd tail is paired with itself
// (duplicate padding, not re-ordering). A pair (l, r) reduces to
// hasher.Sum(l ++ r) over the hex representations, the same digest form used
// for leaf hashing.
//
// BuildRoot(nil) is "", BuildRoot([h]) is h.
func BuildRoot(hasher digest.Hasher, hashes []string) string {
	if len(hashes) == 0 {
		return ""
	}

	level := make([]string, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hasher.Sum([]byte(left+right)))
		}
		level = next
	}

	return level[0]
}
