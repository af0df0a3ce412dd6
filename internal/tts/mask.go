package tts

// ValidityMask marks every real (non-padding) position of a padded token
// sequence with 1. Boundary sentinels count as real positions.
func ValidityMask(length int) []int64 {
	mask := make([]int64, length)
	for i := range mask {
		mask[i] = 1
	}

	return mask
}

// AttentionMask is the exact complement of the validity mask: positions the
// contextual encoder must ignore carry 1. With no padding beyond the two
// sentinels, every entry is 0.
func AttentionMask(validity []int64) []int64 {
	mask := make([]int64, len(validity))
	for i, v := range validity {
		if v == 0 {
			mask[i] = 1
		}
	}

	return mask
}
