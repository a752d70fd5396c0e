package selector

// SampleIndices picks up to quota chunk positions out of total, deterministically.
//
//	quota 1: first
//	quota 2: first, last
//	quota 3: first, middle (total/2), last
//	quota n: n positions evenly spaced over [0, total-1]
//
// When total <= quota every position is returned. The result is ascending and
// has no duplicates. It is never truncated afterwards.
func SampleIndices(total, quota int) []int {
	if total <= 0 || quota <= 0 {
		return nil
	}
	if total <= quota {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}

	last := total - 1
	switch quota {
	case 1:
		return []int{0}
	case 2:
		return []int{0, last}
	case 3:
		return []int{0, total / 2, last}
	}

	// total > quota, so consecutive targets are more than one apart and
	// rounding cannot collide.
	out := make([]int, quota)
	span := quota - 1
	for i := 0; i < quota; i++ {
		out[i] = (i*last + span/2) / span
	}
	return out
}
