package eval

// Jaccard is |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[int]struct{}) float64 {
	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
