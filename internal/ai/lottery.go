package ai

// Lottery picks an index from weights given a roll in [0, total), where total
// is the sum of the positive weights. Each positive weight is subtracted from
// the roll in list order and the first entry that takes the remainder below
// zero wins. Weights of zero or less never win. It returns -1 when no weight
// is positive.
func Lottery(weights []float64, roll float64) int {
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		roll -= w
		if roll < 0 {
			return i
		}
	}
	// A roll at or past the total lands on the last eligible entry.
	return last
}

// totalWeight sums the positive weights.
func totalWeight(weights []float64) float64 {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	return total
}
