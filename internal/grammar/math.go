package grammar

import "math"

// logSumExp computes log(sum(exp(xs))) without overflow.
func logSumExp(xs []float64) float64 {
	largest := math.Inf(-1)
	for _, x := range xs {
		if x > largest {
			largest = x
		}
	}
	if math.IsInf(largest, -1) {
		return largest
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - largest)
	}
	return largest + math.Log(sum)
}
