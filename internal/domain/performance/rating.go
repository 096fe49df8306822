package performance

import "math"

// AverageRating is the mean of the quality, productivity, teamwork,
// communication and initiative ratings that are set, or 0 when none are.
func AverageRating(r Review) float64 {
	var sum, n int
	for _, rating := range r.subRatings() {
		if rating != nil {
			sum += *rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(float64(sum) / float64(n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
