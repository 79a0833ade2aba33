package risk

import "sort"

// DistributionScore maps the Gini coefficient of the balances to a 0-100 health score,
// higher meaning more evenly distributed. Degenerate input scores 0.
func DistributionScore(balances []float64) float64 {
	n := len(balances)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	positive := 0
	var total float64
	for i, b := range balances {
		if b < 0 {
			b = 0
		}
		if b > 0 {
			positive++
		}
		sorted[i] = b
		total += b
	}

	if positive == 0 || total == 0 {
		return 0
	}
	// a lone holder owns everything; zero balances do not count as holders
	if positive == 1 {
		return 0
	}

	sort.Float64s(sorted)

	var weighted float64
	for i, x := range sorted {
		weighted += float64(i+1) * x
	}

	fn := float64(n)
	gini := (2*weighted)/(fn*total) - (fn+1)/fn

	return clamp((1-gini)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
