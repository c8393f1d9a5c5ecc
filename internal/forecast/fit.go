package forecast

import "math"

// z-score for a 95% interval.
const z95 = 1.96

// fitLinear fits y = slope*i + intercept over the series index by least
// squares. A single-point series yields a flat line through that point.
func fitLinear(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	if len(y) == 0 {
		return 0, 0
	}
	if len(y) == 1 {
		return 0, y[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// residualStd is the standard deviation of the fit residuals.
func residualStd(y []float64, slope, intercept float64) float64 {
	if len(y) < 2 {
		return 0
	}
	var sumSq float64
	for i, v := range y {
		r := v - (slope*float64(i) + intercept)
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(y)))
}

// project extends the fitted trend horizon steps past the end of the series.
// Negative projections are clamped to zero, since demand is in units. The
// returned margin is the half-width of the 95% band; it is reported but the
// stored forecast keeps only the point estimate.
func project(y []float64, horizon int) (values []float64, margin float64) {
	slope, intercept := fitLinear(y)
	margin = z95 * residualStd(y, slope, intercept)

	values = make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		v := slope*float64(len(y)+h) + intercept
		if v < 0 {
			v = 0
		}
		values[h] = v
	}
	return values, margin
}
