// Package pricing scores recent sales pressure into price recommendations.
package pricing

import "math"

// DemandScore maps recent sell-through against stock into [0.5, 1.5].
// Zero stock is maximal pressure regardless of sales.
func DemandScore(unitsSold, stockLevel float64) float64 {
	if stockLevel == 0 {
		return 1.5
	}
	ratio := unitsSold / stockLevel
	return clamp(1+0.5*ratio, 0.5, 1.5)
}

// AdjustPrice applies the piecewise adjustment for a demand score, rounded to
// cents. High scores raise the price, low scores discount it, and the middle
// band nudges gently.
func AdjustPrice(unitPrice, score float64) float64 {
	var adjusted float64
	switch {
	case score > 1.2:
		adjusted = unitPrice * (1 + 0.05*(score-1))
	case score < 0.8:
		adjusted = unitPrice * (1 - 0.05*(1-score))
	default:
		adjusted = unitPrice * (1 + 0.02*(score-1))
	}
	return round2(adjusted)
}

// Confidence grows as the score moves away from neutral, rounded to 2 decimals.
func Confidence(score float64) float64 {
	return round2(0.75 + math.Abs(score-1)*0.25)
}

// Recommend is the full stateless scoring pipeline.
func Recommend(unitPrice, unitsSold, stockLevel float64) (price, confidence float64) {
	score := DemandScore(unitsSold, stockLevel)
	return AdjustPrice(unitPrice, score), Confidence(score)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
