// Package split computes two-party percentage splits of monetary amounts.
package split

import "math"

// Shares splits amount between two parties. The self share is amount
// scaled by selfPercentage and rounded to the cent; the partner share is
// the exact complement of the rounded self share, never independently
// rounded, so the pair always sums to Round2(amount).
func Shares(amount, selfPercentage float64) (self, partner float64) {
	self = Round2(amount * selfPercentage / 100)
	partner = Round2(amount - self)
	return self, partner
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
