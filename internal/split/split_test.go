package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShares(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		percentage  float64
		wantSelf    float64
		wantPartner float64
	}{
		{
			name:        "even fifty-fifty",
			amount:      100.00,
			percentage:  50,
			wantSelf:    50.00,
			wantPartner: 50.00,
		},
		{
			name:        "partner takes the rounding remainder",
			amount:      10.01,
			percentage:  30,
			wantSelf:    3.00,
			wantPartner: 7.01,
		},
		{
			name:        "uneven percentage",
			amount:      33.33,
			percentage:  70,
			wantSelf:    23.33,
			wantPartner: 10.00,
		},
		{
			name:        "zero amount",
			amount:      0,
			percentage:  50,
			wantSelf:    0,
			wantPartner: 0,
		},
		{
			name:        "full share to self",
			amount:      25.90,
			percentage:  100,
			wantSelf:    25.90,
			wantPartner: 0,
		},
		{
			name:        "full share to partner",
			amount:      25.90,
			percentage:  0,
			wantSelf:    0,
			wantPartner: 25.90,
		},
		{
			name:        "negative credit splits both ways",
			amount:      -25.90,
			percentage:  50,
			wantSelf:    -12.95,
			wantPartner: -12.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self, partner := Shares(tt.amount, tt.percentage)
			assert.InDelta(t, tt.wantSelf, self, 0.001)
			assert.InDelta(t, tt.wantPartner, partner, 0.001)
		})
	}
}

func TestSharesSumToTotal(t *testing.T) {
	amounts := []float64{0.01, 0.99, 1.00, 9.99, 10.01, 25.90, 33.33, 100.00, 1234.56}
	percentages := []float64{0, 10, 25, 33, 50, 66.7, 75, 90, 100}

	for _, amount := range amounts {
		for _, pct := range percentages {
			t.Run(fmt.Sprintf("%.2f_at_%.1f", amount, pct), func(t *testing.T) {
				self, partner := Shares(amount, pct)
				assert.InDelta(t, Round2(amount), self+partner, 0.001)
			})
		}
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, Round2(1.234), 0.0001)
	assert.InDelta(t, 1.24, Round2(1.236), 0.0001)
	assert.InDelta(t, -1.23, Round2(-1.234), 0.0001)
	assert.InDelta(t, 0, Round2(0), 0.0001)
}
