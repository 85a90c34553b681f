package model

import (
	"time"

	"github.com/whlim/billsplit/internal/split"
)

// Expense is a single allocated transaction. SelfAmount and
// PartnerAmount are derived from Amount and SelfPercentage and are only
// ever recomputed together, so they always sum to Amount to the cent.
type Expense struct {
	Date           time.Time
	BillMonth      time.Time
	CreatedAt      time.Time
	Description    string
	Category       string
	OriginalText   string
	ID             int64
	Amount         float64
	SelfPercentage float64
	SelfAmount     float64
	PartnerAmount  float64
}

// ApplySplit sets the split percentage and recomputes both derived shares.
func (e *Expense) ApplySplit(selfPercentage float64) {
	e.SelfPercentage = selfPercentage
	e.SelfAmount, e.PartnerAmount = split.Shares(e.Amount, selfPercentage)
}
