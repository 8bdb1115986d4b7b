package entity

import (
	"fmt"
	"time"
)

// FiscalYearLabel returns the two-digit Indian fiscal year pair for t,
// e.g. "25-26" for any date from 2025-04-01 through 2026-03-31.
func FiscalYearLabel(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// DraftPONumber formats the run-scoped placeholder number shown before a PO
// is approved. seq is 1-based in group discovery order and never persisted.
func DraftPONumber(fy, poType string, seq int) string {
	return fmt.Sprintf("PO/%s/%s/DRAFT/%04d", fy, poType, seq)
}

// FinalPONumber formats the durable number assigned at approval.
func FinalPONumber(fy, poType string, seq int) string {
	return fmt.Sprintf("PO/%s/%s/%04d", fy, poType, seq)
}
