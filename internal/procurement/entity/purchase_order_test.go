package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDeriveFulfillmentStatus(t *testing.T) {
	cases := []struct {
		ordered   float64
		fulfilled float64
		want      string
	}{
		{1000, 0, POFulfillmentOpen},
		{1000, 300, POFulfillmentPartial},
		{1000, 999.99, POFulfillmentPartial},
		{1000, 1000, POFulfillmentClosed},
		{1000, 1200, POFulfillmentClosed},
		{0, 0, POFulfillmentOpen},
	}

	for _, c := range cases {
		if got := DeriveFulfillmentStatus(c.ordered, c.fulfilled); got != c.want {
			t.Errorf("DeriveFulfillmentStatus(%v, %v) = %s, want %s", c.ordered, c.fulfilled, got, c.want)
		}
	}
}

func TestComputeAmounts(t *testing.T) {
	item := POLineItem{
		OrderedQuantity: 500,
		Rate:            decimal.NewFromFloat(12.50),
		GSTRate:         12,
	}
	item.ComputeAmounts()

	if item.Value.String() != "6250" {
		t.Errorf("Value = %s, want 6250", item.Value)
	}
	if item.GSTAmount.String() != "750" {
		t.Errorf("GSTAmount = %s, want 750", item.GSTAmount)
	}
	if item.TotalAmount.String() != "7000" {
		t.Errorf("TotalAmount = %s, want 7000", item.TotalAmount)
	}
}

func TestComputeAmountsRounding(t *testing.T) {
	item := POLineItem{
		OrderedQuantity: 3,
		Rate:            decimal.NewFromFloat(33.333),
		GSTRate:         18,
	}
	item.ComputeAmounts()

	if item.Value.String() != "100" {
		t.Errorf("Value = %s, want 100", item.Value)
	}
	if item.GSTAmount.String() != "18" {
		t.Errorf("GSTAmount = %s, want 18", item.GSTAmount)
	}
}

func TestFiscalYearLabel(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "26-27"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "23-24"},
	}

	for _, c := range cases {
		if got := FiscalYearLabel(c.date); got != c.want {
			t.Errorf("FiscalYearLabel(%s) = %s, want %s", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestPONumberFormats(t *testing.T) {
	if got := DraftPONumber("25-26", POTypeRM, 3); got != "PO/25-26/RM/DRAFT/0003" {
		t.Errorf("DraftPONumber = %s", got)
	}
	if got := FinalPONumber("25-26", POTypeFG, 17); got != "PO/25-26/FG/0017" {
		t.Errorf("FinalPONumber = %s", got)
	}
}
