package pdfgen

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"1", "One Rupees Only"},
		{"21", "Twenty One Rupees Only"},
		{"105", "One Hundred Five Rupees Only"},
		{"1500", "One Thousand Five Hundred Rupees Only"},
		{"250000", "Two Lakh Fifty Thousand Rupees Only"},
		{"12500000", "One Crore Twenty Five Lakh Rupees Only"},
		{"100.50", "One Hundred Rupees and Fifty Paise Only"},
		{"0.75", "Seventy Five Paise Only"},
	}

	for _, c := range cases {
		amount, err := decimal.NewFromString(c.amount)
		if err != nil {
			t.Fatalf("bad test amount %s: %v", c.amount, err)
		}
		if got := AmountInWords(amount); got != c.want {
			t.Errorf("AmountInWords(%s) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestNumberToWordsIndianGrouping(t *testing.T) {
	cases := []struct {
		num  int
		want string
	}{
		{7, "Seven"},
		{19, "Nineteen"},
		{40, "Forty"},
		{99, "Ninety Nine"},
		{100, "One Hundred"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{123456, "One Lakh Twenty Three Thousand Four Hundred Fifty Six"},
		{10000000, "One Crore"},
	}

	for _, c := range cases {
		if got := numberToWords(c.num); got != c.want {
			t.Errorf("numberToWords(%d) = %q, want %q", c.num, got, c.want)
		}
	}
}
