package pdfgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var wordOnes = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var wordTens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// numberToWords spells an integer in the Indian numbering system
// (thousand, lakh, crore).
func numberToWords(num int) string {
	switch {
	case num == 0:
		return ""
	case num < 20:
		return wordOnes[num]
	case num < 100:
		return strings.TrimSpace(wordTens[num/10] + " " + wordOnes[num%10])
	case num < 1000:
		remainder := num % 100
		if remainder == 0 {
			return wordOnes[num/100] + " Hundred"
		}
		return wordOnes[num/100] + " Hundred " + numberToWords(remainder)
	case num < 100000:
		remainder := num % 1000
		if remainder == 0 {
			return numberToWords(num/1000) + " Thousand"
		}
		return numberToWords(num/1000) + " Thousand " + numberToWords(remainder)
	case num < 10000000:
		remainder := num % 100000
		if remainder == 0 {
			return numberToWords(num/100000) + " Lakh"
		}
		return numberToWords(num/100000) + " Lakh " + numberToWords(remainder)
	default:
		remainder := num % 10000000
		if remainder == 0 {
			return numberToWords(num/10000000) + " Crore"
		}
		return numberToWords(num/10000000) + " Crore " + numberToWords(remainder)
	}
}

// AmountInWords spells a rupee amount for the PO footer.
func AmountInWords(amount decimal.Decimal) string {
	value, _ := amount.Float64()
	rupees := int(math.Floor(value))
	paise := int(math.Round((value - float64(rupees)) * 100))

	var parts []string
	if rupees > 0 {
		parts = append(parts, fmt.Sprintf("%s Rupees", strings.TrimSpace(numberToWords(rupees))))
	}
	if paise > 0 {
		parts = append(parts, fmt.Sprintf("%s Paise", strings.TrimSpace(numberToWords(paise))))
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
