package web

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// formatMoney renders an amount in minor units as "1,150.00".
func formatMoney(d decimal.Decimal) string {
	s := d.Shift(-2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}

func money(cents int64) string { return formatMoney(decimal.NewFromInt(cents)) }

func moneyFloat(cents float64) string { return formatMoney(decimal.NewFromFloat(cents)) }

func moneyPtr(cents *int64) string {
	if cents == nil {
		return ""
	}
	return money(*cents)
}

// percent renders a percentage with one decimal place.
func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// signed prefixes positive values with "+".
func signed(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(1)
	if v > 0 {
		s = "+" + s
	}
	return s
}

// signedMoney renders a difference in minor units as "+1,150.00".
func signedMoney(cents float64) string {
	s := moneyFloat(cents)
	if cents > 0 {
		s = "+" + s
	}
	return s
}

func dateOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func statusName(status string) string {
	switch status {
	case "incoming":
		return "Incoming"
	case "received":
		return "Received"
	case "servicing":
		return "Servicing"
	case "in_stock":
		return "In stock"
	case "sold":
		return "Sold"
	default:
		return status
	}
}
