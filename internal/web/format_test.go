package web

import (
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{239400, "2,394.00"},
		{1150000, "11,500.00"},
		{123456789, "1,234,567.89"},
		{-1060, "-10.60"},
		{-100000, "-1,000.00"},
	}
	for _, tt := range tests {
		if got := money(tt.cents); got != tt.want {
			t.Errorf("money(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}

	if got := moneyFloat(12345.6); got != "123.46" {
		t.Errorf("moneyFloat = %q, want %q", got, "123.46")
	}
	if got := moneyPtr(nil); got != "" {
		t.Errorf("moneyPtr(nil) = %q, want empty", got)
	}
}

func TestPercent(t *testing.T) {
	if got := percent(26.6); got != "26.6%" {
		t.Errorf("percent = %q", got)
	}
	if got := signed(12.34); got != "+12.3" {
		t.Errorf("signed = %q", got)
	}
	if got := signed(-5); got != "-5.0" {
		t.Errorf("signed = %q", got)
	}
}

func TestSignedMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1150000, "+11,500.00"},
		{-250050, "-2,500.50"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := signedMoney(tt.in); got != tt.want {
			t.Errorf("signedMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateOf(t *testing.T) {
	d := time.Date(2025, time.February, 10, 23, 0, 0, 0, time.FixedZone("X", -2*60*60))
	if got := dateOf(&d); got != "2025-02-11" {
		t.Errorf("dateOf = %q, want UTC date", got)
	}
	if got := dateOf(nil); got != "" {
		t.Errorf("dateOf(nil) = %q", got)
	}
}
