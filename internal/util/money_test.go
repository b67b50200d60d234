package util

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{999.999, "1,000.00"},
		{1234.5, "1,234.50"},
		{50000, "50,000.00"},
		{1234567.891, "1,234,567.89"},
		{980000000000, "980,000,000,000.00"},
		{-1234.5, "-1,234.50"},
		{0.01, "0.01"},
	}

	for _, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCompactUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{3000000000, "$3.00B"},
		{45100000, "$45.10M"},
		{982000, "$982.00K"},
		{512.34, "$512.34"},
	}

	for _, tc := range cases {
		if got := FormatCompactUSD(tc.in); got != tc.want {
			t.Errorf("FormatCompactUSD(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
