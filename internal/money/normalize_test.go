package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"0,00", "0"},
		{"4,29-", "-4.29"},
		{"-4,29", "-4.29"},
		{"+4,29", "4.29"},
		{"EUR 1.234,56", "1234.56"},
		{"1.234,56 EUR", "1234.56"},
		{"€ 12,5", "12.5"},
		{"1.000", "1000"},
		{"4,51124", "4.51124"},
		{" 25,99 ", "25.99"},
		{"1.234.567,89", "1234567.89"},
		{"15,00 %", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("Normalize(%q): got %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, input := range []string{"", "EUR", "-", "abc", "1,2,3", "12a", "St. 10"} {
		t.Run(input, func(t *testing.T) {
			_, err := Normalize(input)
			if !errors.Is(err, ErrMalformedNumber) {
				t.Errorf("Normalize(%q): got error %v, want ErrMalformedNumber", input, err)
			}
		})
	}
}

func TestParse_English(t *testing.T) {
	got, err := Parse("1,234.56", English)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("got %s, want 1234.56", got)
	}
}

func TestNormalize_RoundTrip(t *testing.T) {
	inputs := []string{"1.234,56", "4,29-", "0,00", "100", "0,0001", "12.345.678,9", "EUR 3,50"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Normalize(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			second, err := Normalize(Format(first, German))
			if err != nil {
				t.Fatalf("unexpected error on canonical form %q: %v", Format(first, German), err)
			}
			if !first.Equal(second) {
				t.Errorf("round trip of %q: got %s, want %s", input, second, first)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	if v := Optional("12,00"); !v.Valid || !v.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Optional(12,00): got %+v", v)
	}
	if v := Optional("n/a"); v.Valid {
		t.Errorf("Optional(n/a): expected undefined value, got %s", v.Decimal)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input    string
		loc      Locale
		expected string
	}{
		{"1234.56", German, "1234,56"},
		{"-4.29", German, "-4,29"},
		{"1234.56", English, "1234.56"},
		{"10", German, "10"},
	}

	for _, tt := range tests {
		got := Format(decimal.RequireFromString(tt.input), tt.loc)
		if got != tt.expected {
			t.Errorf("Format(%s): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}
