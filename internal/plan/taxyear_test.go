package plan

import (
	"testing"
	"time"
)

func TestTaxYearFromDate(t *testing.T) {
	// UK tax years run 6 April to 5 April
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{"mid tax year", "2023-07-15", "2324"},
		{"first day of tax year", "2023-04-06", "2324"},
		{"last day of previous tax year", "2023-04-05", "2223"},
		{"january belongs to prior label", "2024-01-15", "2324"},
		{"new year's day", "2025-01-01", "2425"},
		{"century wrap", "2099-07-01", "9900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatalf("parse date: %v", err)
			}
			result := TaxYearFromDate(d)
			if result != tt.expected {
				t.Errorf("TaxYearFromDate(%s) = %s; want %s", tt.date, result, tt.expected)
			}
		})
	}
}

func TestTaxYearLabel(t *testing.T) {
	tests := []struct {
		year     int
		expected string
	}{
		{2022, "2223"},
		{2023, "2324"},
		{2024, "2425"},
		{2099, "9900"},
		{2000, "0001"},
		{2009, "0910"},
	}

	for _, tt := range tests {
		result := TaxYearLabel(tt.year)
		if result != tt.expected {
			t.Errorf("TaxYearLabel(%d) = %s; want %s", tt.year, result, tt.expected)
		}
	}
}

func TestTaxYearStartYear(t *testing.T) {
	tests := []struct {
		label    string
		expected int
	}{
		{"2223", 2022},
		{"2324", 2023},
		{"2425", 2024},
		{"0001", 2000},
		{"4950", 2049},
		{"5152", 1951},
		{"9900", 1999},
	}

	for _, tt := range tests {
		result, err := TaxYearStartYear(tt.label)
		if err != nil {
			t.Errorf("TaxYearStartYear(%s) returned error: %v", tt.label, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("TaxYearStartYear(%s) = %d; want %d", tt.label, result, tt.expected)
		}
	}
}

func TestTaxYearStartYearRejectsMalformed(t *testing.T) {
	for _, label := range []string{"", "23", "23245", "abcd", "2326"} {
		if _, err := TaxYearStartYear(label); err == nil {
			t.Errorf("TaxYearStartYear(%q) should fail", label)
		}
	}
}

func TestTaxYearRoundTrip(t *testing.T) {
	for year := 2000; year <= 2050; year++ {
		back, err := TaxYearStartYear(TaxYearLabel(year))
		if err != nil {
			t.Fatalf("round trip %d: %v", year, err)
		}
		if back != year {
			t.Errorf("round trip %d = %d", year, back)
		}
	}
}
