package plan

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPlanningYearsContiguous(t *testing.T) {
	years := PlanningYears(date("2023-04-06"), 5)
	if len(years) != 5 {
		t.Fatalf("expected 5 years, got %d", len(years))
	}

	for i, y := range years {
		if y.Index != i {
			t.Errorf("year %d has index %d", i, y.Index)
		}
		if i > 0 && !y.Start.Equal(years[i-1].End) {
			t.Errorf("year %d starts %s, previous ends %s", i, y.Start, years[i-1].End)
		}
	}

	if years[0].TaxYear != "2324" {
		t.Errorf("first year tax year = %s; want 2324", years[0].TaxYear)
	}
	if years[4].TaxYear != "2728" {
		t.Errorf("fifth year tax year = %s; want 2728", years[4].TaxYear)
	}
}

func TestPlanningYearsMidYearStart(t *testing.T) {
	// A plan starting mid calendar year still steps in whole years, each
	// labelled by the tax year its start falls in.
	years := PlanningYears(date("2023-09-01"), 2)
	if !years[0].End.Equal(date("2024-09-01")) {
		t.Errorf("first year ends %s; want 2024-09-01", years[0].End)
	}
	if years[0].TaxYear != "2324" || years[1].TaxYear != "2425" {
		t.Errorf("tax years = %s, %s; want 2324, 2425", years[0].TaxYear, years[1].TaxYear)
	}
}

func TestPlanningYearContains(t *testing.T) {
	y := PlanningYears(date("2023-04-06"), 1)[0]

	tests := []struct {
		date     string
		expected bool
	}{
		{"2023-04-06", true},
		{"2023-12-25", true},
		{"2024-04-05", true},
		{"2024-04-06", false},
		{"2023-04-05", false},
	}
	for _, tt := range tests {
		if got := y.Contains(date(tt.date)); got != tt.expected {
			t.Errorf("Contains(%s) = %v; want %v", tt.date, got, tt.expected)
		}
	}
}

func TestWholeYearsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected int
	}{
		{"same day", "2023-04-06", "2023-04-06", 0},
		{"one day short", "2023-04-06", "2024-04-05", 0},
		{"exact anniversary", "2023-04-06", "2024-04-06", 1},
		{"several years", "2020-01-01", "2023-06-01", 3},
		{"to before from", "2024-04-06", "2023-04-06", 0},
		{"birthday age", "1971-07-15", "2026-07-14", 54},
		{"birthday age on the day", "1971-07-15", "2026-07-15", 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WholeYearsBetween(date(tt.from), date(tt.to))
			if result != tt.expected {
				t.Errorf("WholeYearsBetween(%s, %s) = %d; want %d",
					tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestRounding(t *testing.T) {
	tests := []struct {
		in     float64
		round2 float64
		round1 float64
	}{
		{2.344, 2.34, 2.3},
		{2.346, 2.35, 2.3},
		{-2.346, -2.35, -2.3},
		{1486.0, 1486.0, 1486.0},
		{0.04, 0.04, 0.0},
		{-0.04, -0.04, 0.0},
		{0.06, 0.06, 0.1},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.round2 {
			t.Errorf("Round2(%v) = %v; want %v", tt.in, got, tt.round2)
		}
		if got := Round1(tt.in); got != tt.round1 {
			t.Errorf("Round1(%v) = %v; want %v", tt.in, got, tt.round1)
		}
	}

	if got := Round4(0.123456); got != 0.1235 {
		t.Errorf("Round4(0.123456) = %v; want 0.1235", got)
	}
}
