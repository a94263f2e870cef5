package engine

import (
	"math"
	"testing"
	"time"

	"cashplan/internal/plan"
)

const tolerance = 0.01

func assertClose(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > tolerance {
		t.Errorf("%s: expected %.2f, got %.2f", description, expected, actual)
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProject(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		escalation float64
		inflation  float64
		years      int
		expected   float64
	}{
		{"no elapsed years", 1000, 0.05, 0, 0, 1000},
		{"simple escalation", 1000, 0.03, 0, 2, 1060.90},
		{"escalation matches inflation", 1000, 0.03, 0.03, 5, 1000},
		{"deflated only", 1000, 0, 0.025, 1, 975.61},
		{"negative years", 1000, 0.05, 0, -3, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.amount, tt.escalation, tt.inflation, tt.years)
			assertClose(t, tt.expected, got, tt.name)
		})
	}
}

func TestProjectSaturatesMalformedRates(t *testing.T) {
	// A sub -100% escalation cannot compound into negative money
	if got := Project(1000, -1.5, 0, 3); got != 0 {
		t.Errorf("Project with -150%% escalation = %v; want 0", got)
	}
	if got := Project(1000, 0.05, -1, 2); got != 0 {
		t.Errorf("Project with -100%% inflation = %v; want 0", got)
	}
}

func TestResolveValueTwoStage(t *testing.T) {
	cf := &plan.Cashflow{
		StartDate:   date("2023-04-06"),
		Assumptions: plan.Assumptions{Inflation: 0.025},
	}
	years := plan.PlanningYears(cf.StartDate, 3)

	// An entry captured two years before the plan start is
	// fast-forwarded to start terms, then escalated per planning year.
	schedule := plan.ValueSchedule{{
		StartsAt:   date("2021-04-06"),
		EndsAt:     date("2030-04-06"),
		Amount:     1000,
		Escalation: 0.03,
	}}

	got, err := resolveValue(cf, schedule, years[0])
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	assertClose(t, 1060.90, got, "year 0 includes pre-start catch-up")

	got, err = resolveValue(cf, schedule, years[1])
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	assertClose(t, 1092.73, got, "year 1 adds one planning year")
}

func TestResolveValueAdjustedSkipsCatchUp(t *testing.T) {
	cf := &plan.Cashflow{StartDate: date("2023-04-06")}
	years := plan.PlanningYears(cf.StartDate, 1)

	schedule := plan.ValueSchedule{{
		StartsAt:   date("2019-04-06"),
		EndsAt:     date("2030-04-06"),
		Amount:     1000,
		Escalation: 0.05,
		Adjusted:   true,
	}}

	got, err := resolveValue(cf, schedule, years[0])
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	assertClose(t, 1000, got, "adjusted amount used as-is in year 0")
}

func TestResolveValueNoOverlap(t *testing.T) {
	cf := &plan.Cashflow{StartDate: date("2023-04-06")}
	years := plan.PlanningYears(cf.StartDate, 1)

	schedule := plan.ValueSchedule{{
		StartsAt: date("2030-04-06"),
		EndsAt:   date("2035-04-06"),
		Amount:   1000,
	}}

	got, err := resolveValue(cf, schedule, years[0])
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	if got != 0 {
		t.Errorf("non-overlapping schedule = %v; want 0", got)
	}
}

func TestResolveValueCPIIndex(t *testing.T) {
	cf := &plan.Cashflow{
		StartDate:   date("2023-04-06"),
		Assumptions: plan.Assumptions{Inflation: 0.04},
	}
	years := plan.PlanningYears(cf.StartDate, 2)

	schedule := plan.ValueSchedule{{
		StartsAt: date("2023-04-06"),
		EndsAt:   date("2030-04-06"),
		Amount:   1000,
		Index:    plan.IndexCPI,
		Adjusted: true,
	}}

	got, err := resolveValue(cf, schedule, years[1])
	if err != nil {
		t.Fatalf("resolveValue: %v", err)
	}
	assertClose(t, 1040, got, "cpi-indexed value escalates at assumed inflation")
}
