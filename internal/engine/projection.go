package engine

import (
	"math"

	"cashplan/internal/plan"
)

// Project compounds a monetary amount across elapsed years. The
// per-year multiplier is (1+escalation)/(1+inflation), floored at zero
// so an escalation below -100% cannot compound into negative values;
// malformed rates likewise saturate at zero. The result is rounded to
// 2 decimal places, half away from zero.
func Project(amount, escalation, inflation float64, yearsElapsed int) float64 {
	if yearsElapsed <= 0 {
		return plan.Round2(amount)
	}
	mult := (1 + escalation) / (1 + inflation)
	if math.IsNaN(mult) || math.IsInf(mult, 0) || mult < 0 {
		mult = 0
	}
	return plan.Round2(amount * math.Pow(mult, float64(yearsElapsed)))
}

// resolveValue computes an entity's amount for a planning year from its
// value schedule. When no schedule entry overlaps the year the entity
// contributes zero. A found entry is projected in two stages: first the
// stored amount is fast-forwarded from the entry's own start date to
// the cashflow start (skipped for already-adjusted figures), then it is
// escalated over the planning years elapsed since the cashflow start.
func resolveValue(cf *plan.Cashflow, schedule plan.ValueSchedule, year plan.PlanningYear) (float64, error) {
	v, ok := schedule.ForYear(year)
	if !ok {
		return 0, nil
	}
	escalation, err := cf.EscalationRate(v)
	if err != nil {
		return 0, err
	}
	inflation := cf.DeflationRate()

	amount := v.Amount
	if !v.Adjusted {
		preYears := plan.WholeYearsBetween(v.StartsAt, cf.StartDate)
		amount = Project(amount, escalation, inflation, preYears)
	}
	return Project(amount, escalation, inflation, year.Index), nil
}
