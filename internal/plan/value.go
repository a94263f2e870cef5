package plan

import "time"

// IndexCPI is the one named economy-wide escalation index the engine
// understands; it resolves to the assumptions' inflation rate.
const IndexCPI = "cpi"

// EntityValue is a time-bounded monetary amount with an escalation
// rule. It backs income, expense, contribution and withdrawal
// schedules.
type EntityValue struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Amount   float64   `json:"amount"`

	// Escalation is a literal annual rate. When Index is non-empty it
	// names an assumption-level rate instead and Escalation is ignored.
	Escalation float64 `json:"escalation"`
	Index      string  `json:"index,omitempty"`

	// Adjusted marks an amount already expressed in cashflow-start
	// terms, so it is not fast-forwarded from StartsAt.
	Adjusted bool `json:"adjusted"`
}

// Overlaps reports whether the value's [StartsAt, EndsAt) interval
// overlaps the planning year: starts strictly before the year ends and
// ends strictly after the year starts.
func (v EntityValue) Overlaps(y PlanningYear) bool {
	return v.StartsAt.Before(y.End) && v.EndsAt.After(y.Start)
}

// ValueSchedule is an ordered sequence of time-bounded values.
type ValueSchedule []EntityValue

// ForYear selects the first schedule entry applicable to the year.
// The second return is false when no entry overlaps, in which case the
// entity contributes zero that year.
func (s ValueSchedule) ForYear(y PlanningYear) (EntityValue, bool) {
	for _, v := range s {
		if v.Overlaps(y) {
			return v, true
		}
	}
	return EntityValue{}, false
}
