package plan

import "time"

// PlanningYear is one simulation step: a contiguous [Start, End) window
// labelled with the tax year its start date falls in. Years are created
// once at initialisation and never change afterwards.
type PlanningYear struct {
	Index   int       `json:"index"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	TaxYear string    `json:"tax_year"`
}

// Contains reports whether the given date falls within the year.
func (y PlanningYear) Contains(d time.Time) bool {
	return !d.Before(y.Start) && d.Before(y.End)
}

// PlanningYears builds the ordered, contiguous, non-overlapping run of
// planning years from a start date. Each year is one calendar year long.
func PlanningYears(start time.Time, count int) []PlanningYear {
	years := make([]PlanningYear, 0, count)
	for i := 0; i < count; i++ {
		ys := start.AddDate(i, 0, 0)
		ye := start.AddDate(i+1, 0, 0)
		years = append(years, PlanningYear{
			Index:   i,
			Start:   ys,
			End:     ye,
			TaxYear: TaxYearFromDate(ys),
		})
	}
	return years
}

// WholeYearsBetween counts complete years elapsed from one date to a
// later one. Returns 0 when to is not after from.
func WholeYearsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
