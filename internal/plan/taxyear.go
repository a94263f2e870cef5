package plan

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// UK tax years run 6 April to 5 April and are labelled by two
// concatenated 2-digit year fragments, e.g. "2324" for 2023/24.

// TaxYearFromDate returns the tax-year label containing the given date.
// A date on or after 6 April belongs to {thisYear}{nextYear}, otherwise
// {prevYear}{thisYear}.
func TaxYearFromDate(d time.Time) string {
	year := d.Year()
	boundary := time.Date(year, time.April, 6, 0, 0, 0, 0, d.Location())
	if d.Before(boundary) {
		return taxYearLabel(year - 1)
	}
	return taxYearLabel(year)
}

// TaxYearLabel builds the label for the tax year starting in April of
// the given calendar year.
func TaxYearLabel(startYear int) string {
	return taxYearLabel(startYear)
}

func taxYearLabel(startYear int) string {
	return fmt.Sprintf("%02d%02d", startYear%100, (startYear+1)%100)
}

// TaxYearStartYear parses a tax-year label back to the calendar year in
// which that tax year starts. Labels before "5051" are taken to be in
// the 2000s.
func TaxYearStartYear(label string) (int, error) {
	if len(label) != 4 {
		return 0, eris.Errorf("plan: malformed tax-year label %q", label)
	}
	var first, second int
	if _, err := fmt.Sscanf(label, "%02d%02d", &first, &second); err != nil {
		return 0, eris.Errorf("plan: malformed tax-year label %q", label)
	}
	if (first+1)%100 != second {
		return 0, eris.Errorf("plan: non-consecutive tax-year label %q", label)
	}
	century := 2000
	if first >= 51 {
		century = 1900
	}
	return century + first, nil
}
