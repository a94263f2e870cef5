// Package rates carries the versioned tax and National Insurance
// lookup data, keyed by tax-year label ("2324" = UK 2023/24). Years
// past the latest known table are forward-projected by inflating
// monetary thresholds at the assumed CPI rate; in real-terms mode the
// latest table is reused verbatim.
package rates

import (
	"math"

	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
)

// Unbounded marks a band with no upper limit.
const Unbounded = 1e15

// Band is one capacity of income taxed at per-category rates. An
// allowance is a band taxed at zero.
type Band struct {
	Key       string                       `json:"key"`
	Lower     float64                      `json:"lower"`
	Upper     float64                      `json:"upper"`
	Allowance bool                         `json:"allowance"`
	Rates     map[plan.TaxCategory]float64 `json:"rates"`
}

// AppliesTo reports whether the band can absorb income of the given
// category.
func (b Band) AppliesTo(c plan.TaxCategory) bool {
	_, ok := b.Rates[c]
	return ok
}

// Rate returns the band's marginal rate for a category.
func (b Band) Rate(c plan.TaxCategory) float64 {
	return b.Rates[c]
}

// TaperRule reduces the personal allowance above an adjusted-net-income
// threshold.
type TaperRule struct {
	Threshold float64 `json:"threshold"`
	Rate      float64 `json:"rate"`
}

// TaxTable is the full income-tax band set for one tax year and region.
type TaxTable struct {
	TaxYear string      `json:"tax_year"`
	Region  plan.Region `json:"region"`
	Bands   []Band      `json:"bands"`
	Taper   TaperRule   `json:"taper"`
}

// Class2Rule is the flat-fee class gated by the small-profits
// threshold.
type Class2Rule struct {
	WeeklyRate            float64 `json:"weekly_rate"`
	SmallProfitsThreshold float64 `json:"small_profits_threshold"`
}

// NIBand is a 3-tier banded rate: nothing below Lower, MainRate between
// the limits, UpperRate above Upper.
type NIBand struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	MainRate  float64 `json:"main_rate"`
	UpperRate float64 `json:"upper_rate"`
}

// NITable holds one tax year's National Insurance classes.
type NITable struct {
	TaxYear string     `json:"tax_year"`
	Class1  NIBand     `json:"class1"`
	Class2  Class2Rule `json:"class2"`
	Class4  NIBand     `json:"class4"`
}

// ReliefRule is the pension contribution tax-relief rate and the upper
// age bound for a relevant individual.
type ReliefRule struct {
	Rate             float64 `json:"rate"`
	RelevantUpperAge int     `json:"relevant_upper_age"`
}

// rUKBands builds the England/Wales/Northern Ireland band set from the
// year's thresholds. Scottish bands are not modelled yet.
func rUKBands(pa, basicUpper, higherUpper float64) []Band {
	return []Band{
		{
			Key:       "personal_allowance",
			Lower:     0,
			Upper:     pa,
			Allowance: true,
			Rates: map[plan.TaxCategory]float64{
				plan.TaxCategoryEarned:   0,
				plan.TaxCategorySavings:  0,
				plan.TaxCategoryDividend: 0,
			},
		},
		{
			Key:   "basic_rate_eng",
			Lower: pa,
			Upper: basicUpper,
			Rates: map[plan.TaxCategory]float64{
				plan.TaxCategoryEarned:   0.20,
				plan.TaxCategorySavings:  0.20,
				plan.TaxCategoryDividend: 0.0875,
			},
		},
		{
			Key:   "higher_rate_eng",
			Lower: basicUpper,
			Upper: higherUpper,
			Rates: map[plan.TaxCategory]float64{
				plan.TaxCategoryEarned:   0.40,
				plan.TaxCategorySavings:  0.40,
				plan.TaxCategoryDividend: 0.3375,
			},
		},
		{
			Key:   "additional_rate_eng",
			Lower: higherUpper,
			Upper: Unbounded,
			Rates: map[plan.TaxCategory]float64{
				plan.TaxCategoryEarned:   0.45,
				plan.TaxCategorySavings:  0.45,
				plan.TaxCategoryDividend: 0.3935,
			},
		},
	}
}

var taxTables = map[string][]Band{
	"2223": rUKBands(12570, 50270, 150000),
	"2324": rUKBands(12570, 50270, 125140),
	"2425": rUKBands(12570, 50270, 125140),
}

var taperRules = map[string]TaperRule{
	"2223": {Threshold: 100000, Rate: 0.5},
	"2324": {Threshold: 100000, Rate: 0.5},
	"2425": {Threshold: 100000, Rate: 0.5},
}

var niTables = map[string]NITable{
	"2223": {
		TaxYear: "2223",
		Class1:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.12, UpperRate: 0.02},
		Class2:  Class2Rule{WeeklyRate: 3.15, SmallProfitsThreshold: 6725},
		Class4:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.0973, UpperRate: 0.0273},
	},
	"2324": {
		TaxYear: "2324",
		Class1:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.12, UpperRate: 0.02},
		Class2:  Class2Rule{WeeklyRate: 3.15, SmallProfitsThreshold: 6845},
		Class4:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.06, UpperRate: 0.02},
	},
	"2425": {
		TaxYear: "2425",
		Class1:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.08, UpperRate: 0.02},
		Class2:  Class2Rule{WeeklyRate: 3.45, SmallProfitsThreshold: 6725},
		Class4:  NIBand{Lower: 12570, Upper: 50270, MainRate: 0.06, UpperRate: 0.02},
	},
}

var reliefRules = map[string]ReliefRule{
	"2223": {Rate: 0.20, RelevantUpperAge: 75},
	"2324": {Rate: 0.20, RelevantUpperAge: 75},
	"2425": {Rate: 0.20, RelevantUpperAge: 75},
}

const (
	earliestYear = 2022
	latestYear   = 2024
)

// yearOffset resolves a requested label against the table range:
// returns the label to read and how many years past the latest table
// the request lies (0 when directly available).
func yearOffset(label string) (string, int, error) {
	start, err := plan.TaxYearStartYear(label)
	if err != nil {
		return "", 0, err
	}
	if start < earliestYear {
		return "", 0, eris.Errorf("rates: no table for tax year %q and no fallback", label)
	}
	if start <= latestYear {
		return label, 0, nil
	}
	return labelFor(latestYear), start - latestYear, nil
}

func labelFor(startYear int) string {
	return plan.TaxYearLabel(startYear)
}

// projectionMultiplier is the threshold inflator for years beyond the
// latest table: (1+cpi)^yearsAhead in nominal mode, 1 in real terms.
func projectionMultiplier(yearsAhead int, cpi float64, realTerms bool) float64 {
	if yearsAhead <= 0 || realTerms {
		return 1
	}
	return math.Pow(1+cpi, float64(yearsAhead))
}

// Tax returns the income-tax band table for a tax year and region,
// forward-projecting thresholds when the year exceeds the latest known
// table.
func Tax(taxYear string, region plan.Region, cpi float64, realTerms bool) (TaxTable, error) {
	if region == plan.RegionScotland {
		return TaxTable{}, eris.Errorf("rates: scottish bands not modelled for tax year %q", taxYear)
	}
	key, ahead, err := yearOffset(taxYear)
	if err != nil {
		return TaxTable{}, err
	}
	bands, ok := taxTables[key]
	if !ok {
		return TaxTable{}, eris.Errorf("rates: no band table for tax year %q", taxYear)
	}
	taper, ok := taperRules[key]
	if !ok {
		return TaxTable{}, eris.Errorf("rates: no taper rule for tax year %q", taxYear)
	}

	mult := projectionMultiplier(ahead, cpi, realTerms)
	out := TaxTable{TaxYear: taxYear, Region: region, Bands: make([]Band, len(bands))}
	for i, b := range bands {
		nb := Band{
			Key:       b.Key,
			Lower:     b.Lower * mult,
			Upper:     b.Upper,
			Allowance: b.Allowance,
			Rates:     make(map[plan.TaxCategory]float64, len(b.Rates)),
		}
		if b.Upper < Unbounded {
			nb.Upper = b.Upper * mult
		}
		for c, r := range b.Rates {
			nb.Rates[c] = r
		}
		out.Bands[i] = nb
	}
	out.Taper = TaperRule{Threshold: taper.Threshold * mult, Rate: taper.Rate}
	return out, nil
}

// NI returns the National Insurance table for a tax year, with the same
// forward-projection fallback as Tax.
func NI(taxYear string, cpi float64, realTerms bool) (NITable, error) {
	key, ahead, err := yearOffset(taxYear)
	if err != nil {
		return NITable{}, err
	}
	tbl, ok := niTables[key]
	if !ok {
		return NITable{}, eris.Errorf("rates: no NI table for tax year %q", taxYear)
	}

	mult := projectionMultiplier(ahead, cpi, realTerms)
	out := tbl
	out.TaxYear = taxYear
	out.Class1.Lower *= mult
	out.Class1.Upper *= mult
	out.Class4.Lower *= mult
	out.Class4.Upper *= mult
	out.Class2.SmallProfitsThreshold *= mult
	return out, nil
}

// Relief returns the pension contribution relief rule for a tax year,
// falling back to the latest known year.
func Relief(taxYear string) (ReliefRule, error) {
	key, _, err := yearOffset(taxYear)
	if err != nil {
		return ReliefRule{}, err
	}
	rule, ok := reliefRules[key]
	if !ok {
		return ReliefRule{}, eris.Errorf("rates: no relief rule for tax year %q", taxYear)
	}
	return rule, nil
}

// GrossUpFactor converts a net personal pension contribution to its
// relief-at-source grossed-up amount.
func (r ReliefRule) GrossUpFactor() float64 {
	if r.Rate >= 1 {
		return 1
	}
	return 1 / (1 - r.Rate)
}
