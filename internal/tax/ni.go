package tax

import (
	"math"

	"cashplan/internal/plan"
	"cashplan/internal/rates"
)

// NIMinimumAge is the age from which National Insurance is due; people
// at or past state pension age at the year's start pay none.
const NIMinimumAge = 16

// NIIncome is one person's share of one NI-able income for a tax year.
type NIIncome struct {
	IncomeID string
	Type     plan.IncomeType
	Amount   float64
}

// NIResult holds one person's National Insurance for a tax year.
type NIResult struct {
	Class1   float64            `json:"class1"`
	Class2   float64            `json:"class2"`
	Class4   float64            `json:"class4"`
	Total    float64            `json:"total"`
	ByIncome map[string]float64 `json:"by_income"`
}

// NationalInsurance processes a person's incomes in input order,
// keeping a running total of NI-able income already taxed this year.
// The running total shifts each class's banded thresholds downward for
// subsequent incomes, so no threshold is consumed twice.
func NationalInsurance(tbl rates.NITable, incomes []NIIncome) *NIResult {
	res := &NIResult{ByIncome: make(map[string]float64, len(incomes))}

	var alreadyTaxed float64
	var selfEmployedTotal float64
	class2Charged := false

	for _, in := range incomes {
		if !in.Type.NIable() || in.Amount <= 0 {
			continue
		}

		var due float64
		switch in.Type {
		case plan.IncomeEmployment:
			due = bandedNI(tbl.Class1, in.Amount, alreadyTaxed)
			res.Class1 += due
		case plan.IncomeSelfEmployment:
			class4 := bandedNI(tbl.Class4, in.Amount, alreadyTaxed)
			res.Class4 += class4
			due = class4

			// Class 2 is a flat annual fee charged once, gated by the
			// small-profits threshold on cumulative self-employment
			// income.
			selfEmployedTotal += in.Amount
			if !class2Charged && selfEmployedTotal >= tbl.Class2.SmallProfitsThreshold {
				class2 := plan.Round2(tbl.Class2.WeeklyRate * 52)
				res.Class2 += class2
				due += class2
				class2Charged = true
			}
		}

		res.ByIncome[in.IncomeID] += due
		alreadyTaxed += in.Amount
	}

	res.Total = plan.Round2(res.Class1 + res.Class2 + res.Class4)
	return res
}

// bandedNI applies a 3-tier banded rate with thresholds shifted down by
// income already taxed this year.
func bandedNI(b rates.NIBand, amount, alreadyTaxed float64) float64 {
	lower := math.Max(0, b.Lower-alreadyTaxed)
	upper := math.Max(0, b.Upper-alreadyTaxed)

	main := math.Max(0, math.Min(amount, upper)-lower)
	above := math.Max(0, amount-upper)
	return plan.Round2(main*b.MainRate + above*b.UpperRate)
}
