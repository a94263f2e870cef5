package engine

import (
	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
	"cashplan/internal/rates"
)

// yearContext owns all shared state for one planning year's
// computation. It exists for the duration of that year only; nothing in
// the engine is held at package level.
type yearContext struct {
	cf   *plan.Cashflow
	year plan.PlanningYear
	yr   *YearResult

	taxTables map[plan.Region]rates.TaxTable
	ni        rates.NITable
	relief    rates.ReliefRule

	// grossOverride pins an income's gross for this year to the amount
	// actually disbursed by its paired withdrawal, superseding the
	// income's own schedule.
	grossOverride map[string]float64
}

func newYearContext(cf *plan.Cashflow, year plan.PlanningYear, yr *YearResult) (*yearContext, error) {
	ctx := &yearContext{
		cf:            cf,
		year:          year,
		yr:            yr,
		taxTables:     make(map[plan.Region]rates.TaxTable),
		grossOverride: make(map[string]float64),
	}

	cpi := cf.Assumptions.Inflation
	real := cf.Assumptions.RealTerms
	for _, p := range cf.People {
		if _, ok := ctx.taxTables[p.Region]; ok {
			continue
		}
		tbl, err := rates.Tax(year.TaxYear, p.Region, cpi, real)
		if err != nil {
			return nil, eris.Wrap(err, "engine: load tax table")
		}
		ctx.taxTables[p.Region] = tbl
	}

	ni, err := rates.NI(year.TaxYear, cpi, real)
	if err != nil {
		return nil, eris.Wrap(err, "engine: load NI table")
	}
	ctx.ni = ni

	relief, err := rates.Relief(year.TaxYear)
	if err != nil {
		return nil, eris.Wrap(err, "engine: load relief rule")
	}
	ctx.relief = relief

	return ctx, nil
}

// accountLedger returns the year slot for a plain account.
func (ctx *yearContext) accountLedger(id string) *AccountYear {
	return ctx.yr.Accounts[id]
}

// pensionLedger returns the year slot for a money-purchase pension.
func (ctx *yearContext) pensionLedger(id string) *PensionYear {
	return ctx.yr.Pensions[id]
}

// sweepLedger resolves the sweep account's year slot. A missing sweep
// account is a fatal configuration error at the first point one is
// needed.
func (ctx *yearContext) sweepLedger() (*AccountYear, error) {
	sweep, err := ctx.cf.SweepAccount()
	if err != nil {
		return nil, err
	}
	return ctx.yr.Accounts[sweep.ID], nil
}

// seedLedgers opens the year: each account's start value is the prior
// year's end value, or the opening valuation in year zero. Pensions
// seed both sub-balances the same way.
func (ctx *yearContext) seedLedgers(prev *YearResult) {
	for _, a := range ctx.cf.Accounts {
		slot := ctx.yr.Accounts[a.ID]
		if prev != nil {
			slot.StartValue = prev.Accounts[a.ID].EndValue
		} else {
			slot.StartValue = a.OpeningValue(ctx.cf.StartDate)
		}
		slot.CurrentValue = slot.StartValue
	}

	for _, p := range ctx.cf.Pensions {
		slot := ctx.yr.Pensions[p.ID]
		if prev != nil {
			prevSlot := prev.Pensions[p.ID]
			slot.StartValue = prevSlot.EndValue
			slot.StartCrystallised = prevSlot.EndCrystallised
			slot.StartUncrystallised = prevSlot.EndUncrystallised
		} else {
			total := p.OpeningValue(ctx.cf.StartDate)
			cryst := p.OpeningCrystallised
			if cryst < 0 {
				cryst = 0
			}
			if cryst > total {
				cryst = total
			}
			slot.StartValue = total
			slot.StartCrystallised = cryst
			slot.StartUncrystallised = plan.Round2(total - cryst)
		}
		slot.CurrentValue = slot.StartValue
		slot.CurrentCrystallised = slot.StartCrystallised
		slot.CurrentUncrystallised = slot.StartUncrystallised
	}
}

// applyGrowth closes the year: one year of growth on the final current
// values. Overdrafts do not compound, so a negative current value grows
// at zero.
func (ctx *yearContext) applyGrowth() {
	for _, a := range ctx.cf.Accounts {
		slot := ctx.yr.Accounts[a.ID]
		rate := a.Growth.RateForYear(ctx.year.Index)
		if slot.CurrentValue < 0 {
			rate = 0
		}
		slot.GrowthRate = rate
		slot.EndValue = plan.Round2(slot.CurrentValue * (1 + rate))
	}

	for _, p := range ctx.cf.Pensions {
		slot := ctx.yr.Pensions[p.ID]
		rate := p.Growth.RateForYear(ctx.year.Index)
		if slot.CurrentValue < 0 {
			rate = 0
		}
		slot.GrowthRate = rate
		slot.EndCrystallised = plan.Round2(slot.CurrentCrystallised * (1 + rate))
		slot.EndUncrystallised = plan.Round2(slot.CurrentUncrystallised * (1 + rate))
		slot.EndValue = plan.Round2(slot.EndCrystallised + slot.EndUncrystallised)
	}
}
