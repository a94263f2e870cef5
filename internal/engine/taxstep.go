package engine

import (
	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
	"cashplan/internal/tax"
)

// resolveIncomes fixes every income's gross for the year. Incomes
// paired with a withdrawal carry the amount actually disbursed; the
// rest resolve from their own schedules.
func (ctx *yearContext) resolveIncomes() error {
	for _, in := range ctx.cf.Incomes {
		slot, ok := ctx.yr.Incomes[in.ID]
		if !ok {
			slot = &IncomeYear{}
			ctx.yr.Incomes[in.ID] = slot
		}
		if override, ok := ctx.grossOverride[in.ID]; ok {
			slot.Gross = plan.Round2(override)
			continue
		}
		gross, err := resolveValue(ctx.cf, in.Values, ctx.year)
		if err != nil {
			return eris.Wrapf(err, "engine: income %q", in.ID)
		}
		slot.Gross = gross
	}
	return nil
}

// resolveExpenses fixes every expense's amount for the year.
func (ctx *yearContext) resolveExpenses() error {
	for _, e := range ctx.cf.Expenses {
		amount, err := resolveValue(ctx.cf, e.Values, ctx.year)
		if err != nil {
			return eris.Wrapf(err, "engine: expense %q", e.ID)
		}
		ctx.yr.Expenses[e.ID] = &ExpenseYear{Amount: amount}
	}
	return nil
}

// computeTax rebuilds the year's entire tax state from the currently
// resolved gross incomes. It is rerun whenever the shortfall solver
// changes the income set, so it starts from a clean slate each time:
// per-person band allocations and NI, then per-income tax attribution
// and the year's net totals.
func (ctx *yearContext) computeTax() error {
	for _, slot := range ctx.yr.Incomes {
		slot.TaxPaid = 0
		slot.NIPaid = 0
	}
	ctx.yr.Tax = make(map[string]*PersonTaxYear, len(ctx.cf.People))

	for _, person := range ctx.cf.People {
		taxables, niables, err := ctx.personIncomes(person)
		if err != nil {
			return err
		}

		tbl, ok := ctx.taxTables[person.Region]
		if !ok {
			return eris.Errorf("engine: no tax table loaded for region %q", person.Region)
		}
		alloc, err := tax.Allocate(tbl, taxables)
		if err != nil {
			return eris.Wrapf(err, "engine: tax for %q", person.ID)
		}
		ni := tax.NationalInsurance(ctx.ni, niables)
		ctx.yr.Tax[person.ID] = &PersonTaxYear{Allocation: alloc, NI: ni}

		for id, paid := range alloc.ByIncome {
			ctx.yr.Incomes[id].TaxPaid = plan.Round2(ctx.yr.Incomes[id].TaxPaid + paid)
		}
		for id, paid := range ni.ByIncome {
			ctx.yr.Incomes[id].NIPaid = plan.Round2(ctx.yr.Incomes[id].NIPaid + paid)
		}
	}

	var totalNet, totalExpenses float64
	for _, slot := range ctx.yr.Incomes {
		slot.Net = plan.Round2(slot.Gross - slot.TaxPaid - slot.NIPaid)
		totalNet += slot.Net
	}
	for _, slot := range ctx.yr.Expenses {
		totalExpenses += slot.Amount
	}
	ctx.yr.TotalNetIncome = plan.Round2(totalNet)
	ctx.yr.TotalExpenses = plan.Round2(totalExpenses)
	ctx.yr.Surplus = plan.Round2(ctx.yr.TotalNetIncome - ctx.yr.TotalExpenses)
	return nil
}

// personIncomes splits the household's incomes into one person's
// taxable and NI-able shares, preserving input order. Joint incomes
// split evenly across owners. NI stops applying from state pension age
// and never applies below age 16.
func (ctx *yearContext) personIncomes(person *plan.Person) ([]tax.TaxableIncome, []tax.NIIncome, error) {
	age := person.AgeAt(ctx.year.Start)
	niEligible := age >= tax.NIMinimumAge && age < person.StatePensionAge

	var taxables []tax.TaxableIncome
	var niables []tax.NIIncome
	for _, in := range ctx.cf.Incomes {
		owners := len(in.OwnerIDs)
		if owners == 0 {
			return nil, nil, eris.Errorf("engine: income %q has no owner", in.ID)
		}
		owned := false
		for _, id := range in.OwnerIDs {
			if id == person.ID {
				owned = true
				break
			}
		}
		if !owned {
			continue
		}

		share := plan.Round2(ctx.yr.Incomes[in.ID].Gross / float64(owners))
		if share <= 0 {
			continue
		}
		if cat := in.Type.TaxCategory(); cat != plan.TaxCategoryNone {
			taxables = append(taxables, tax.TaxableIncome{
				IncomeID: in.ID,
				Category: cat,
				Amount:   share,
			})
		}
		if niEligible && in.Type.NIable() {
			niables = append(niables, tax.NIIncome{
				IncomeID: in.ID,
				Type:     in.Type,
				Amount:   share,
			})
		}
	}
	return taxables, niables, nil
}
