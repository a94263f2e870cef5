package engine

import (
	"cashplan/internal/plan"
	"cashplan/internal/tax"
)

// AccountYear is one account's ledger slot for one planning year.
// StartValue seeds from the prior year's EndValue (or the opening
// valuation in year zero); CurrentValue is mutated by contributions and
// withdrawals during the year; EndValue is CurrentValue plus one year's
// growth.
type AccountYear struct {
	StartValue   float64 `json:"start_value"`
	CurrentValue float64 `json:"current_value"`
	EndValue     float64 `json:"end_value"`
	GrowthRate   float64 `json:"growth_rate"`
}

// PensionYear tracks the same triad as AccountYear plus the
// crystallised/uncrystallised sub-balances. After every mutation
// CurrentValue == CurrentCrystallised + CurrentUncrystallised within
// rounding tolerance.
type PensionYear struct {
	AccountYear

	StartCrystallised   float64 `json:"start_crystallised"`
	CurrentCrystallised float64 `json:"current_crystallised"`
	EndCrystallised     float64 `json:"end_crystallised"`

	StartUncrystallised   float64 `json:"start_uncrystallised"`
	CurrentUncrystallised float64 `json:"current_uncrystallised"`
	EndUncrystallised     float64 `json:"end_uncrystallised"`
}

// syncCurrent re-derives the pension's headline current value from its
// buckets.
func (p *PensionYear) syncCurrent() {
	p.CurrentValue = plan.Round2(p.CurrentCrystallised + p.CurrentUncrystallised)
}

// IncomeYear is one income's ledger slot: gross received, tax and NI
// charged across all owners, and the spendable remainder.
type IncomeYear struct {
	Gross   float64 `json:"gross"`
	TaxPaid float64 `json:"tax_paid"`
	NIPaid  float64 `json:"ni_paid"`
	Net     float64 `json:"net"`
}

// ExpenseYear is one expense's resolved amount for the year.
type ExpenseYear struct {
	Amount float64 `json:"amount"`
}

// PersonTaxYear holds one person's tax-band allocation and National
// Insurance for the year. Rebuilt from scratch whenever the shortfall
// solver changes the income set.
type PersonTaxYear struct {
	Allocation *tax.Allocation `json:"allocation"`
	NI         *tax.NIResult   `json:"ni"`
}

// YearResult is one planning year's complete output slot. Populated
// then frozen once growth is applied, except that the shortfall solver
// may redo the year's tax and withdrawal state before that point.
type YearResult struct {
	Year plan.PlanningYear `json:"year"`

	Accounts map[string]*AccountYear   `json:"accounts"`
	Pensions map[string]*PensionYear   `json:"pensions"`
	Incomes  map[string]*IncomeYear    `json:"incomes"`
	Expenses map[string]*ExpenseYear   `json:"expenses"`
	Tax      map[string]*PersonTaxYear `json:"tax"`

	TotalNetIncome float64 `json:"total_net_income"`
	TotalExpenses  float64 `json:"total_expenses"`
	Surplus        float64 `json:"surplus"`

	// SweepOverdraft is how far the sweep account was forced negative
	// after liquidation exhausted every other asset.
	SweepOverdraft float64 `json:"sweep_overdraft,omitempty"`

	// SolverNotConverged flags a year whose shortfall bisection hit its
	// iteration cap; the recorded state is best-effort, not exact.
	SolverNotConverged bool `json:"solver_not_converged,omitempty"`
}

// Output is the simulation's sole result structure: a year-indexed
// ledger per account, pension, income and expense, plus per-person tax
// state per tax year.
type Output struct {
	Years []*YearResult `json:"years"`
}

// newYearResult allocates the year's slots for every entity known at
// the start of the year. Ad-hoc entities minted mid-year add their own
// slots as they appear.
func newYearResult(cf *plan.Cashflow, year plan.PlanningYear) *YearResult {
	yr := &YearResult{
		Year:     year,
		Accounts: make(map[string]*AccountYear, len(cf.Accounts)),
		Pensions: make(map[string]*PensionYear, len(cf.Pensions)),
		Incomes:  make(map[string]*IncomeYear, len(cf.Incomes)),
		Expenses: make(map[string]*ExpenseYear, len(cf.Expenses)),
		Tax:      make(map[string]*PersonTaxYear, len(cf.People)),
	}
	for _, a := range cf.Accounts {
		yr.Accounts[a.ID] = &AccountYear{}
	}
	for _, p := range cf.Pensions {
		yr.Pensions[p.ID] = &PensionYear{}
	}
	for _, in := range cf.Incomes {
		yr.Incomes[in.ID] = &IncomeYear{}
	}
	for _, e := range cf.Expenses {
		yr.Expenses[e.ID] = &ExpenseYear{}
	}
	return yr
}
