package engine

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"cashplan/internal/plan"
)

// Simulate runs the full multi-year projection. The cashflow is
// treated as working state: the solver appends ad-hoc withdrawals and
// incomes to it while simulating, so callers wanting a pristine input
// should pass a copy.
//
// Each planning year runs the same sequence: seed ledgers from the
// prior year, apply contributions, apply scheduled withdrawals, resolve
// incomes and expenses, compute tax and National Insurance, settle the
// cash position, then grow every balance into the next year.
func Simulate(cf *plan.Cashflow) (*Output, error) {
	if err := validate(cf); err != nil {
		return nil, err
	}

	out := &Output{Years: make([]*YearResult, 0, cf.Years)}
	var prev *YearResult

	for _, year := range plan.PlanningYears(cf.StartDate, cf.Years) {
		yr := newYearResult(cf, year)
		ctx, err := newYearContext(cf, year, yr)
		if err != nil {
			return nil, eris.Wrapf(err, "engine: tax year %s", year.TaxYear)
		}

		ctx.seedLedgers(prev)
		if err := ctx.yearSteps(); err != nil {
			return nil, eris.Wrapf(err, "engine: tax year %s", year.TaxYear)
		}
		ctx.applyGrowth()

		zap.L().Debug("year simulated",
			zap.Int("index", year.Index),
			zap.String("tax_year", year.TaxYear),
			zap.Float64("net_income", yr.TotalNetIncome),
			zap.Float64("expenses", yr.TotalExpenses),
			zap.Float64("surplus", yr.Surplus),
			zap.Bool("converged", !yr.SolverNotConverged))

		out.Years = append(out.Years, yr)
		prev = yr
	}
	return out, nil
}

func (ctx *yearContext) yearSteps() error {
	if err := ctx.applyContributions(); err != nil {
		return err
	}
	if err := ctx.applyScheduledWithdrawals(); err != nil {
		return err
	}
	if err := ctx.resolveIncomes(); err != nil {
		return err
	}
	if err := ctx.resolveExpenses(); err != nil {
		return err
	}
	if err := ctx.computeTax(); err != nil {
		return err
	}
	return ctx.settle()
}

// validate rejects a cashflow whose cross-references cannot all be
// resolved, before any year runs.
func validate(cf *plan.Cashflow) error {
	if cf.Years <= 0 {
		return eris.New("engine: simulation needs at least one year")
	}
	if len(cf.People) == 0 {
		return eris.New("engine: simulation needs at least one person")
	}
	if _, err := cf.SweepAccount(); err != nil {
		return err
	}

	checkOwners := func(kind, id string, ownerIDs []string) error {
		for _, ownerID := range ownerIDs {
			if _, err := cf.PersonByID(ownerID); err != nil {
				return eris.Wrapf(err, "engine: %s %q", kind, id)
			}
		}
		return nil
	}
	for _, a := range cf.Accounts {
		if err := checkOwners("account", a.ID, a.OwnerIDs); err != nil {
			return err
		}
	}
	for _, p := range cf.Pensions {
		if len(p.OwnerIDs) == 0 {
			return eris.Errorf("engine: pension %q has no owner", p.ID)
		}
		if err := checkOwners("pension", p.ID, p.OwnerIDs); err != nil {
			return err
		}
	}
	for _, in := range cf.Incomes {
		if len(in.OwnerIDs) == 0 {
			return eris.Errorf("engine: income %q has no owner", in.ID)
		}
		if err := checkOwners("income", in.ID, in.OwnerIDs); err != nil {
			return err
		}
	}
	return nil
}
