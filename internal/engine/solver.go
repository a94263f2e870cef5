package engine

import (
	"sort"

	"go.uber.org/zap"

	"cashplan/internal/plan"
)

// maxSolverIterations caps the shortfall bisection per asset. The
// residual moves monotonically with the withdrawal amount, so the cap
// only trips on degenerate configurations, such as an asset so large
// that the bracket cannot narrow inside the convergence window.
const maxSolverIterations = 25

// settle closes the year's cash position. A surplus is banked per the
// windfall policy; a shortfall is funded by liquidating assets until
// net income covers the year's expenses or the assets run out.
func (ctx *yearContext) settle() error {
	sweep, err := ctx.sweepLedger()
	if err != nil {
		return err
	}

	if plan.Round1(ctx.yr.Surplus) >= 0 {
		ctx.applyWindfall(sweep)
	} else {
		if err := ctx.applyShortfall(sweep); err != nil {
			return err
		}
	}

	if sweep.CurrentValue < 0 {
		ctx.yr.SweepOverdraft = plan.Round2(-sweep.CurrentValue)
	}
	return nil
}

// applyWindfall settles a year the household can afford: the surplus
// first repays any sweep overdraft, then the remainder is banked or
// discarded per policy.
func (ctx *yearContext) applyWindfall(sweep *AccountYear) {
	surplus := ctx.yr.Surplus
	if sweep.CurrentValue < 0 && surplus > 0 {
		repay := minf(surplus, -sweep.CurrentValue)
		sweep.CurrentValue = plan.Round2(sweep.CurrentValue + repay)
		surplus = plan.Round2(surplus - repay)
	}
	if surplus <= 0 {
		sweep.CurrentValue = plan.Round2(sweep.CurrentValue + surplus)
		return
	}
	if ctx.cf.Assumptions.Windfall == plan.WindfallToSweep {
		sweep.CurrentValue = plan.Round2(sweep.CurrentValue + surplus)
	}
}

// applyShortfall funds a year whose net income falls short of its
// expenses. Assets are liquidated in strategy order until the surplus
// rounds to zero: tax-free disbursements cover the deficit pound for
// pound and are applied directly, taxable ones feed back into the
// year's tax position and are solved by bisection. Whatever residual
// remains once every asset is exhausted lands on the sweep, forcing it
// into overdraft as the last resort.
func (ctx *yearContext) applyShortfall(sweep *AccountYear) error {
	for _, a := range ctx.liquidationAssets() {
		if plan.Round1(ctx.yr.Surplus) >= 0 {
			break
		}
		var err error
		if a.category().TaxableOnWithdrawal() {
			err = ctx.equilibrate(a)
		} else {
			err = ctx.liquidateDirect(a)
		}
		if err != nil {
			return err
		}
	}

	sweep.CurrentValue = plan.Round2(sweep.CurrentValue + ctx.yr.Surplus)
	return nil
}

// liquidateDirect covers as much of the deficit as the asset holds.
// Tax-free disbursements raise net income exactly by the amount paid,
// so no search is needed; the tax state is still recomputed once to
// fold the new income into the year.
func (ctx *yearContext) liquidateDirect(a *liquidatable) error {
	need := plan.Round2(-ctx.yr.Surplus)
	if need <= 0 {
		return nil
	}
	amount := minf(need, a.balance(ctx))
	if amount <= 0 {
		return nil
	}
	if _, _, err := ctx.applyAdHoc(a, amount); err != nil {
		return err
	}
	return ctx.computeTax()
}

// equilibrate liquidates from one taxable asset toward a zero surplus.
// The withdrawal itself changes the tax liability, which changes the
// residual need, so the amount is an equilibrium: a full liquidation
// that still leaves a shortfall is kept outright; otherwise the
// balancing withdrawal is found by bisection. Hitting the iteration
// cap keeps the last candidate that does not leave the year short and
// flags the year.
func (ctx *yearContext) equilibrate(a *liquidatable) error {
	balance := a.balance(ctx)
	if balance <= 0 {
		return nil
	}

	apply := func(amount float64) (float64, *adhocRecord, error) {
		_, rec, err := ctx.applyAdHoc(a, amount)
		if err != nil {
			return 0, nil, err
		}
		if err := ctx.computeTax(); err != nil {
			ctx.undoAdHoc(rec)
			return 0, nil, err
		}
		return ctx.yr.Surplus, rec, nil
	}

	residual, rec, err := apply(balance)
	if err != nil {
		return err
	}
	if residual < 0 {
		return nil
	}
	if plan.Round1(residual) == 0 {
		return nil
	}

	lo, hi := 0.0, balance
	for i := 0; i < maxSolverIterations; i++ {
		mid := plan.Round2((lo + hi) / 2)
		ctx.undoAdHoc(rec)
		residual, rec, err = apply(mid)
		if err != nil {
			return err
		}
		if plan.Round1(residual) == 0 {
			return nil
		}
		if residual < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	// Not converged: fall back to the upper bound, which cannot leave
	// the year short, and flag the result as approximate.
	ctx.undoAdHoc(rec)
	if _, _, err := apply(hi); err != nil {
		return err
	}
	ctx.yr.SolverNotConverged = true
	zap.L().Warn("shortfall solver hit iteration cap",
		zap.String("tax_year", ctx.year.TaxYear),
		zap.String("asset", a.id()),
		zap.Float64("withdrawal", hi))
	return nil
}

// liquidatable is one asset the shortfall solver may draw on.
type liquidatable struct {
	account *plan.Account
	pension *plan.MoneyPurchase
}

func (a *liquidatable) id() string {
	if a.pension != nil {
		return a.pension.ID
	}
	return a.account.ID
}

func (a *liquidatable) category() plan.AccountCategory {
	if a.pension != nil {
		return a.pension.Category
	}
	return a.account.Category
}

func (a *liquidatable) balance(ctx *yearContext) float64 {
	if a.pension != nil {
		return ctx.pensionLedger(a.pension.ID).CurrentValue
	}
	return ctx.accountLedger(a.account.ID).CurrentValue
}

// liquidationAssets returns the solvent non-sweep assets in liquidation
// order. Tax-efficient ordering ranks by category, cheapest tax
// treatment first; custom ordering follows the configured account IDs
// with unlisted assets last, both stable over input order.
func (ctx *yearContext) liquidationAssets() []*liquidatable {
	var assets []*liquidatable
	for _, a := range ctx.cf.Accounts {
		if a.Sweep {
			continue
		}
		la := &liquidatable{account: a}
		if la.balance(ctx) > 0 {
			assets = append(assets, la)
		}
	}
	for _, p := range ctx.cf.Pensions {
		la := &liquidatable{pension: p}
		if la.balance(ctx) > 0 {
			assets = append(assets, la)
		}
	}

	switch ctx.cf.Assumptions.Liquidation {
	case plan.LiquidateCustom:
		pos := make(map[string]int, len(ctx.cf.Assumptions.LiquidationOrder))
		for i, id := range ctx.cf.Assumptions.LiquidationOrder {
			pos[id] = i
		}
		unlisted := len(pos)
		sort.SliceStable(assets, func(i, j int) bool {
			pi, ok := pos[assets[i].id()]
			if !ok {
				pi = unlisted
			}
			pj, ok := pos[assets[j].id()]
			if !ok {
				pj = unlisted
			}
			return pi < pj
		})
	default:
		sort.SliceStable(assets, func(i, j int) bool {
			return assets[i].category().LiquidationRank() < assets[j].category().LiquidationRank()
		})
	}
	return assets
}
