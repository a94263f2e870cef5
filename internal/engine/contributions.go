package engine

import (
	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
)

// applyContributions applies every scheduled contribution for the
// year. Personal contributions are funded from the sweep account;
// personal pension contributions are additionally grossed up by the
// tax-year relief rate when the pension's owner is a relevant
// individual.
func (ctx *yearContext) applyContributions() error {
	for _, a := range ctx.cf.Accounts {
		slot := ctx.accountLedger(a.ID)
		for _, c := range a.Contributions {
			amount, err := resolveValue(ctx.cf, c.Values, ctx.year)
			if err != nil {
				return err
			}
			if amount <= 0 {
				continue
			}
			slot.CurrentValue = plan.Round2(slot.CurrentValue + amount)
			if c.Type == plan.ContributionPersonal && !a.Sweep {
				if err := ctx.deductFromSweep(amount); err != nil {
					return err
				}
			}
		}
	}

	for _, p := range ctx.cf.Pensions {
		slot := ctx.pensionLedger(p.ID)
		for _, c := range p.Contributions {
			amount, err := resolveValue(ctx.cf, c.Values, ctx.year)
			if err != nil {
				return err
			}
			if amount <= 0 {
				continue
			}

			added := amount
			if c.Type == plan.ContributionPersonal {
				relevant, err := ctx.relevantIndividual(p)
				if err != nil {
					return err
				}
				if relevant {
					added = plan.Round2(amount * ctx.relief.GrossUpFactor())
				}
				if err := ctx.deductFromSweep(amount); err != nil {
					return err
				}
			}

			slot.CurrentUncrystallised = plan.Round2(slot.CurrentUncrystallised + added)
			slot.syncCurrent()
		}
	}
	return nil
}

// deductFromSweep funds a personal contribution from the sweep
// account. The sweep may go overdrawn here; the windfall step repays it
// when a surplus allows.
func (ctx *yearContext) deductFromSweep(amount float64) error {
	sweep, err := ctx.sweepLedger()
	if err != nil {
		return eris.Wrap(err, "engine: fund personal contribution")
	}
	sweep.CurrentValue = plan.Round2(sweep.CurrentValue - amount)
	return nil
}

// relevantIndividual reports whether the pension's owner qualifies for
// contribution tax relief this tax year: alive in the household and
// younger than the relief rule's upper age bound at the year's start.
func (ctx *yearContext) relevantIndividual(p *plan.MoneyPurchase) (bool, error) {
	if len(p.OwnerIDs) == 0 {
		return false, nil
	}
	owner, err := ctx.cf.PersonByID(p.OwnerIDs[0])
	if err != nil {
		return false, eris.Wrapf(err, "engine: pension %q owner", p.ID)
	}
	return owner.AgeAt(ctx.year.Start) < ctx.relief.RelevantUpperAge, nil
}
