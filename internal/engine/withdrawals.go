package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
)

// applyScheduledWithdrawals applies every non-ad-hoc withdrawal for the
// year and keeps each one's paired income record in sync with the
// amount actually disbursed.
func (ctx *yearContext) applyScheduledWithdrawals() error {
	for _, a := range ctx.cf.Accounts {
		for i := range a.Withdrawals {
			w := &a.Withdrawals[i]
			if w.AdHoc {
				continue
			}
			if w.Method != plan.MethodSimple {
				return eris.Errorf("engine: withdrawal %q: method %q not valid for account %q", w.ID, w.Method, a.ID)
			}
			intended, err := resolveValue(ctx.cf, w.Values, ctx.year)
			if err != nil {
				return err
			}
			if intended <= 0 {
				continue
			}
			paid := ctx.withdrawSimple(ctx.accountLedger(a.ID), intended)
			if err := ctx.syncWithdrawalIncome(&a.BaseAccount, w, withdrawalIncomeType(a.Category, w.Method), paid); err != nil {
				return err
			}
		}
	}

	for _, p := range ctx.cf.Pensions {
		for i := range p.Withdrawals {
			w := &p.Withdrawals[i]
			if w.AdHoc {
				continue
			}
			intended, err := resolveValue(ctx.cf, w.Values, ctx.year)
			if err != nil {
				return err
			}
			if intended <= 0 {
				continue
			}
			paid, err := ctx.withdrawPension(ctx.pensionLedger(p.ID), w.Method, intended)
			if err != nil {
				return eris.Wrapf(err, "engine: pension %q withdrawal %q", p.ID, w.ID)
			}
			if err := ctx.syncWithdrawalIncome(&p.BaseAccount, w, withdrawalIncomeType(p.Category, w.Method), paid); err != nil {
				return err
			}
		}
	}
	return nil
}

// withdrawSimple disburses min(current, intended) from a plain
// account. Its own disbursement logic never drives the account
// negative; externally forced negatives are tolerated and pay nothing.
func (ctx *yearContext) withdrawSimple(slot *AccountYear, intended float64) float64 {
	if slot.CurrentValue <= 0 {
		return 0
	}
	paid := plan.Round2(minf(slot.CurrentValue, intended))
	slot.CurrentValue = plan.Round2(slot.CurrentValue - paid)
	return paid
}

// withdrawPension applies method-specific crystallisation mechanics:
//
//	ufpls: pays 1:1 from the uncrystallised bucket.
//	pcls:  pays the tax-free lump sum; each 1 paid moves 4 out of the
//	       uncrystallised bucket, 3 of which crystallise.
//	fad:   pays 1:1 from the crystallised bucket.
func (ctx *yearContext) withdrawPension(slot *PensionYear, method plan.WithdrawalMethod, intended float64) (float64, error) {
	var paid float64
	switch method {
	case plan.MethodUFPLS:
		paid = plan.Round2(minf(slot.CurrentUncrystallised, intended))
		slot.CurrentUncrystallised = plan.Round2(slot.CurrentUncrystallised - paid)
	case plan.MethodPCLS:
		paid = plan.Round2(minf(slot.CurrentUncrystallised/4, intended))
		slot.CurrentUncrystallised = plan.Round2(slot.CurrentUncrystallised - 4*paid)
		slot.CurrentCrystallised = plan.Round2(slot.CurrentCrystallised + 3*paid)
	case plan.MethodFAD:
		paid = plan.Round2(minf(slot.CurrentCrystallised, intended))
		slot.CurrentCrystallised = plan.Round2(slot.CurrentCrystallised - paid)
	default:
		return 0, eris.Errorf("engine: withdrawal method %q not recognised for pensions", method)
	}
	slot.syncCurrent()
	if paid < 0 {
		paid = 0
	}
	return paid, nil
}

// withdrawalIncomeType maps a withdrawal to the income type of its
// paired record. PCLS payouts and cash/ISA withdrawals are tax-free;
// taxable pension drawdown is pension income; unwrapped and bond
// disbursements are taxed as savings income.
func withdrawalIncomeType(cat plan.AccountCategory, method plan.WithdrawalMethod) plan.IncomeType {
	if method == plan.MethodPCLS {
		return plan.IncomeOtherNonTaxable
	}
	switch cat {
	case plan.CategoryPension:
		return plan.IncomePension
	case plan.CategoryUnwrapped, plan.CategoryBond:
		return plan.IncomeSavings
	default:
		return plan.IncomeOtherNonTaxable
	}
}

// syncWithdrawalIncome updates (or creates) the recurring income record
// paired with a scheduled withdrawal, and pins its gross for this year
// to the disbursed amount.
func (ctx *yearContext) syncWithdrawalIncome(acct *plan.BaseAccount, w *plan.Withdrawal, typ plan.IncomeType, paid float64) error {
	income := ctx.cf.IncomeByID(w.IncomeID)
	if income == nil {
		income = &plan.Income{
			ID:                 uuid.NewString(),
			Name:               fmt.Sprintf("%s withdrawal", acct.Name),
			Type:               typ,
			OwnerIDs:           append([]string(nil), acct.OwnerIDs...),
			SourceAccountID:    acct.ID,
			SourceWithdrawalID: w.ID,
		}
		ctx.cf.Incomes = append(ctx.cf.Incomes, income)
		w.IncomeID = income.ID
	}

	// The paired record carries the actual disbursement for this
	// period: replace any entry overlapping the year.
	kept := income.Values[:0]
	for _, v := range income.Values {
		if !v.Overlaps(ctx.year) {
			kept = append(kept, v)
		}
	}
	income.Values = append(kept, plan.EntityValue{
		StartsAt: ctx.year.Start,
		EndsAt:   ctx.year.End,
		Amount:   paid,
		Adjusted: true,
	})

	ctx.grossOverride[income.ID] += paid
	if _, ok := ctx.yr.Incomes[income.ID]; !ok {
		ctx.yr.Incomes[income.ID] = &IncomeYear{}
	}
	return nil
}

// adhocPair is one reversible ad-hoc withdrawal/income pair minted by
// the shortfall solver.
type adhocPair struct {
	accountID    string
	withdrawalID string
	incomeID     string
	amount       float64
}

// adhocRecord snapshots everything needed to discard an ad-hoc
// liquidation candidate as a unit.
type adhocRecord struct {
	pairs []adhocPair

	accountID   string
	pension     bool
	prevCurrent float64
	prevCryst   float64
	prevUncryst float64
}

// applyAdHoc liquidates up to amount from an asset, minting a fresh
// ad-hoc withdrawal entry and a paired ad-hoc income per bucket
// touched. Pensions disburse from the crystallised bucket (fad) first,
// then the uncrystallised one (ufpls). Returns the paid total and a
// record that undoAdHoc can reverse exactly.
func (ctx *yearContext) applyAdHoc(a *liquidatable, amount float64) (float64, *adhocRecord, error) {
	rec := &adhocRecord{accountID: a.id(), pension: a.pension != nil}

	if a.pension != nil {
		slot := ctx.pensionLedger(a.pension.ID)
		rec.prevCurrent = slot.CurrentValue
		rec.prevCryst = slot.CurrentCrystallised
		rec.prevUncryst = slot.CurrentUncrystallised

		var paid float64
		fromCryst := plan.Round2(minf(slot.CurrentCrystallised, amount))
		if fromCryst > 0 {
			p, err := ctx.withdrawPension(slot, plan.MethodFAD, fromCryst)
			if err != nil {
				return 0, nil, err
			}
			ctx.mintAdHocPair(rec, &a.pension.BaseAccount, plan.MethodFAD, p)
			paid += p
		}
		remaining := plan.Round2(amount - paid)
		if remaining > 0 && slot.CurrentUncrystallised > 0 {
			p, err := ctx.withdrawPension(slot, plan.MethodUFPLS, remaining)
			if err != nil {
				return 0, nil, err
			}
			ctx.mintAdHocPair(rec, &a.pension.BaseAccount, plan.MethodUFPLS, p)
			paid += p
		}
		return plan.Round2(paid), rec, nil
	}

	slot := ctx.accountLedger(a.account.ID)
	rec.prevCurrent = slot.CurrentValue
	paid := ctx.withdrawSimple(slot, amount)
	if paid > 0 {
		ctx.mintAdHocPair(rec, &a.account.BaseAccount, plan.MethodSimple, paid)
	}
	return paid, rec, nil
}

// mintAdHocPair appends the ad-hoc withdrawal entry to the account and
// a brand-new ad-hoc income to the cashflow, linked by ID so the pair
// is fully reversible.
func (ctx *yearContext) mintAdHocPair(rec *adhocRecord, acct *plan.BaseAccount, method plan.WithdrawalMethod, paid float64) {
	w := plan.Withdrawal{
		ID:     uuid.NewString(),
		Method: method,
		AdHoc:  true,
		Values: plan.ValueSchedule{{
			StartsAt: ctx.year.Start,
			EndsAt:   ctx.year.End,
			Amount:   paid,
			Adjusted: true,
		}},
	}
	income := &plan.Income{
		ID:                 uuid.NewString(),
		Name:               fmt.Sprintf("%s liquidation", acct.Name),
		Type:               withdrawalIncomeType(acct.Category, method),
		OwnerIDs:           append([]string(nil), acct.OwnerIDs...),
		AdHoc:              true,
		SourceAccountID:    acct.ID,
		SourceWithdrawalID: w.ID,
		Values:             plan.ValueSchedule{{StartsAt: ctx.year.Start, EndsAt: ctx.year.End, Amount: paid, Adjusted: true}},
	}
	w.IncomeID = income.ID

	acct.Withdrawals = append(acct.Withdrawals, w)
	ctx.cf.Incomes = append(ctx.cf.Incomes, income)
	ctx.grossOverride[income.ID] = paid

	// The income resolution step has already run by the time the solver
	// mints a pair, so the slot carries its gross directly.
	ctx.yr.Incomes[income.ID] = &IncomeYear{Gross: paid}

	rec.pairs = append(rec.pairs, adhocPair{
		accountID:    acct.ID,
		withdrawalID: w.ID,
		incomeID:     income.ID,
		amount:       paid,
	})
}

// undoAdHoc reverses an ad-hoc liquidation: balances are restored and
// every minted withdrawal/income pair is removed.
func (ctx *yearContext) undoAdHoc(rec *adhocRecord) {
	if rec.pension {
		slot := ctx.pensionLedger(rec.accountID)
		slot.CurrentValue = rec.prevCurrent
		slot.CurrentCrystallised = rec.prevCryst
		slot.CurrentUncrystallised = rec.prevUncryst
	} else {
		slot := ctx.accountLedger(rec.accountID)
		slot.CurrentValue = rec.prevCurrent
	}

	for _, pair := range rec.pairs {
		ctx.removeWithdrawal(pair.accountID, pair.withdrawalID)
		ctx.removeIncome(pair.incomeID)
		delete(ctx.grossOverride, pair.incomeID)
		delete(ctx.yr.Incomes, pair.incomeID)
	}
}

func (ctx *yearContext) removeWithdrawal(accountID, withdrawalID string) {
	var acct *plan.BaseAccount
	for _, a := range ctx.cf.Accounts {
		if a.ID == accountID {
			acct = &a.BaseAccount
			break
		}
	}
	if acct == nil {
		for _, p := range ctx.cf.Pensions {
			if p.ID == accountID {
				acct = &p.BaseAccount
				break
			}
		}
	}
	if acct == nil {
		return
	}
	for i := range acct.Withdrawals {
		if acct.Withdrawals[i].ID == withdrawalID {
			acct.Withdrawals = append(acct.Withdrawals[:i], acct.Withdrawals[i+1:]...)
			return
		}
	}
}

func (ctx *yearContext) removeIncome(incomeID string) {
	for i := range ctx.cf.Incomes {
		if ctx.cf.Incomes[i].ID == incomeID {
			ctx.cf.Incomes = append(ctx.cf.Incomes[:i], ctx.cf.Incomes[i+1:]...)
			return
		}
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
