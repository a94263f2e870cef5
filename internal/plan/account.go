package plan

import (
	"time"

	"github.com/rotisserie/eris"
)

// AccountCategory classifies an account for tax and liquidation
// purposes.
type AccountCategory int

const (
	CategoryCash AccountCategory = iota
	CategoryISA
	CategoryUnwrapped
	CategoryBond
	CategoryPension
)

func (c AccountCategory) String() string {
	switch c {
	case CategoryCash:
		return "cash"
	case CategoryISA:
		return "isa"
	case CategoryUnwrapped:
		return "unwrapped"
	case CategoryBond:
		return "bond"
	case CategoryPension:
		return "pension"
	default:
		return "unknown"
	}
}

// ParseAccountCategory maps a config string to an AccountCategory.
func ParseAccountCategory(s string) (AccountCategory, error) {
	switch s {
	case "cash":
		return CategoryCash, nil
	case "isa":
		return CategoryISA, nil
	case "unwrapped":
		return CategoryUnwrapped, nil
	case "bond":
		return CategoryBond, nil
	case "pension":
		return CategoryPension, nil
	default:
		return CategoryCash, eris.Errorf("plan: unknown account category %q", s)
	}
}

// TaxableOnWithdrawal reports whether withdrawals from accounts of this
// category generate taxable income.
func (c AccountCategory) TaxableOnWithdrawal() bool {
	switch c {
	case CategoryUnwrapped, CategoryBond, CategoryPension:
		return true
	default:
		return false
	}
}

// LiquidationRank orders categories most-tax-efficient-to-liquidate
// first: spend cash, then ISA, then taxable wrappers, pensions last.
func (c AccountCategory) LiquidationRank() int {
	switch c {
	case CategoryCash:
		return 0
	case CategoryISA:
		return 1
	case CategoryUnwrapped:
		return 2
	case CategoryBond:
		return 3
	case CategoryPension:
		return 4
	default:
		return 5
	}
}

// GrowthTemplate describes how an account grows: a flat gross rate less
// charges, or a repeating multi-year cycle of rates.
type GrowthTemplate struct {
	GrossRate float64   `json:"gross_rate"`
	Charges   float64   `json:"charges"`
	Cycle     []float64 `json:"cycle,omitempty"`
}

// RateForYear returns the growth rate for a planning-year index,
// rounded to 4 decimal places. Cycled templates repeat with period
// len(Cycle).
func (g GrowthTemplate) RateForYear(yearIndex int) float64 {
	if len(g.Cycle) > 0 {
		return Round4(g.Cycle[yearIndex%len(g.Cycle)])
	}
	return Round4(g.GrossRate - g.Charges)
}

// WithdrawalMethod selects pension crystallisation mechanics. Plain
// accounts use MethodSimple.
type WithdrawalMethod int

const (
	MethodSimple WithdrawalMethod = iota
	MethodUFPLS
	MethodPCLS
	MethodFAD
)

func (m WithdrawalMethod) String() string {
	switch m {
	case MethodSimple:
		return "simple"
	case MethodUFPLS:
		return "ufpls"
	case MethodPCLS:
		return "pcls"
	case MethodFAD:
		return "fad"
	default:
		return "unknown"
	}
}

// ParseWithdrawalMethod maps a config string to a WithdrawalMethod.
// Unknown methods are a fatal configuration error.
func ParseWithdrawalMethod(s string) (WithdrawalMethod, error) {
	switch s {
	case "", "simple":
		return MethodSimple, nil
	case "ufpls":
		return MethodUFPLS, nil
	case "pcls":
		return MethodPCLS, nil
	case "fad":
		return MethodFAD, nil
	default:
		return MethodSimple, eris.Errorf("plan: unknown withdrawal method %q", s)
	}
}

// ContributionType distinguishes personal contributions (funded from
// the sweep account, eligible for tax relief) from employer ones.
type ContributionType int

const (
	ContributionPersonal ContributionType = iota
	ContributionEmployer
)

// ParseContributionType maps a config string to a ContributionType.
func ParseContributionType(s string) (ContributionType, error) {
	switch s {
	case "", "personal":
		return ContributionPersonal, nil
	case "employer":
		return ContributionEmployer, nil
	default:
		return ContributionPersonal, eris.Errorf("plan: unknown contribution type %q", s)
	}
}

// Contribution is a scheduled payment into an account.
type Contribution struct {
	ID     string           `json:"id"`
	Type   ContributionType `json:"type"`
	Values ValueSchedule    `json:"values"`
}

// Withdrawal is a scheduled or ad-hoc disbursement from an account.
// Non-ad-hoc withdrawals keep a paired recurring income record in sync
// via IncomeID; ad-hoc ones are minted (and removed) together with a
// matching ad-hoc income.
type Withdrawal struct {
	ID       string           `json:"id"`
	Method   WithdrawalMethod `json:"method"`
	AdHoc    bool             `json:"ad_hoc"`
	IncomeID string           `json:"income_id,omitempty"`
	Values   ValueSchedule    `json:"values"`
}

// Valuation is a dated point-in-time account value; the latest
// valuation on or before the simulation start seeds year zero.
type Valuation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BaseAccount carries the state shared by plain accounts and
// money-purchase pensions.
type BaseAccount struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      AccountCategory `json:"category"`
	OwnerIDs      []string        `json:"owner_ids"`
	Sweep         bool            `json:"sweep"`
	Growth        GrowthTemplate  `json:"growth"`
	Contributions []Contribution  `json:"contributions,omitempty"`
	Withdrawals   []Withdrawal    `json:"withdrawals,omitempty"`
	Valuations    []Valuation     `json:"valuations,omitempty"`
}

// OpeningValue returns the latest valuation dated on or before the
// given date, or zero when there is none.
func (a *BaseAccount) OpeningValue(at time.Time) float64 {
	var best *Valuation
	for i := range a.Valuations {
		v := &a.Valuations[i]
		if v.Date.After(at) {
			continue
		}
		if best == nil || v.Date.After(best.Date) {
			best = v
		}
	}
	if best == nil {
		return 0
	}
	return best.Value
}

// Account is a non-pension account (cash, ISA, unwrapped, bond).
type Account struct {
	BaseAccount
}

// MoneyPurchase is a defined-contribution pension. Its opening value is
// split into crystallised and uncrystallised buckets; the ledger keeps
// current == crystallised + uncrystallised after every mutation.
type MoneyPurchase struct {
	BaseAccount

	// OpeningCrystallised is the portion of the opening valuation
	// already crystallised; the remainder opens uncrystallised.
	OpeningCrystallised float64 `json:"opening_crystallised"`
}
