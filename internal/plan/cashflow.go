package plan

import (
	"time"

	"github.com/rotisserie/eris"
)

// LiquidationStrategy selects the order in which the shortfall solver
// liquidates assets.
type LiquidationStrategy int

const (
	// LiquidateTaxEfficient orders assets by category, cheapest tax
	// treatment first (cash, ISA, unwrapped, bond, pension).
	LiquidateTaxEfficient LiquidationStrategy = iota
	// LiquidateCustom follows the explicit account-ID order in the
	// assumptions; unlisted assets sort last in input order.
	LiquidateCustom
)

// ParseLiquidationStrategy maps a config string to a strategy.
func ParseLiquidationStrategy(s string) (LiquidationStrategy, error) {
	switch s {
	case "", "tax_efficient":
		return LiquidateTaxEfficient, nil
	case "custom":
		return LiquidateCustom, nil
	default:
		return LiquidateTaxEfficient, eris.Errorf("plan: unknown liquidation strategy %q", s)
	}
}

// WindfallPolicy selects where a year's surplus goes after any sweep
// overdraft has been repaid.
type WindfallPolicy int

const (
	WindfallToSweep WindfallPolicy = iota
	WindfallDiscard
)

// ParseWindfallPolicy maps a config string to a policy.
func ParseWindfallPolicy(s string) (WindfallPolicy, error) {
	switch s {
	case "", "sweep":
		return WindfallToSweep, nil
	case "discard":
		return WindfallDiscard, nil
	default:
		return WindfallToSweep, eris.Errorf("plan: unknown windfall policy %q", s)
	}
}

// Assumptions holds the economy-wide simulation settings.
type Assumptions struct {
	Inflation        float64             `json:"inflation"`
	RealTerms        bool                `json:"real_terms"`
	Liquidation      LiquidationStrategy `json:"liquidation"`
	LiquidationOrder []string            `json:"liquidation_order,omitempty"`
	Windfall         WindfallPolicy      `json:"windfall"`
}

// Cashflow is the full simulation input. The orchestrator treats it as
// mutable working state: ad-hoc incomes and withdrawals are appended
// while simulating.
type Cashflow struct {
	StartDate time.Time `json:"start_date"`
	Years     int       `json:"years"`

	People   []*Person        `json:"people"`
	Accounts []*Account       `json:"accounts"`
	Pensions []*MoneyPurchase `json:"pensions"`
	Incomes  []*Income        `json:"incomes"`
	Expenses []*Expense       `json:"expenses"`

	Assumptions Assumptions `json:"assumptions"`
}

// PersonByID resolves a household member. A dangling reference from an
// account or income is a fatal configuration error.
func (cf *Cashflow) PersonByID(id string) (*Person, error) {
	for _, p := range cf.People {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, eris.Errorf("plan: person %q not in household", id)
}

// SweepAccount returns the single designated sweep account. Every
// simulation must have exactly one.
func (cf *Cashflow) SweepAccount() (*Account, error) {
	var sweep *Account
	for _, a := range cf.Accounts {
		if !a.Sweep {
			continue
		}
		if sweep != nil {
			return nil, eris.Errorf("plan: multiple sweep accounts (%q, %q)", sweep.ID, a.ID)
		}
		sweep = a
	}
	if sweep == nil {
		return nil, eris.New("plan: no sweep account configured")
	}
	return sweep, nil
}

// IncomeByID looks up an income record, ad-hoc ones included.
func (cf *Cashflow) IncomeByID(id string) *Income {
	for _, in := range cf.Incomes {
		if in.ID == id {
			return in
		}
	}
	return nil
}

// EscalationRate resolves an entity value's escalation: the literal
// rate, or a named assumption-level index.
func (cf *Cashflow) EscalationRate(v EntityValue) (float64, error) {
	if v.Index == "" {
		return v.Escalation, nil
	}
	if v.Index == IndexCPI {
		return cf.Assumptions.Inflation, nil
	}
	return 0, eris.Errorf("plan: unknown escalation index %q", v.Index)
}

// DeflationRate is the inflation deflator applied when projecting
// values: the assumptions' inflation in real-terms mode, zero in
// nominal mode.
func (cf *Cashflow) DeflationRate() float64 {
	if cf.Assumptions.RealTerms {
		return cf.Assumptions.Inflation
	}
	return 0
}
