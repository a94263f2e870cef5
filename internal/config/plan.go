package config

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"cashplan/internal/plan"
)

// DefaultStatePensionAge applies when a person's plan omits one.
const DefaultStatePensionAge = 67

const dateLayout = "2006-01-02"

// PlanFile is the YAML representation of a full cashflow plan.
type PlanFile struct {
	StartDate   string            `yaml:"start_date" json:"start_date"`
	Years       int               `yaml:"years" json:"years"`
	Assumptions AssumptionsConfig `yaml:"assumptions" json:"assumptions"`
	People      []PersonConfig    `yaml:"people" json:"people"`
	Accounts    []AccountConfig   `yaml:"accounts" json:"accounts"`
	Pensions    []PensionConfig   `yaml:"pensions" json:"pensions"`
	Incomes     []IncomeConfig    `yaml:"incomes" json:"incomes"`
	Expenses    []ExpenseConfig   `yaml:"expenses" json:"expenses"`
}

// AssumptionsConfig holds the economy-wide settings from YAML.
type AssumptionsConfig struct {
	Inflation        float64  `yaml:"inflation" json:"inflation"`
	RealTerms        bool     `yaml:"real_terms" json:"real_terms"`
	Liquidation      string   `yaml:"liquidation" json:"liquidation"`
	LiquidationOrder []string `yaml:"liquidation_order,omitempty" json:"liquidation_order,omitempty"`
	Windfall         string   `yaml:"windfall" json:"windfall"`
}

// PersonConfig represents a household member from YAML.
type PersonConfig struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	BirthDate       string `yaml:"birth_date" json:"birth_date"`
	Region          string `yaml:"region" json:"region"`
	InDrawdown      bool   `yaml:"in_drawdown" json:"in_drawdown"`
	Blind           bool   `yaml:"blind" json:"blind"`
	StatePensionAge int    `yaml:"state_pension_age" json:"state_pension_age"`
}

// ValueConfig is one entry of an entity's value schedule.
type ValueConfig struct {
	StartsAt   string  `yaml:"starts_at" json:"starts_at"`
	EndsAt     string  `yaml:"ends_at" json:"ends_at"`
	Amount     float64 `yaml:"amount" json:"amount"`
	Escalation float64 `yaml:"escalation" json:"escalation"`
	Index      string  `yaml:"index,omitempty" json:"index,omitempty"`
	Adjusted   bool    `yaml:"adjusted" json:"adjusted"`
}

// GrowthConfig describes an account's growth template.
type GrowthConfig struct {
	Rate    float64   `yaml:"rate" json:"rate"`
	Charges float64   `yaml:"charges" json:"charges"`
	Cycle   []float64 `yaml:"cycle,omitempty" json:"cycle,omitempty"`
}

// ValuationConfig is a dated point-in-time account value.
type ValuationConfig struct {
	Date  string  `yaml:"date" json:"date"`
	Value float64 `yaml:"value" json:"value"`
}

// ContributionConfig is a scheduled payment into an account.
type ContributionConfig struct {
	ID     string        `yaml:"id" json:"id"`
	Type   string        `yaml:"type" json:"type"`
	Values []ValueConfig `yaml:"values" json:"values"`
}

// WithdrawalConfig is a scheduled disbursement from an account.
type WithdrawalConfig struct {
	ID     string        `yaml:"id" json:"id"`
	Method string        `yaml:"method" json:"method"`
	Income string        `yaml:"income,omitempty" json:"income,omitempty"`
	Values []ValueConfig `yaml:"values" json:"values"`
}

// AccountConfig represents a non-pension account from YAML.
type AccountConfig struct {
	ID            string               `yaml:"id" json:"id"`
	Name          string               `yaml:"name" json:"name"`
	Category      string               `yaml:"category" json:"category"`
	Owners        []string             `yaml:"owners" json:"owners"`
	Sweep         bool                 `yaml:"sweep" json:"sweep"`
	Growth        GrowthConfig         `yaml:"growth" json:"growth"`
	Valuations    []ValuationConfig    `yaml:"valuations,omitempty" json:"valuations,omitempty"`
	Contributions []ContributionConfig `yaml:"contributions,omitempty" json:"contributions,omitempty"`
	Withdrawals   []WithdrawalConfig   `yaml:"withdrawals,omitempty" json:"withdrawals,omitempty"`
}

// PensionConfig represents a money-purchase pension from YAML.
type PensionConfig struct {
	AccountConfig       `yaml:",inline" json:",inline"`
	OpeningCrystallised float64 `yaml:"opening_crystallised" json:"opening_crystallised"`
}

// IncomeConfig represents an income stream from YAML.
type IncomeConfig struct {
	ID     string        `yaml:"id" json:"id"`
	Name   string        `yaml:"name" json:"name"`
	Type   string        `yaml:"type" json:"type"`
	Owners []string      `yaml:"owners" json:"owners"`
	Values []ValueConfig `yaml:"values" json:"values"`
}

// ExpenseConfig represents a scheduled outgoing from YAML.
type ExpenseConfig struct {
	ID     string        `yaml:"id" json:"id"`
	Name   string        `yaml:"name" json:"name"`
	Values []ValueConfig `yaml:"values" json:"values"`
}

// LoadPlan reads and converts a YAML plan file.
func LoadPlan(path string) (*plan.Cashflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "config: read plan file")
	}
	var pf PlanFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrap(err, "config: parse plan file")
	}
	return pf.Cashflow()
}

// Cashflow converts the YAML representation into the simulation input,
// minting IDs where the plan omits them.
func (pf *PlanFile) Cashflow() (*plan.Cashflow, error) {
	start, err := parseDate(pf.StartDate)
	if err != nil {
		return nil, eris.Wrap(err, "config: start_date")
	}

	liquidation, err := plan.ParseLiquidationStrategy(pf.Assumptions.Liquidation)
	if err != nil {
		return nil, err
	}
	windfall, err := plan.ParseWindfallPolicy(pf.Assumptions.Windfall)
	if err != nil {
		return nil, err
	}

	cf := &plan.Cashflow{
		StartDate: start,
		Years:     pf.Years,
		Assumptions: plan.Assumptions{
			Inflation:        pf.Assumptions.Inflation,
			RealTerms:        pf.Assumptions.RealTerms,
			Liquidation:      liquidation,
			LiquidationOrder: pf.Assumptions.LiquidationOrder,
			Windfall:         windfall,
		},
	}

	for _, pc := range pf.People {
		p, err := pc.person()
		if err != nil {
			return nil, err
		}
		cf.People = append(cf.People, p)
	}
	for _, ac := range pf.Accounts {
		base, err := ac.base()
		if err != nil {
			return nil, err
		}
		cf.Accounts = append(cf.Accounts, &plan.Account{BaseAccount: *base})
	}
	for _, pc := range pf.Pensions {
		base, err := pc.base()
		if err != nil {
			return nil, err
		}
		if base.Category != plan.CategoryPension {
			return nil, eris.Errorf("config: pension %q must have category pension, got %q", base.ID, base.Category)
		}
		cf.Pensions = append(cf.Pensions, &plan.MoneyPurchase{
			BaseAccount:         *base,
			OpeningCrystallised: pc.OpeningCrystallised,
		})
	}
	for _, ic := range pf.Incomes {
		in, err := ic.income()
		if err != nil {
			return nil, err
		}
		cf.Incomes = append(cf.Incomes, in)
	}
	for _, ec := range pf.Expenses {
		values, err := parseValues(ec.Values)
		if err != nil {
			return nil, eris.Wrapf(err, "config: expense %q", ec.Name)
		}
		cf.Expenses = append(cf.Expenses, &plan.Expense{
			ID:     orMint(ec.ID),
			Name:   ec.Name,
			Values: values,
		})
	}
	return cf, nil
}

func (pc PersonConfig) person() (*plan.Person, error) {
	dob, err := parseDate(pc.BirthDate)
	if err != nil {
		return nil, eris.Wrapf(err, "config: person %q birth_date", pc.Name)
	}
	region, err := plan.ParseRegion(pc.Region)
	if err != nil {
		return nil, eris.Wrapf(err, "config: person %q", pc.Name)
	}
	spa := pc.StatePensionAge
	if spa == 0 {
		spa = DefaultStatePensionAge
	}
	return &plan.Person{
		ID:              orMint(pc.ID),
		Name:            pc.Name,
		DateOfBirth:     dob,
		Region:          region,
		InDrawdown:      pc.InDrawdown,
		Blind:           pc.Blind,
		StatePensionAge: spa,
	}, nil
}

func (ac AccountConfig) base() (*plan.BaseAccount, error) {
	category, err := plan.ParseAccountCategory(ac.Category)
	if err != nil {
		return nil, eris.Wrapf(err, "config: account %q", ac.Name)
	}

	base := &plan.BaseAccount{
		ID:       orMint(ac.ID),
		Name:     ac.Name,
		Category: category,
		OwnerIDs: ac.Owners,
		Sweep:    ac.Sweep,
		Growth: plan.GrowthTemplate{
			GrossRate: ac.Growth.Rate,
			Charges:   ac.Growth.Charges,
			Cycle:     ac.Growth.Cycle,
		},
	}

	for _, vc := range ac.Valuations {
		date, err := parseDate(vc.Date)
		if err != nil {
			return nil, eris.Wrapf(err, "config: account %q valuation", ac.Name)
		}
		base.Valuations = append(base.Valuations, plan.Valuation{Date: date, Value: vc.Value})
	}
	for _, cc := range ac.Contributions {
		typ, err := plan.ParseContributionType(cc.Type)
		if err != nil {
			return nil, eris.Wrapf(err, "config: account %q contribution", ac.Name)
		}
		values, err := parseValues(cc.Values)
		if err != nil {
			return nil, eris.Wrapf(err, "config: account %q contribution", ac.Name)
		}
		base.Contributions = append(base.Contributions, plan.Contribution{
			ID:     orMint(cc.ID),
			Type:   typ,
			Values: values,
		})
	}
	for _, wc := range ac.Withdrawals {
		method, err := plan.ParseWithdrawalMethod(wc.Method)
		if err != nil {
			return nil, eris.Wrapf(err, "config: account %q withdrawal", ac.Name)
		}
		values, err := parseValues(wc.Values)
		if err != nil {
			return nil, eris.Wrapf(err, "config: account %q withdrawal", ac.Name)
		}
		base.Withdrawals = append(base.Withdrawals, plan.Withdrawal{
			ID:       orMint(wc.ID),
			Method:   method,
			IncomeID: wc.Income,
			Values:   values,
		})
	}
	return base, nil
}

func (ic IncomeConfig) income() (*plan.Income, error) {
	typ, err := plan.ParseIncomeType(ic.Type)
	if err != nil {
		return nil, eris.Wrapf(err, "config: income %q", ic.Name)
	}
	values, err := parseValues(ic.Values)
	if err != nil {
		return nil, eris.Wrapf(err, "config: income %q", ic.Name)
	}
	return &plan.Income{
		ID:       orMint(ic.ID),
		Name:     ic.Name,
		Type:     typ,
		OwnerIDs: ic.Owners,
		Values:   values,
	}, nil
}

func parseValues(vcs []ValueConfig) (plan.ValueSchedule, error) {
	var schedule plan.ValueSchedule
	for _, vc := range vcs {
		starts, err := parseDate(vc.StartsAt)
		if err != nil {
			return nil, eris.Wrap(err, "starts_at")
		}
		ends, err := parseDate(vc.EndsAt)
		if err != nil {
			return nil, eris.Wrap(err, "ends_at")
		}
		if !ends.After(starts) {
			return nil, eris.Errorf("value schedule entry ends (%s) before it starts (%s)", vc.EndsAt, vc.StartsAt)
		}
		schedule = append(schedule, plan.EntityValue{
			StartsAt:   starts,
			EndsAt:     ends,
			Amount:     vc.Amount,
			Escalation: vc.Escalation,
			Index:      vc.Index,
			Adjusted:   vc.Adjusted,
		})
	}
	return schedule, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, eris.New("date is required")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse date %q", s)
	}
	return t, nil
}

func orMint(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
