package plan

import "github.com/rotisserie/eris"

// TaxCategory is the band family an income is taxed under. Of the
// legally recognised categories only earned, savings and dividend are
// modelled; self-employment is taxed as earned.
type TaxCategory int

const (
	TaxCategoryNone TaxCategory = iota
	TaxCategoryEarned
	TaxCategorySavings
	TaxCategoryDividend
)

func (c TaxCategory) String() string {
	switch c {
	case TaxCategoryNone:
		return "non_taxable"
	case TaxCategoryEarned:
		return "earned"
	case TaxCategorySavings:
		return "savings"
	case TaxCategoryDividend:
		return "dividend"
	default:
		return "unknown"
	}
}

// IncomeType classifies an income for tax and National Insurance.
type IncomeType int

const (
	IncomeEmployment IncomeType = iota
	IncomeSelfEmployment
	IncomeDividend
	IncomePension
	IncomeSavings
	IncomeOtherTaxable
	IncomeOtherNonTaxable
)

func (t IncomeType) String() string {
	switch t {
	case IncomeEmployment:
		return "employment"
	case IncomeSelfEmployment:
		return "self_employment"
	case IncomeDividend:
		return "dividend"
	case IncomePension:
		return "pension"
	case IncomeSavings:
		return "savings"
	case IncomeOtherTaxable:
		return "other_taxable"
	case IncomeOtherNonTaxable:
		return "other_non_taxable"
	default:
		return "unknown"
	}
}

// ParseIncomeType maps a config string to an IncomeType.
func ParseIncomeType(s string) (IncomeType, error) {
	switch s {
	case "employment":
		return IncomeEmployment, nil
	case "self_employment":
		return IncomeSelfEmployment, nil
	case "dividend":
		return IncomeDividend, nil
	case "pension":
		return IncomePension, nil
	case "savings":
		return IncomeSavings, nil
	case "other_taxable":
		return IncomeOtherTaxable, nil
	case "other_non_taxable":
		return IncomeOtherNonTaxable, nil
	default:
		return IncomeOtherTaxable, eris.Errorf("plan: unknown income type %q", s)
	}
}

// TaxCategory resolves the band family for the income type.
// Pension and other-taxable income are taxed as earned.
func (t IncomeType) TaxCategory() TaxCategory {
	switch t {
	case IncomeEmployment, IncomeSelfEmployment, IncomePension, IncomeOtherTaxable:
		return TaxCategoryEarned
	case IncomeSavings:
		return TaxCategorySavings
	case IncomeDividend:
		return TaxCategoryDividend
	default:
		return TaxCategoryNone
	}
}

// NIable reports whether the income type attracts National Insurance.
func (t IncomeType) NIable() bool {
	return t == IncomeEmployment || t == IncomeSelfEmployment
}

// Income is a typed income stream owned by one or more people; the tax
// liability splits evenly across owners. Withdrawal-generated incomes
// link back to their source account and withdrawal.
type Income struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     IncomeType `json:"type"`
	OwnerIDs []string   `json:"owner_ids"`
	AdHoc    bool       `json:"ad_hoc"`

	SourceAccountID    string `json:"source_account_id,omitempty"`
	SourceWithdrawalID string `json:"source_withdrawal_id,omitempty"`

	Values ValueSchedule `json:"values"`
}

// Expense is a scheduled outgoing.
type Expense struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Values ValueSchedule `json:"values"`
}
