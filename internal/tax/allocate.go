// Package tax implements the income-tax band waterfall allocator and
// the National Insurance banded calculator. Both are pure: they take a
// rate table and a person's incomes for one tax year and return a fresh
// result, so a caller that dislikes a candidate outcome simply discards
// it instead of unwinding shared state.
package tax

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"cashplan/internal/plan"
	"cashplan/internal/rates"
)

// TaxableIncome is one person's share of one income for a tax year.
type TaxableIncome struct {
	IncomeID string
	Category plan.TaxCategory
	Amount   float64
}

// BandIncomeUse records how much of a band one income consumed and the
// tax paid on it.
type BandIncomeUse struct {
	IncomeID string  `json:"income_id"`
	Used     float64 `json:"used"`
	TaxPaid  float64 `json:"tax_paid"`
}

// BandState is one band's allocated state after an Allocate run.
type BandState struct {
	Key           string          `json:"key"`
	Lower         float64         `json:"lower"`
	Upper         float64         `json:"upper"`
	OriginalUpper float64         `json:"original_upper"`
	Allowance     bool            `json:"allowance"`
	Remaining     float64         `json:"remaining"`
	Uses          []BandIncomeUse `json:"uses,omitempty"`

	band rates.Band
}

// Used sums the band's consumption across incomes.
func (b *BandState) Used() float64 {
	var total float64
	for _, u := range b.Uses {
		total += u.Used
	}
	return total
}

// TaxPaid sums the tax charged in this band across incomes.
func (b *BandState) TaxPaid() float64 {
	var total float64
	for _, u := range b.Uses {
		total += u.TaxPaid
	}
	return total
}

// Allocation is the result of distributing one person's incomes across
// one tax year's bands.
type Allocation struct {
	Bands             []*BandState       `json:"bands"`
	ByIncome          map[string]float64 `json:"by_income"`
	TotalTax          float64            `json:"total_tax"`
	AdjustedNetIncome float64            `json:"adjusted_net_income"`
	PersonalAllowance float64            `json:"personal_allowance"`
	Tapered           bool               `json:"tapered"`
}

// Allocate distributes a person's taxable incomes, in input order,
// across the year's allowances and bands. Allowances are consumed
// first (cheapest marginal rate for the income's category first), then
// bands the same way; later incomes see only the capacity earlier ones
// left behind.
func Allocate(tbl rates.TaxTable, incomes []TaxableIncome) (*Allocation, error) {
	for _, in := range incomes {
		if in.Category == plan.TaxCategoryNone {
			return nil, eris.Errorf("tax: income %q is non-taxable", in.IncomeID)
		}
	}

	alloc := &Allocation{
		ByIncome: make(map[string]float64, len(incomes)),
	}
	for _, in := range incomes {
		alloc.AdjustedNetIncome += in.Amount
	}

	// Build fresh band state. The taper is applied here, exactly once
	// per allocation: the personal allowance shrinks by taper-rate
	// pounds per pound of adjusted net income over the threshold,
	// floored at zero. The original bound is kept for inspection.
	for _, b := range tbl.Bands {
		bs := &BandState{
			Key:           b.Key,
			Lower:         b.Lower,
			Upper:         b.Upper,
			OriginalUpper: b.Upper,
			Allowance:     b.Allowance,
			band:          b,
		}
		if b.Allowance && tbl.Taper.Rate > 0 && alloc.AdjustedNetIncome > tbl.Taper.Threshold {
			reduction := tbl.Taper.Rate * (alloc.AdjustedNetIncome - tbl.Taper.Threshold)
			bs.Upper = math.Max(bs.Lower, bs.Upper-reduction)
			alloc.Tapered = true
		}
		bs.Remaining = bs.Upper - bs.Lower
		alloc.Bands = append(alloc.Bands, bs)
		if b.Allowance {
			alloc.PersonalAllowance = bs.Upper
		}
	}

	unused := make([]float64, len(incomes))
	for i, in := range incomes {
		unused[i] = in.Amount
		alloc.ByIncome[in.IncomeID] = 0
	}

	// Allowances pass, then bands pass, each over incomes in input
	// order. Over-allocation attempts clamp to remaining capacity.
	alloc.consume(incomes, unused, true)
	alloc.consume(incomes, unused, false)

	for _, b := range alloc.Bands {
		for _, u := range b.Uses {
			alloc.ByIncome[u.IncomeID] += u.TaxPaid
			alloc.TotalTax += u.TaxPaid
		}
	}
	alloc.TotalTax = plan.Round2(alloc.TotalTax)
	return alloc, nil
}

// consume runs one waterfall pass. For each income the applicable
// bands are taken in ascending order of that category's marginal rate,
// so the most tax-efficient capacity goes first.
func (a *Allocation) consume(incomes []TaxableIncome, unused []float64, allowances bool) {
	for i, in := range incomes {
		if unused[i] <= 0 {
			continue
		}
		candidates := make([]*BandState, 0, len(a.Bands))
		for _, b := range a.Bands {
			if b.Allowance != allowances {
				continue
			}
			if !b.band.AppliesTo(in.Category) {
				continue
			}
			candidates = append(candidates, b)
		}
		sort.SliceStable(candidates, func(x, y int) bool {
			return candidates[x].band.Rate(in.Category) < candidates[y].band.Rate(in.Category)
		})

		for _, b := range candidates {
			if unused[i] <= 0 {
				break
			}
			use := math.Min(b.Remaining, unused[i])
			if use <= 0 {
				continue
			}
			rate := b.band.Rate(in.Category)
			b.Remaining -= use
			unused[i] -= use
			b.Uses = append(b.Uses, BandIncomeUse{
				IncomeID: in.IncomeID,
				Used:     use,
				TaxPaid:  plan.Round2(use * rate),
			})
		}
	}
}
