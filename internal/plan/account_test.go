package plan

import "testing"

func TestOpeningValue(t *testing.T) {
	acct := &BaseAccount{
		ID: "isa",
		Valuations: []Valuation{
			{Date: date("2021-01-01"), Value: 8000},
			{Date: date("2023-01-01"), Value: 9500},
			{Date: date("2024-06-01"), Value: 12000},
		},
	}

	tests := []struct {
		name     string
		at       string
		expected float64
	}{
		{"latest on or before start", "2023-04-06", 9500},
		{"after all valuations", "2025-01-01", 12000},
		{"exactly on a valuation", "2023-01-01", 9500},
		{"before all valuations", "2020-01-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acct.OpeningValue(date(tt.at)); got != tt.expected {
				t.Errorf("OpeningValue(%s) = %v; want %v", tt.at, got, tt.expected)
			}
		})
	}
}

func TestGrowthRateForYear(t *testing.T) {
	flat := GrowthTemplate{GrossRate: 0.05, Charges: 0.0075}
	for i := 0; i < 3; i++ {
		if got := flat.RateForYear(i); got != 0.0425 {
			t.Errorf("flat RateForYear(%d) = %v; want 0.0425", i, got)
		}
	}

	cycle := GrowthTemplate{GrossRate: 0.05, Cycle: []float64{0.10, -0.02, 0.04}}
	expected := []float64{0.10, -0.02, 0.04, 0.10, -0.02}
	for i, want := range expected {
		if got := cycle.RateForYear(i); got != want {
			t.Errorf("cycle RateForYear(%d) = %v; want %v", i, got, want)
		}
	}
}

func TestParseWithdrawalMethod(t *testing.T) {
	tests := []struct {
		in       string
		expected WithdrawalMethod
	}{
		{"", MethodSimple},
		{"simple", MethodSimple},
		{"ufpls", MethodUFPLS},
		{"pcls", MethodPCLS},
		{"fad", MethodFAD},
	}
	for _, tt := range tests {
		got, err := ParseWithdrawalMethod(tt.in)
		if err != nil {
			t.Errorf("ParseWithdrawalMethod(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseWithdrawalMethod(%q) = %v; want %v", tt.in, got, tt.expected)
		}
	}

	if _, err := ParseWithdrawalMethod("drawdown"); err == nil {
		t.Error("ParseWithdrawalMethod(\"drawdown\") should fail")
	}
}

func TestLiquidationRankOrder(t *testing.T) {
	// cash first, pension last
	order := []AccountCategory{CategoryCash, CategoryISA, CategoryUnwrapped, CategoryBond, CategoryPension}
	for i := 1; i < len(order); i++ {
		if order[i-1].LiquidationRank() >= order[i].LiquidationRank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}

func TestTaxableOnWithdrawal(t *testing.T) {
	taxable := map[AccountCategory]bool{
		CategoryCash:      false,
		CategoryISA:       false,
		CategoryUnwrapped: true,
		CategoryBond:      true,
		CategoryPension:   true,
	}
	for cat, want := range taxable {
		if got := cat.TaxableOnWithdrawal(); got != want {
			t.Errorf("%s.TaxableOnWithdrawal() = %v; want %v", cat, got, want)
		}
	}
}
