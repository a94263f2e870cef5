package tax

import (
	"testing"

	"cashplan/internal/plan"
	"cashplan/internal/rates"
)

// National Insurance validation tests against 2023/24 figures.
//
// Class 1 (employees): 12% between £12,570 and £50,270, 2% above.
// Class 2 (self-employed flat fee): £3.15/week once profits reach the
// small-profits threshold.
// Class 4 (self-employed banded): 6% between £12,570 and £50,270, 2%
// above.
// Reference: https://www.gov.uk/self-employed-national-insurance-rates

func niTable(t *testing.T) rates.NITable {
	t.Helper()
	tbl, err := rates.NI("2324", 0, false)
	if err != nil {
		t.Fatalf("load 2324 NI table: %v", err)
	}
	return tbl
}

func TestNI_Class1Employment(t *testing.T) {
	tests := []struct {
		income   float64
		expected float64
	}{
		{0, 0},
		{12570, 0},
		// (40000 - 12570) * 0.12
		{40000, 3291.60},
		// (50270 - 12570) * 0.12
		{50270, 4524.00},
		// 4524 + (60000 - 50270) * 0.02
		{60000, 4718.60},
	}

	for _, tt := range tests {
		res := NationalInsurance(niTable(t), []NIIncome{
			{IncomeID: "salary", Type: plan.IncomeEmployment, Amount: tt.income},
		})
		assertMoney(t, tt.expected, res.Class1, "class 1 NI")
		assertMoney(t, tt.expected, res.Total, "total NI")
	}
}

func TestNI_SelfEmployment(t *testing.T) {
	// £75,000 profits: class 2 = 3.15 * 52 = 163.80, class 4 =
	// 37700 * 0.06 + 24730 * 0.02 = 2262 + 494.60 = 2756.60
	res := NationalInsurance(niTable(t), []NIIncome{
		{IncomeID: "business", Type: plan.IncomeSelfEmployment, Amount: 75000},
	})

	assertMoney(t, 163.80, res.Class2, "class 2 NI")
	assertMoney(t, 2756.60, res.Class4, "class 4 NI")
	assertMoney(t, 2920.40, res.Total, "total NI")
	assertMoney(t, 2920.40, res.ByIncome["business"], "NI attributed to business")
}

func TestNI_Class2GatedBySmallProfits(t *testing.T) {
	// Profits below the small-profits threshold pay no class 2
	res := NationalInsurance(niTable(t), []NIIncome{
		{IncomeID: "side", Type: plan.IncomeSelfEmployment, Amount: 5000},
	})
	assertMoney(t, 0, res.Class2, "class 2 below threshold")
	assertMoney(t, 0, res.Class4, "class 4 below lower limit")
}

func TestNI_Class2ChargedOnce(t *testing.T) {
	// Two self-employment incomes crossing the threshold cumulatively
	// still pay one flat fee.
	res := NationalInsurance(niTable(t), []NIIncome{
		{IncomeID: "a", Type: plan.IncomeSelfEmployment, Amount: 4000},
		{IncomeID: "b", Type: plan.IncomeSelfEmployment, Amount: 4000},
	})
	assertMoney(t, 163.80, res.Class2, "single class 2 charge")
	// the charge lands on the income that crossed the threshold
	assertMoney(t, 0, res.ByIncome["a"], "first income NI")
	assertMoney(t, 163.80, res.ByIncome["b"], "second income NI")
}

func TestNI_RunningTotalShiftsThresholds(t *testing.T) {
	// A second job's thresholds shift down by income already taxed:
	// after a £40,000 salary the next £20,000 has lower
	// max(0, 12570-40000)=0 and upper max(0, 50270-40000)=10270, so
	// 10270 * 0.12 + 9730 * 0.02 = 1232.40 + 194.60 = 1427.
	res := NationalInsurance(niTable(t), []NIIncome{
		{IncomeID: "main", Type: plan.IncomeEmployment, Amount: 40000},
		{IncomeID: "second", Type: plan.IncomeEmployment, Amount: 20000},
	})

	assertMoney(t, 3291.60, res.ByIncome["main"], "main job NI")
	assertMoney(t, 1427.00, res.ByIncome["second"], "second job NI")
	// same total as a single £60,000 salary
	assertMoney(t, 4718.60, res.Total, "combined NI")
}

func TestNI_IgnoresNonNIableIncome(t *testing.T) {
	res := NationalInsurance(niTable(t), []NIIncome{
		{IncomeID: "pension", Type: plan.IncomePension, Amount: 30000},
		{IncomeID: "rent", Type: plan.IncomeOtherTaxable, Amount: 10000},
	})
	assertMoney(t, 0, res.Total, "no NI on pension or other income")
}
