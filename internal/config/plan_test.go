package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashplan/internal/plan"
)

const samplePlan = `
start_date: 2023-04-06
years: 30
assumptions:
  inflation: 0.025
  real_terms: true
  liquidation: custom
  liquidation_order: [isa, sipp]
  windfall: sweep
people:
  - id: alice
    name: Alice
    birth_date: 1975-06-15
    region: england
    state_pension_age: 68
  - name: Bob
    birth_date: 1978-02-01
accounts:
  - id: current
    name: Current account
    category: cash
    owners: [alice, bob]
    sweep: true
    valuations:
      - date: 2023-04-01
        value: 2500
  - id: isa
    name: ISA
    category: isa
    owners: [alice]
    growth:
      rate: 0.05
      charges: 0.0075
    contributions:
      - type: personal
        values:
          - starts_at: 2023-04-06
            ends_at: 2033-04-06
            amount: 20000
            escalation: 0.02
pensions:
  - id: sipp
    name: SIPP
    category: pension
    owners: [alice]
    opening_crystallised: 40000
    valuations:
      - date: 2023-04-01
        value: 150000
    withdrawals:
      - id: drawdown
        method: fad
        values:
          - starts_at: 2043-04-06
            ends_at: 2063-04-06
            amount: 12000
            index: cpi
incomes:
  - id: salary
    name: Salary
    type: employment
    owners: [alice]
    values:
      - starts_at: 2023-04-06
        ends_at: 2040-04-06
        amount: 55000
        escalation: 0.03
expenses:
  - name: Living costs
    values:
      - starts_at: 2023-04-06
        ends_at: 2063-04-06
        amount: 30000
        index: cpi
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlan(t *testing.T) {
	cf, err := LoadPlan(writePlan(t, samplePlan))
	require.NoError(t, err)

	assert.Equal(t, 30, cf.Years)
	assert.Equal(t, "2023-04-06", cf.StartDate.Format(dateLayout))

	assert.Equal(t, 0.025, cf.Assumptions.Inflation)
	assert.True(t, cf.Assumptions.RealTerms)
	assert.Equal(t, plan.LiquidateCustom, cf.Assumptions.Liquidation)
	assert.Equal(t, []string{"isa", "sipp"}, cf.Assumptions.LiquidationOrder)
	assert.Equal(t, plan.WindfallToSweep, cf.Assumptions.Windfall)

	require.Len(t, cf.People, 2)
	alice := cf.People[0]
	assert.Equal(t, "alice", alice.ID)
	assert.Equal(t, plan.RegionEngland, alice.Region)
	assert.Equal(t, 68, alice.StatePensionAge)

	require.Len(t, cf.Accounts, 2)
	isa := cf.Accounts[1]
	assert.Equal(t, plan.CategoryISA, isa.Category)
	assert.Equal(t, 0.05, isa.Growth.GrossRate)
	assert.Equal(t, 0.0075, isa.Growth.Charges)
	require.Len(t, isa.Contributions, 1)
	assert.Equal(t, plan.ContributionPersonal, isa.Contributions[0].Type)

	require.Len(t, cf.Pensions, 1)
	sipp := cf.Pensions[0]
	assert.Equal(t, 40000.0, sipp.OpeningCrystallised)
	require.Len(t, sipp.Withdrawals, 1)
	assert.Equal(t, plan.MethodFAD, sipp.Withdrawals[0].Method)
	assert.Equal(t, plan.IndexCPI, sipp.Withdrawals[0].Values[0].Index)

	require.Len(t, cf.Incomes, 1)
	assert.Equal(t, plan.IncomeEmployment, cf.Incomes[0].Type)

	require.Len(t, cf.Expenses, 1)
	assert.Equal(t, "Living costs", cf.Expenses[0].Name)
}

func TestLoadPlanMintsMissingIDs(t *testing.T) {
	cf, err := LoadPlan(writePlan(t, samplePlan))
	require.NoError(t, err)

	// Bob and the expense carry no id in the file
	assert.NotEmpty(t, cf.People[1].ID)
	assert.NotEqual(t, cf.People[0].ID, cf.People[1].ID)
	assert.NotEmpty(t, cf.Expenses[0].ID)
	assert.NotEmpty(t, cf.Accounts[1].Contributions[0].ID)
}

func TestLoadPlanDefaultsStatePensionAge(t *testing.T) {
	cf, err := LoadPlan(writePlan(t, samplePlan))
	require.NoError(t, err)
	assert.Equal(t, DefaultStatePensionAge, cf.People[1].StatePensionAge)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPlanErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing start date",
			yaml: "years: 10\npeople: []\n",
		},
		{
			name: "bad date format",
			yaml: "start_date: 06/04/2023\nyears: 10\n",
		},
		{
			name: "unknown income type",
			yaml: `
start_date: 2023-04-06
years: 1
incomes:
  - name: Mystery
    type: royalties
    owners: [alice]
`,
		},
		{
			name: "unknown liquidation strategy",
			yaml: "start_date: 2023-04-06\nyears: 1\nassumptions:\n  liquidation: alphabetical\n",
		},
		{
			name: "unknown region",
			yaml: `
start_date: 2023-04-06
years: 1
people:
  - name: Alice
    birth_date: 1975-06-15
    region: jersey
`,
		},
		{
			name: "pension with non-pension category",
			yaml: `
start_date: 2023-04-06
years: 1
pensions:
  - id: sipp
    name: SIPP
    category: isa
    owners: [alice]
`,
		},
		{
			name: "schedule ends before it starts",
			yaml: `
start_date: 2023-04-06
years: 1
expenses:
  - name: Backwards
    values:
      - starts_at: 2030-04-06
        ends_at: 2023-04-06
        amount: 100
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlan(writePlan(t, tt.yaml))
			assert.Error(t, err, "plan should be rejected")
		})
	}
}
