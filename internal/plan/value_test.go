package plan

import "testing"

func TestEntityValueOverlaps(t *testing.T) {
	y := PlanningYears(date("2023-04-06"), 1)[0]

	tests := []struct {
		name     string
		starts   string
		ends     string
		expected bool
	}{
		{"spans the year", "2020-01-01", "2030-01-01", true},
		{"starts mid year", "2023-10-01", "2030-01-01", true},
		{"ends mid year", "2020-01-01", "2023-10-01", true},
		{"ends exactly at year start", "2020-01-01", "2023-04-06", false},
		{"starts exactly at year end", "2024-04-06", "2030-01-01", false},
		{"entirely before", "2020-01-01", "2021-01-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EntityValue{StartsAt: date(tt.starts), EndsAt: date(tt.ends)}
			if got := v.Overlaps(y); got != tt.expected {
				t.Errorf("Overlaps = %v; want %v", got, tt.expected)
			}
		})
	}
}

func TestValueScheduleForYear(t *testing.T) {
	schedule := ValueSchedule{
		{StartsAt: date("2023-04-06"), EndsAt: date("2025-04-06"), Amount: 100},
		{StartsAt: date("2025-04-06"), EndsAt: date("2030-04-06"), Amount: 250},
	}

	years := PlanningYears(date("2023-04-06"), 4)

	v, ok := schedule.ForYear(years[0])
	if !ok || v.Amount != 100 {
		t.Errorf("year 0: got %v ok=%v; want 100", v.Amount, ok)
	}
	v, ok = schedule.ForYear(years[2])
	if !ok || v.Amount != 250 {
		t.Errorf("year 2: got %v ok=%v; want 250", v.Amount, ok)
	}

	outside := PlanningYears(date("2031-04-06"), 1)[0]
	if _, ok := schedule.ForYear(outside); ok {
		t.Error("year outside all entries should not match")
	}
}

func TestCashflowEscalationRate(t *testing.T) {
	cf := &Cashflow{Assumptions: Assumptions{Inflation: 0.025}}

	rate, err := cf.EscalationRate(EntityValue{Escalation: 0.03})
	if err != nil || rate != 0.03 {
		t.Errorf("literal escalation = %v, %v; want 0.03", rate, err)
	}

	rate, err = cf.EscalationRate(EntityValue{Escalation: 0.03, Index: IndexCPI})
	if err != nil || rate != 0.025 {
		t.Errorf("cpi index = %v, %v; want 0.025", rate, err)
	}

	if _, err := cf.EscalationRate(EntityValue{Index: "rpi"}); err == nil {
		t.Error("unknown index should fail")
	}
}

func TestSweepAccount(t *testing.T) {
	cf := &Cashflow{
		Accounts: []*Account{
			{BaseAccount: BaseAccount{ID: "isa", Category: CategoryISA}},
			{BaseAccount: BaseAccount{ID: "current", Category: CategoryCash, Sweep: true}},
		},
	}
	sweep, err := cf.SweepAccount()
	if err != nil {
		t.Fatalf("SweepAccount: %v", err)
	}
	if sweep.ID != "current" {
		t.Errorf("sweep = %s; want current", sweep.ID)
	}

	cf.Accounts[0].Sweep = true
	if _, err := cf.SweepAccount(); err == nil {
		t.Error("two sweep accounts should fail")
	}

	cf.Accounts[0].Sweep = false
	cf.Accounts[1].Sweep = false
	if _, err := cf.SweepAccount(); err == nil {
		t.Error("no sweep account should fail")
	}
}
