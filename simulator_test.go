package vdatax

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scenarioB(t *testing.T) *TaxReport {
	t.Helper()
	return mustCompute(t, []Transaction{
		NewAcquire("b1", on(5, 1), "BTC", Q(1), inr(100000)),
		NewAcquire("b2", on(5, 1), "ETH", Q(1), inr(100000)),
		NewDispose("s1", on(5, 2), "BTC", Q(1), inr(150000)),
		NewDispose("s2", on(5, 2), "ETH", Q(1), inr(70000)),
	}, IndiaVDA())
}

func TestSimulate(t *testing.T) {
	baseline := scenarioB(t)

	tests := []struct {
		name      string
		scenario  func(*Scenario)
		net       Money
		liability Money
		savings   Money
		carried   Money
	}{
		{
			name:      "current law",
			scenario:  func(*Scenario) {},
			net:       inr(50000),
			liability: inr(15600),
			savings:   inr(0),
			carried:   inr(0),
		},
		{
			name:      "loss set-off",
			scenario:  func(s *Scenario) { s.AllowLossOffset = true },
			net:       inr(20000),
			liability: inr(6240),
			savings:   inr(9360),
			carried:   inr(0),
		},
		{
			name:      "lower rate",
			scenario:  func(s *Scenario) { s.TaxRate = R(0.2) },
			net:       inr(50000),
			liability: inr(10400),
			savings:   inr(5200),
			carried:   inr(0),
		},
		{
			name:      "harsher",
			scenario:  func(s *Scenario) { s.TaxRate, s.Cess = R(0.4), R(0.1) },
			net:       inr(50000),
			liability: inr(22000),
			savings:   inr(-6400),
			carried:   inr(0),
		},
		{
			name:      "carry forward without set-off",
			scenario:  func(s *Scenario) { s.AllowCarryForward = true },
			net:       inr(50000),
			liability: inr(15600),
			savings:   inr(0),
			carried:   inr(30000),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := ScenarioOf(baseline.Policy)
			tc.scenario(&s)
			sim, err := Simulate(baseline, s)
			if err != nil {
				t.Fatalf("Simulate() failed: %v", err)
			}
			assertMoney(t, "NetTaxable", sim.NetTaxable, tc.net)
			assertMoney(t, "FinalLiability", sim.FinalLiability, tc.liability)
			assertMoney(t, "Savings", sim.Savings, tc.savings)
			assertMoney(t, "CarriedForward", sim.CarriedForward, tc.carried)
		})
	}
}

func TestSimulate_LeavesBaseline(t *testing.T) {
	baseline := scenarioB(t)
	before := scenarioB(t)
	s := ScenarioOf(baseline.Policy)
	s.AllowLossOffset, s.TaxRate = true, R(0.1)
	if _, err := Simulate(baseline, s); err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}
	if diff := cmp.Diff(before, baseline); diff != "" {
		t.Errorf("Simulate() modified the baseline (-before +after):\n%s", diff)
	}
}

func TestSimulate_MatchesEngine(t *testing.T) {
	// the overlay and a full recomputation agree when cost basis is unchanged
	policy := IndiaVDA()
	policy.AllowLossOffset, policy.TaxRate = true, R(0.25)
	recomputed := mustCompute(t, portfolio(), policy)

	sim, err := Simulate(mustCompute(t, portfolio(), IndiaVDA()), ScenarioOf(policy))
	if err != nil {
		t.Fatalf("Simulate() failed: %v", err)
	}
	assertMoney(t, "FinalLiability", sim.FinalLiability, recomputed.FinalLiability)
}

func TestSimulate_InvalidScenario(t *testing.T) {
	s := ScenarioOf(IndiaVDA())
	s.TaxRate = R(1.2)
	_, err := Simulate(scenarioB(t), s)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("Simulate() error = %v, want a *ConfigurationError", err)
	}
}
