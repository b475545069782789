package vdatax

// Scenario is an alternate policy applied to an already computed report.
type Scenario struct {
	TaxRate           Rate
	Cess              Rate
	AllowLossOffset   bool
	AllowCarryForward bool
}

// ScenarioOf returns the scenario equivalent to policy.
func ScenarioOf(policy TaxPolicy) Scenario {
	return Scenario{
		TaxRate:           policy.TaxRate,
		Cess:              policy.Cess,
		AllowLossOffset:   policy.AllowLossOffset,
		AllowCarryForward: policy.AllowCarryForward,
	}
}

// Validate returns a *ConfigurationError for an out of range rate.
func (s Scenario) Validate() error {
	if err := s.TaxRate.Validate(); err != nil {
		return &ConfigurationError{Field: "tax rate", Err: err}
	}
	if err := s.Cess.Validate(); err != nil {
		return &ConfigurationError{Field: "cess", Err: err}
	}
	return nil
}

// Simulation is the outcome of a Scenario.
type Simulation struct {
	Scenario Scenario

	Gains          Money // sum of positive line profits
	Losses         Money // sum of absolute negative line profits
	NetTaxable     Money
	Tax            Money
	Surcharge      Money
	FinalLiability Money
	CarriedForward Money // losses left after set-off, when carry forward is allowed

	Baseline Money // liability of the baseline report
	Savings  Money // Baseline - FinalLiability, negative when the scenario is harsher
}

// Simulate re-aggregates the line profits of baseline under s. Cost basis is
// not recomputed and baseline is left untouched.
func Simulate(baseline *TaxReport, s Scenario) (*Simulation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	zero := Money{cur: baseline.Currency()}
	sim := &Simulation{Scenario: s, Gains: zero, Losses: zero, CarriedForward: zero}
	for _, l := range baseline.Lines {
		switch {
		case l.Profit.IsPositive():
			sim.Gains = sim.Gains.Add(l.Profit)
		case l.Profit.IsNegative():
			sim.Losses = sim.Losses.Add(l.Profit.Abs())
		}
	}
	setOff := zero
	if s.AllowLossOffset {
		setOff = sim.Losses.Min(sim.Gains)
	}
	sim.NetTaxable = sim.Gains.Sub(setOff)
	sim.Tax = sim.NetTaxable.Apply(s.TaxRate)
	sim.Surcharge = sim.Tax.Apply(s.Cess)
	sim.FinalLiability = sim.Tax.Add(sim.Surcharge)
	if s.AllowCarryForward {
		sim.CarriedForward = sim.Losses.Sub(setOff)
	}
	sim.Baseline = baseline.FinalLiability
	sim.Savings = sim.Baseline.Sub(sim.FinalLiability)
	return sim, nil
}

// MarshalJSON writes the simulation with a stable field order.
func (s *Simulation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", s.Baseline.cur)
	w.Append("taxRate", s.Scenario.TaxRate)
	w.Append("cess", s.Scenario.Cess)
	w.Append("allowLossOffset", s.Scenario.AllowLossOffset)
	w.Append("allowCarryForward", s.Scenario.AllowCarryForward)
	w.Amount("totalGains", s.Gains)
	w.Amount("totalLosses", s.Losses)
	w.Amount("netTaxable", s.NetTaxable)
	w.Amount("totalTax", s.Tax)
	w.Amount("totalCess", s.Surcharge)
	w.Amount("finalTaxLiability", s.FinalLiability)
	w.Amount("lossesCarriedForward", s.CarriedForward)
	w.Amount("baselineLiability", s.Baseline)
	w.Amount("savings", s.Savings)
	return w.MarshalJSON()
}
