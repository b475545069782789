package vdatax

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		profit   Money
		kind     Kind
		category Category
		rule     string
		citation string
	}{
		{inr(10), Dispose, Taxable, RuleGain, "Section 115BBH(1)"},
		{inr(-10), Dispose, LossIgnored, RuleLoss, "Section 115BBH(2)(b)"},
		{inr(0), Dispose, NonTaxable, RuleNeutral, ""},
		{inr(5), Income, Taxable, RuleGain, "Section 115BBH(1)"},
	}
	for _, tc := range tests {
		r := Classify(tc.profit, tc.kind)
		if r.Category != tc.category || r.RuleID != tc.rule || r.Citation != tc.citation {
			t.Errorf("Classify(%s, %s) = %+v, want %s %s %q", tc.profit.Decimal(), tc.kind, r, tc.category, tc.rule, tc.citation)
		}
		if r.Explanation == "" {
			t.Errorf("Classify(%s, %s) has no explanation", tc.profit.Decimal(), tc.kind)
		}
	}
	if Classify(inr(5), Income).Explanation == Classify(inr(5), Dispose).Explanation {
		t.Error("income and disposal gains share the same explanation")
	}
}

func TestRules(t *testing.T) {
	rules := Rules()
	if len(rules) != 3 {
		t.Fatalf("Rules() returned %d rules, want 3", len(rules))
	}
	rules[0].Citation = "changed"
	if r, _ := RuleByID(RuleGain); r.Citation != "Section 115BBH(1)" {
		t.Errorf("modifying Rules() changed the law map: %q", r.Citation)
	}
	if r, ok := RuleByID(RuleTDS); !ok || r.Citation != "Section 194S" {
		t.Errorf("RuleByID(%s) = %+v, %v", RuleTDS, r, ok)
	}
	if _, ok := RuleByID(RuleNeutral); ok {
		t.Errorf("RuleByID(%s) found a citation", RuleNeutral)
	}
}
