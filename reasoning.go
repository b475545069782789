package vdatax

// Category is the tax treatment of a report line.
type Category string

const (
	Taxable     Category = "TAXABLE"
	LossIgnored Category = "LOSS_IGNORED"
	NonTaxable  Category = "NON_TAXABLE"
)

// Rule identifiers of the law map.
const (
	RuleGain    = "115BBH_GAIN"
	RuleLoss    = "115BBH_LOSS"
	RuleTDS     = "194S_TDS"
	RuleNeutral = "NEUTRAL"
)

// Rule is one entry of the law map.
type Rule struct {
	ID       string `json:"id"`
	Citation string `json:"citation"`
	Text     string `json:"text"`
}

var lawMap = []Rule{
	{
		ID:       RuleGain,
		Citation: "Section 115BBH(1)",
		Text:     "Income from transfer of Virtual Digital Assets is taxed at a flat rate of 30%.",
	},
	{
		ID:       RuleLoss,
		Citation: "Section 115BBH(2)(b)",
		Text:     "No set-off of loss from transfer of VDA allowed against any other income (including other VDA gains).",
	},
	{
		ID:       RuleTDS,
		Citation: "Section 194S",
		Text:     "TDS @ 1% is applicable on consideration for transfer of VDA if aggregate value exceeds threshold.",
	},
}

// Rules returns the law map, in citation order.
func Rules() []Rule {
	return append([]Rule(nil), lawMap...)
}

// RuleByID returns the rule of the law map with this id.
func RuleByID(id string) (Rule, bool) {
	for _, r := range lawMap {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Reasoning is the audit narrative attached to a report line.
type Reasoning struct {
	RuleID      string
	Citation    string // empty for non taxable events
	Explanation string
	Category    Category
}

// Classify returns the reasoning for a realized profit of a transaction of
// kind k. Positive profits are taxable, negative ones are ignored losses.
func Classify(profit Money, k Kind) Reasoning {
	switch {
	case profit.IsPositive():
		r, _ := RuleByID(RuleGain)
		explanation := "Taxable Gain. Flat rate tax applies."
		if k == Income {
			explanation = "Income on receipt. Taxed in full at the flat rate."
		}
		return Reasoning{RuleID: r.ID, Citation: r.Citation, Explanation: explanation, Category: Taxable}
	case profit.IsNegative():
		r, _ := RuleByID(RuleLoss)
		return Reasoning{RuleID: r.ID, Citation: r.Citation, Explanation: "Loss Ignored. Cannot be set off against gains.", Category: LossIgnored}
	default:
		return Reasoning{RuleID: RuleNeutral, Explanation: "No PnL event.", Category: NonTaxable}
	}
}
