package vdatax

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/vdatax/fiscal"
	"golang.org/x/sync/errgroup"
)

// Compute returns the tax report of txs under policy.
//
// Transactions are processed in date order, transactions sharing a timestamp
// keep their input order. Acquisitions and income feed a FIFO inventory per
// asset, disposals consume it. Every disposal and income produces a report
// line. The caller's slice is never modified and identical inputs always
// produce identical reports.
func Compute(txs []Transaction, policy TaxPolicy) (*TaxReport, error) {
	return compute(txs, policy, fiscal.Range{})
}

// ComputePeriod is like Compute but only reports events within rng. Earlier
// transactions are still replayed so that disposals in rng consume the right
// lots.
func ComputePeriod(txs []Transaction, policy TaxPolicy, rng fiscal.Range) (*TaxReport, error) {
	return compute(txs, policy, rng)
}

// ComputeYears computes one report per fiscal year. Each year runs
// concurrently on its own inventory.
func ComputeYears(ctx context.Context, txs []Transaction, policy TaxPolicy, years []fiscal.Year) ([]*TaxReport, error) {
	reports := make([]*TaxReport, len(years))
	g, ctx := errgroup.WithContext(ctx)
	for i, y := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := compute(txs, policy, y.Range())
			if err != nil {
				return fmt.Errorf("fiscal year %s: %w", y, err)
			}
			report.Label = y.String()
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// run is the state of one computation.
type run struct {
	policy    TaxPolicy
	inventory *Inventory
	report    *TaxReport
}

func compute(txs []Transaction, policy TaxPolicy, rng fiscal.Range) (*TaxReport, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })

	r := &run{
		policy:    policy,
		inventory: NewInventory(policy.Currency),
		report:    &TaxReport{Policy: policy, Period: rng},
	}
	for _, tx := range sorted {
		if !rng.IsZero() && !tx.Date.Before(rng.To) {
			break
		}
		if err := r.process(tx, rng.IsZero() || rng.Contains(tx.Date)); err != nil {
			return nil, err
		}
	}
	r.aggregate()
	r.report.Holdings = r.inventory.Holdings()
	return r.report, nil
}

// money returns m in the reporting currency.
func (r *run) money(tx Transaction, m Money) (Money, error) {
	if m.cur != "" && m.cur != r.policy.Currency {
		return Money{}, fmt.Errorf("transaction %s: %w: %s is not the reporting currency %s", tx.ID, ErrCurrencyMismatch, m.cur, r.policy.Currency)
	}
	return Money{value: m.value, cur: r.policy.Currency}, nil
}

// process applies tx to the inventory, and to the report when reported is set.
func (r *run) process(tx Transaction, reported bool) error {
	value, err := r.money(tx, tx.GrossValue)
	if err != nil {
		return err
	}
	switch tx.Kind {
	case Acquire:
		r.inventory.Acquire(tx.Asset, tx.Quantity, value, tx.Date)
	case Income:
		// the value received is the cost basis of future disposals
		r.inventory.Acquire(tx.Asset, tx.Quantity, value, tx.Date)
		if reported {
			r.income(tx, value)
		}
	case Dispose:
		r.dispose(tx, value, reported)
	case Move:
		if r.policy.Move == MoveAsDisposal {
			r.dispose(tx, value, reported)
		}
	default:
		return fmt.Errorf("transaction %s: %w: %q", tx.ID, ErrUnknownKind, tx.Kind)
	}
	return nil
}

// income is taxed in full on receipt.
func (r *run) income(tx Transaction, value Money) {
	r.report.Lines = append(r.report.Lines, TaxReportLine{
		TxID:          tx.ID,
		Asset:         tx.Asset,
		Date:          tx.Date,
		Kind:          tx.Kind,
		Quantity:      tx.Quantity,
		CostBasis:     Money{cur: value.cur},
		GrossValue:    value,
		Profit:        value,
		TaxableAmount: value,
		Reasoning:     Classify(value, tx.Kind),
	})
}

func (r *run) dispose(tx Transaction, proceeds Money, reported bool) {
	d := r.inventory.Dispose(tx.Asset, tx.Quantity)
	if !reported {
		return
	}
	profit := proceeds.Sub(d.CostBasis)
	r.report.Lines = append(r.report.Lines, TaxReportLine{
		TxID:          tx.ID,
		Asset:         tx.Asset,
		Date:          tx.Date,
		Kind:          tx.Kind,
		Quantity:      tx.Quantity,
		CostBasis:     d.CostBasis,
		GrossValue:    proceeds,
		Profit:        profit,
		TaxableAmount: profit.Floor0(), // no set-off: a loss is never taxable income
		Inventory:     statusOf(d),
		Shortfall:     d.Shortfall,
		Reasoning:     Classify(profit, tx.Kind),
	})
}

// aggregate computes the report totals from its lines.
func (r *run) aggregate() {
	rep, p := r.report, r.policy
	zero := Money{cur: p.Currency}
	rep.TotalGains, rep.TotalLosses = zero, zero
	for _, l := range rep.Lines {
		if l.TaxableAmount.IsPositive() {
			rep.TotalGains = rep.TotalGains.Add(l.TaxableAmount)
		}
		if l.Profit.IsNegative() {
			rep.TotalLosses = rep.TotalLosses.Add(l.Profit.Abs())
		}
	}
	rep.LossesSetOff = zero
	if p.AllowLossOffset {
		rep.LossesSetOff = rep.TotalLosses.Min(rep.TotalGains)
	}
	rep.NetTaxable = rep.TotalGains.Sub(rep.LossesSetOff)
	rep.TotalTax = rep.NetTaxable.Apply(p.TaxRate)
	rep.TotalSurcharge = rep.TotalTax.Apply(p.Cess)
	rep.FinalLiability = rep.TotalTax.Add(rep.TotalSurcharge)
	rep.LossesCarriedForward = zero
	if p.AllowCarryForward {
		rep.LossesCarriedForward = rep.TotalLosses.Sub(rep.LossesSetOff)
	}
}
