package vdatax

import (
	"maps"
	"slices"
	"time"
)

// lot is a remaining, not yet disposed, part of an acquisition.
type lot struct {
	Acquired time.Time
	Quantity Quantity // remaining quantity, never negative
	Cost     Money    // remaining cost of Quantity
}

// lotQueue holds the lots of one asset in acquisition order. Lots before head
// are fully consumed.
type lotQueue struct {
	lots []lot
	head int
}

func (q *lotQueue) push(l lot) { q.lots = append(q.lots, l) }

func (q *lotQueue) empty() bool { return q.head >= len(q.lots) }

// pop drops the head lot, compacting the backing slice once the consumed
// prefix dominates it.
func (q *lotQueue) pop() {
	q.lots[q.head] = lot{}
	q.head++
	if q.head == len(q.lots) {
		q.lots, q.head = q.lots[:0], 0
	} else if q.head > 16 && q.head*2 > len(q.lots) {
		q.lots = slices.Clone(q.lots[q.head:])
		q.head = 0
	}
}

// Disposal is the outcome of matching a disposed quantity against the lots.
type Disposal struct {
	Requested Quantity // quantity asked for
	Matched   Quantity // quantity found in lots
	Shortfall Quantity // Requested - Matched, disposed beyond known inventory
	CostBasis Money    // cost of the Matched quantity
	LotsUsed  int      // number of lots touched, fully or partially
}

// Inventory tracks, per asset, the acquisition lots not yet disposed. It
// consumes them first-in-first-out.
//
// An Inventory belongs to a single computation run.
type Inventory struct {
	cur    string
	queues map[string]*lotQueue
}

// NewInventory returns an empty inventory whose costs are in currency.
func NewInventory(currency string) *Inventory {
	return &Inventory{cur: currency, queues: make(map[string]*lotQueue)}
}

func (inv *Inventory) queue(asset string) *lotQueue {
	q, ok := inv.queues[asset]
	if !ok {
		q = &lotQueue{}
		inv.queues[asset] = q
	}
	return q
}

// Acquire appends a lot of quantity units of asset costing cost. Empty
// acquisitions leave no lot.
func (inv *Inventory) Acquire(asset string, quantity Quantity, cost Money, on time.Time) {
	if !quantity.IsPositive() {
		return
	}
	inv.queue(asset).push(lot{Acquired: on, Quantity: quantity, Cost: cost})
}

// Dispose consumes quantity units of asset from the oldest lots and returns
// the cost basis of what it found. Quantity beyond the inventory is reported
// as Shortfall and carries no cost.
func (inv *Inventory) Dispose(asset string, quantity Quantity) Disposal {
	d := Disposal{Requested: quantity, CostBasis: Money{cur: inv.cur}}
	remaining := quantity
	q := inv.queue(asset)
	for remaining.IsPositive() && !q.empty() {
		head := &q.lots[q.head]
		d.LotsUsed++
		if head.Quantity.LessThanOrEqual(remaining) {
			// the whole lot goes
			d.CostBasis = d.CostBasis.Add(head.Cost)
			remaining = remaining.Sub(head.Quantity)
			q.pop()
			continue
		}
		// partial: the lot keeps the unsold part, at the same unit cost
		cost := head.Cost.Mul(remaining).Div(head.Quantity)
		d.CostBasis = d.CostBasis.Add(cost)
		head.Cost = head.Cost.Sub(cost)
		head.Quantity = head.Quantity.Sub(remaining)
		remaining = Quantity{}
	}
	d.Matched = quantity.Sub(remaining)
	d.Shortfall = remaining
	return d
}

// Holding is the remaining inventory of one asset.
type Holding struct {
	Asset    string
	Quantity Quantity
	Cost     Money
	Lots     int
	Oldest   time.Time
}

// Holding returns the remaining quantity and cost of asset.
func (inv *Inventory) Holding(asset string) Holding {
	h := Holding{Asset: asset, Cost: Money{cur: inv.cur}}
	q, ok := inv.queues[asset]
	if !ok {
		return h
	}
	for i, l := range q.lots[q.head:] {
		if i == 0 {
			h.Oldest = l.Acquired
		}
		h.Quantity = h.Quantity.Add(l.Quantity)
		h.Cost = h.Cost.Add(l.Cost)
		h.Lots++
	}
	return h
}

// Holdings lists the non empty holdings sorted by asset symbol.
func (inv *Inventory) Holdings() []Holding {
	var holdings []Holding
	for _, asset := range slices.Sorted(maps.Keys(inv.queues)) {
		if h := inv.Holding(asset); h.Lots > 0 {
			holdings = append(holdings, h)
		}
	}
	return holdings
}
