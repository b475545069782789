package vdatax

import (
	"testing"
)

func TestInventory_Dispose(t *testing.T) {
	tests := []struct {
		name      string
		lots      []Quantity // each lot costs 100 per unit
		dispose   Quantity
		cost      Money
		shortfall Quantity
		lotsUsed  int
		left      Quantity
	}{
		{name: "first lot only", lots: []Quantity{Q(1), Q(1)}, dispose: Q(1), cost: inr(100), shortfall: Q(0), lotsUsed: 1, left: Q(1)},
		{name: "half lot", lots: []Quantity{Q(2)}, dispose: Q(1), cost: inr(100), shortfall: Q(0), lotsUsed: 1, left: Q(1)},
		{name: "across lots", lots: []Quantity{Q(1), Q(2), Q(3)}, dispose: Q(2.5), cost: inr(250), shortfall: Q(0), lotsUsed: 2, left: Q(3.5)},
		{name: "everything", lots: []Quantity{Q(1), Q(2)}, dispose: Q(3), cost: inr(300), shortfall: Q(0), lotsUsed: 2, left: Q(0)},
		{name: "beyond inventory", lots: []Quantity{Q(1)}, dispose: Q(4), cost: inr(100), shortfall: Q(3), lotsUsed: 1, left: Q(0)},
		{name: "empty", dispose: Q(1), cost: inr(0), shortfall: Q(1), left: Q(0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv := NewInventory("INR")
			for i, q := range tc.lots {
				inv.Acquire("BTC", q, inr(100).Mul(q), on(4, i+1))
			}
			d := inv.Dispose("BTC", tc.dispose)
			assertMoney(t, "CostBasis", d.CostBasis, tc.cost)
			if !d.Shortfall.Equal(tc.shortfall) {
				t.Errorf("Shortfall = %s, want %s", d.Shortfall, tc.shortfall)
			}
			if !d.Matched.Add(d.Shortfall).Equal(tc.dispose) {
				t.Errorf("Matched %s + Shortfall %s != Requested %s", d.Matched, d.Shortfall, tc.dispose)
			}
			if d.LotsUsed != tc.lotsUsed {
				t.Errorf("LotsUsed = %d, want %d", d.LotsUsed, tc.lotsUsed)
			}
			if h := inv.Holding("BTC"); !h.Quantity.Equal(tc.left) {
				t.Errorf("Holding quantity = %s, want %s", h.Quantity, tc.left)
			}
		})
	}
}

func TestInventory_PartialKeepsUnitCost(t *testing.T) {
	inv := NewInventory("INR")
	inv.Acquire("ETH", Q(3), inr(1000), on(4, 1))

	// thirds are not exact in decimal, the lot keeps what was not taken
	first := inv.Dispose("ETH", Q(1))
	second := inv.Dispose("ETH", Q(1))
	third := inv.Dispose("ETH", Q(1))
	total := first.CostBasis.Add(second.CostBasis).Add(third.CostBasis)
	assertMoney(t, "total cost basis", total, inr(1000))
	if h := inv.Holding("ETH"); h.Lots != 0 || !h.Cost.IsZero() {
		t.Errorf("Holding after full disposal = %+v", h)
	}
}

func TestInventory_AssetsAreIsolated(t *testing.T) {
	inv := NewInventory("INR")
	inv.Acquire("BTC", Q(1), inr(100), on(4, 1))
	inv.Acquire("ETH", Q(1), inr(10), on(4, 1))
	d := inv.Dispose("ETH", Q(1))
	assertMoney(t, "CostBasis", d.CostBasis, inr(10))
	if h := inv.Holding("BTC"); !h.Quantity.Equal(Q(1)) {
		t.Errorf("BTC holding = %s, want 1", h.Quantity)
	}
}

func TestInventory_ZeroAcquisition(t *testing.T) {
	inv := NewInventory("INR")
	inv.Acquire("BTC", Q(0), inr(100), on(4, 1))
	if got := inv.Holdings(); len(got) != 0 {
		t.Errorf("Holdings() = %+v, want none", got)
	}
}

func TestInventory_Compaction(t *testing.T) {
	inv := NewInventory("INR")
	for i := range 100 {
		inv.Acquire("BTC", Q(1), inr(i), on(4, 1))
	}
	for i := range 60 {
		d := inv.Dispose("BTC", Q(1))
		assertMoney(t, "CostBasis", d.CostBasis, inr(i))
	}
	if q := inv.queues["BTC"]; len(q.lots) >= 100 {
		t.Errorf("queue was never compacted: %d lots, head %d", len(q.lots), q.head)
	}
	h := inv.Holding("BTC")
	if h.Lots != 40 {
		t.Errorf("Holding lots = %d, want 40", h.Lots)
	}
	// remaining lots cost 60..99
	assertMoney(t, "Holding cost", h.Cost, inr(3180))
}

func TestInventory_Holdings(t *testing.T) {
	inv := NewInventory("INR")
	inv.Acquire("SOL", Q(1), inr(1), on(4, 2))
	inv.Acquire("BTC", Q(1), inr(1), on(4, 3))
	inv.Acquire("ETH", Q(1), inr(1), on(4, 1))
	inv.Dispose("ETH", Q(1))

	var assets []string
	for _, h := range inv.Holdings() {
		assets = append(assets, h.Asset)
	}
	if len(assets) != 2 || assets[0] != "BTC" || assets[1] != "SOL" {
		t.Errorf("Holdings() assets = %v, want [BTC SOL]", assets)
	}
}
