package orderbook

import (
	"testing"

	"pgregory.net/rapid"
)

// Random sequences of submits and cancels; after every step the book must
// satisfy the structural invariants and conserve quantity.
func TestProperty_BookInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ob := New()
		var ids []OrderID
		var lastID OrderID

		steps := rapid.IntRange(1, 200).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(ids) > 0 && rapid.IntRange(0, 4).Draw(t, "cancel") == 0 {
				id := rapid.SampledFrom(ids).Draw(t, "id")
				_, resting := ob.Order(id)
				if got := ob.Cancel(id); got != resting {
					t.Fatalf("cancel(%d) = %v, resting = %v", id, got, resting)
				}
				if ob.Cancel(id) {
					t.Fatalf("second cancel(%d) succeeded", id)
				}
			} else {
				side := rapid.SampledFrom([]Side{BUY, SELL}).Draw(t, "side")
				price := Price(rapid.Int64Range(90, 110).Draw(t, "price"))
				qty := Quantity(rapid.Uint64Range(0, 50).Draw(t, "qty"))

				before := restingQty(ob)
				id, trades := ob.Submit(side, price, qty)

				if qty == 0 {
					if id != NoOrderID || len(trades) != 0 {
						t.Fatalf("zero quantity returned id=%d trades=%v", id, trades)
					}
					continue
				}
				if id != lastID+1 {
					t.Fatalf("expected id %d, got %d", lastID+1, id)
				}
				lastID = id
				ids = append(ids, id)

				var filled Quantity
				for _, tr := range trades {
					if tr.Qty == 0 {
						t.Fatalf("empty trade %+v", tr)
					}
					if side == BUY && (tr.BuyOrderID != id || tr.Price > price) {
						t.Fatalf("bad buy trade %+v for limit %d", tr, price)
					}
					if side == SELL && (tr.SellOrderID != id || tr.Price < price) {
						t.Fatalf("bad sell trade %+v for limit %d", tr, price)
					}
					filled += tr.Qty
				}
				rest, resting := ob.Order(id)
				if resting {
					if rest.Qty != qty-filled {
						t.Fatalf("rested %d, want %d", rest.Qty, qty-filled)
					}
				} else if filled != qty {
					t.Fatalf("order %d filled %d of %d but is not resting", id, filled, qty)
				}
				// maker side lost filled, taker side gained the remainder
				if after := restingQty(ob); after != before-filled+(qty-filled) {
					t.Fatalf("quantity not conserved: before=%d after=%d filled=%d qty=%d", before, after, filled, qty)
				}
			}
			if err := checkInvariants(ob); err != nil {
				t.Fatal(err)
			}
		}
	})
}

// Trades within one submit follow price priority, then arrival order.
func TestProperty_PriceTimePriority(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ob := New()
		n := rapid.IntRange(1, 30).Draw(t, "makers")
		for i := 0; i < n; i++ {
			ob.Submit(SELL, Price(rapid.Int64Range(100, 105).Draw(t, "price")), Quantity(rapid.Uint64Range(1, 10).Draw(t, "qty")))
		}

		_, trades := ob.Submit(BUY, 105, Quantity(rapid.Uint64Range(1, 400).Draw(t, "take")))
		for i := 1; i < len(trades); i++ {
			prev, cur := trades[i-1], trades[i]
			if cur.Price < prev.Price {
				t.Fatalf("trade %d price %d after %d", i, cur.Price, prev.Price)
			}
			if cur.Price == prev.Price && cur.SellOrderID <= prev.SellOrderID {
				t.Fatalf("trade %d maker %d not after %d at price %d", i, cur.SellOrderID, prev.SellOrderID, cur.Price)
			}
		}
	})
}

func restingQty(ob *OrderBook) Quantity {
	snap := ob.Snapshot(1 << 30)
	var total Quantity
	for _, l := range snap.Asks {
		total += l.Qty
	}
	for _, l := range snap.Bids {
		total += l.Qty
	}
	return total
}
