package orderbook

import "fmt"

// checkInvariants walks the whole book and verifies it agrees with the index.
func checkInvariants(ob *OrderBook) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	seen := 0
	for _, side := range []*bookSide{ob.bids, ob.asks} {
		var err error
		side.levels.Ascend(func(lvl *priceLevel) bool {
			if lvl.len() == 0 {
				err = fmt.Errorf("%s level %d is empty", side.side, lvl.price)
				return false
			}
			var lastSeq uint64
			for i := 0; i < lvl.orders.Len(); i++ {
				o := lvl.orders.At(i)
				if o.Qty == 0 {
					err = fmt.Errorf("order %d rests with zero quantity", o.ID)
					return false
				}
				if o.Seq <= lastSeq {
					err = fmt.Errorf("order %d out of sequence at %d", o.ID, lvl.price)
					return false
				}
				lastSeq = o.Seq
				entry, ok := ob.index[o.ID]
				if !ok || entry.side != side.side || entry.price != lvl.price || o.Price != lvl.price {
					err = fmt.Errorf("order %d at %s %d has index entry %+v", o.ID, side.side, lvl.price, entry)
					return false
				}
				seen++
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	if seen != len(ob.index) {
		return fmt.Errorf("index has %d entries, book has %d orders", len(ob.index), seen)
	}

	bid, hasBid := ob.bids.best()
	ask, hasAsk := ob.asks.best()
	if hasBid && hasAsk && bid.price >= ask.price {
		return fmt.Errorf("crossed book: bid %d >= ask %d", bid.price, ask.price)
	}
	return nil
}
