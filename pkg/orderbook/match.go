package orderbook

// Trade is one execution between an incoming order and a resting one.
// Price is always the resting order's price.
type Trade struct {
	BuyOrderID  OrderID  `json:"buy_id"`
	SellOrderID OrderID  `json:"sell_id"`
	Price       Price    `json:"price"`
	Qty         Quantity `json:"qty"`
}

// LevelInfo is the aggregated view of one price level.
type LevelInfo struct {
	Price  Price
	Qty    Quantity
	Orders int
}

type Snapshot struct {
	Asks []LevelInfo // low -> high
	Bids []LevelInfo // high -> low
}

// matchBuy walks the ask side from the lowest price while it crosses limit.
func (ob *OrderBook) matchBuy(id OrderID, limit Price, qty *Quantity) []Trade {
	var trades []Trade
	for *qty > 0 {
		best, ok := ob.asks.best()
		if !ok || best.price > limit {
			break
		}
		trades = ob.drainLevel(ob.asks, best, qty, trades, func(maker OrderID) (OrderID, OrderID) {
			return id, maker
		})
	}
	return trades
}

// matchSell walks the bid side from the highest price while it crosses limit.
func (ob *OrderBook) matchSell(id OrderID, limit Price, qty *Quantity) []Trade {
	var trades []Trade
	for *qty > 0 {
		best, ok := ob.bids.best()
		if !ok || best.price < limit {
			break
		}
		trades = ob.drainLevel(ob.bids, best, qty, trades, func(maker OrderID) (OrderID, OrderID) {
			return maker, id
		})
	}
	return trades
}

// drainLevel fills against lvl in FIFO order until either the incoming
// quantity or the level is exhausted. Filled makers leave the level and the
// index together; an emptied level leaves its side.
func (ob *OrderBook) drainLevel(
	side *bookSide,
	lvl *priceLevel,
	qty *Quantity,
	trades []Trade,
	parties func(maker OrderID) (buy, sell OrderID),
) []Trade {
	for *qty > 0 && lvl.len() > 0 {
		resting := lvl.front()
		fill := min(*qty, resting.Qty)

		buy, sell := parties(resting.ID)
		trades = append(trades, Trade{
			BuyOrderID:  buy,
			SellOrderID: sell,
			Price:       lvl.price,
			Qty:         fill,
		})

		*qty -= fill
		resting.Qty -= fill

		if resting.Qty == 0 {
			delete(ob.index, resting.ID)
			lvl.popFront()
		}
	}
	if lvl.len() == 0 {
		side.deleteLevel(lvl.price)
	}
	return trades
}
