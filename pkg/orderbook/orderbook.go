// file: pkg/orderbook/orderbook.go

package orderbook

import (
	"sync"

	"go.uber.org/zap"
)

type indexEntry struct {
	side  Side
	price Price
}

// OrderBook is a single-instrument limit order book matching with strict
// price-time priority. Both sides, the order index and the id counters are
// guarded by one mutex so every level mutation and its index update are
// observed together.
type OrderBook struct {
	symbol string
	log    *zap.Logger

	bids *bookSide
	asks *bookSide

	index map[OrderID]indexEntry

	nextID OrderID
	seq    uint64

	callbacks []func([]Trade)

	mu sync.Mutex
}

type Option func(*OrderBook)

func WithLogger(log *zap.Logger) Option {
	return func(ob *OrderBook) {
		ob.log = log
	}
}

func WithSymbol(symbol string) Option {
	return func(ob *OrderBook) {
		ob.symbol = symbol
	}
}

func New(opts ...Option) *OrderBook {
	ob := &OrderBook{
		log:    zap.NewNop(),
		bids:   newBookSide(BUY),
		asks:   newBookSide(SELL),
		index:  make(map[OrderID]indexEntry),
		nextID: 1,
	}
	for _, opt := range opts {
		opt(ob)
	}
	if ob.symbol != "" {
		ob.log = ob.log.With(zap.String("symbol", ob.symbol))
	}
	return ob
}

// RegisterTradeCallback adds fn to the callbacks run after every submit that
// produced trades. Callbacks run while the book is locked and must not call
// back into it.
func (ob *OrderBook) RegisterTradeCallback(fn func([]Trade)) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.callbacks = append(ob.callbacks, fn)
}

// Submit matches a limit order against the opposite side and rests any
// remainder. A zero quantity is a no-op returning NoOrderID and consumes no
// id. Otherwise the returned id is consumed even if the order fully filled.
func (ob *OrderBook) Submit(side Side, price Price, qty Quantity) (OrderID, []Trade) {
	if qty == 0 {
		return NoOrderID, nil
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	id := ob.nextID
	ob.nextID++

	var trades []Trade
	if side == BUY {
		trades = ob.matchBuy(id, price, &qty)
	} else {
		trades = ob.matchSell(id, price, &qty)
	}

	if qty > 0 {
		ob.addResting(id, side, price, qty)
	}

	if len(trades) > 0 {
		for _, cb := range ob.callbacks {
			cb(trades)
		}
	}

	return id, trades
}

func (ob *OrderBook) addResting(id OrderID, side Side, price Price, qty Quantity) {
	ob.seq++
	o := &Order{
		ID:    id,
		Side:  side,
		Price: price,
		Qty:   qty,
		Seq:   ob.seq,
	}
	ob.sideOf(side).getOrCreateLevel(price).pushBack(o)
	ob.index[id] = indexEntry{side: side, price: price}
}

// Cancel removes a resting order. It reports false when id is not resting.
func (ob *OrderBook) Cancel(id OrderID) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	entry, ok := ob.index[id]
	if !ok {
		return false
	}
	delete(ob.index, id)

	side := ob.sideOf(entry.side)
	lvl, ok := side.level(entry.price)
	if !ok {
		ob.staleEntry(id, entry, errLevelNotFound)
		return false
	}

	removed := lvl.remove(id)
	if lvl.len() == 0 {
		side.deleteLevel(entry.price)
	}
	if !removed {
		ob.staleEntry(id, entry, errOrderNotFound)
	}
	return removed
}

func (ob *OrderBook) staleEntry(id OrderID, entry indexEntry, err error) {
	ob.log.Error("order index out of sync with book",
		zap.Uint64("order_id", uint64(id)),
		zap.Stringer("side", entry.side),
		zap.Int64("price", int64(entry.price)),
		zap.Error(err),
	)
}

func (ob *OrderBook) BestBid() (LevelInfo, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return bestOf(ob.bids)
}

func (ob *OrderBook) BestAsk() (LevelInfo, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return bestOf(ob.asks)
}

func bestOf(s *bookSide) (LevelInfo, bool) {
	lvl, ok := s.best()
	if !ok {
		return LevelInfo{}, false
	}
	return lvl.info(), true
}

// Snapshot returns up to depth levels per side in priority order.
func (ob *OrderBook) Snapshot(depth int) Snapshot {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return Snapshot{
		Asks: ob.asks.top(depth),
		Bids: ob.bids.top(depth),
	}
}

// Order returns a copy of a resting order.
func (ob *OrderBook) Order(id OrderID) (Order, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	entry, ok := ob.index[id]
	if !ok {
		return Order{}, false
	}
	lvl, ok := ob.sideOf(entry.side).level(entry.price)
	if !ok {
		return Order{}, false
	}
	for i := 0; i < lvl.orders.Len(); i++ {
		if o := lvl.orders.At(i); o.ID == id {
			return *o, true
		}
	}
	return Order{}, false
}

// Len returns the number of resting orders.
func (ob *OrderBook) Len() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	return len(ob.index)
}

func (ob *OrderBook) sideOf(side Side) *bookSide {
	if side == BUY {
		return ob.bids
	}
	return ob.asks
}
