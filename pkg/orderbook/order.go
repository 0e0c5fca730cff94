package orderbook

type Side uint8

const (
	BUY Side = iota
	SELL
)

func (s Side) String() string {
	if s == BUY {
		return "BUY"
	}
	return "SELL"
}

func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

type (
	OrderID  uint64
	Price    int64 // ticks
	Quantity uint64
)

// NoOrderID is returned for submissions that did nothing (zero quantity).
const NoOrderID OrderID = 0

// Order is a resting order. Qty is the remaining quantity and Seq the
// FIFO sequence assigned when the order started resting.
type Order struct {
	ID    OrderID
	Side  Side
	Price Price
	Qty   Quantity
	Seq   uint64
}
