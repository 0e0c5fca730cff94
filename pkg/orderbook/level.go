package orderbook

import "github.com/gammazero/deque"

// priceLevel is the FIFO queue of orders resting at one price.
type priceLevel struct {
	price  Price
	orders deque.Deque[*Order]
}

func newPriceLevel(price Price) *priceLevel {
	return &priceLevel{price: price}
}

func (l *priceLevel) len() int {
	return l.orders.Len()
}

func (l *priceLevel) pushBack(o *Order) {
	l.orders.PushBack(o)
}

func (l *priceLevel) front() *Order {
	return l.orders.Front()
}

func (l *priceLevel) popFront() *Order {
	return l.orders.PopFront()
}

// remove takes the order with the given id out of the queue, keeping the
// relative order of the rest. It scans the queue linearly.
func (l *priceLevel) remove(id OrderID) bool {
	i := l.orders.Index(func(o *Order) bool { return o.ID == id })
	if i < 0 {
		return false
	}
	l.orders.Remove(i)
	return true
}

func (l *priceLevel) totalQty() Quantity {
	var total Quantity
	for i := 0; i < l.orders.Len(); i++ {
		total += l.orders.At(i).Qty
	}
	return total
}

func (l *priceLevel) info() LevelInfo {
	return LevelInfo{
		Price:  l.price,
		Qty:    l.totalQty(),
		Orders: l.len(),
	}
}
