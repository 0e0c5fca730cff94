package orderbook

import "github.com/google/btree"

const btreeDegree = 16

// bookSide keeps the levels of one side ordered so that the best price is
// always the minimum item: ascending for asks, descending for bids.
type bookSide struct {
	side   Side
	levels *btree.BTreeG[*priceLevel]
}

func newBookSide(side Side) *bookSide {
	less := func(a, b *priceLevel) bool { return a.price < b.price }
	if side == BUY {
		less = func(a, b *priceLevel) bool { return a.price > b.price }
	}
	return &bookSide{
		side:   side,
		levels: btree.NewG(btreeDegree, less),
	}
}

func (s *bookSide) best() (*priceLevel, bool) {
	return s.levels.Min()
}

func (s *bookSide) level(price Price) (*priceLevel, bool) {
	return s.levels.Get(&priceLevel{price: price})
}

func (s *bookSide) getOrCreateLevel(price Price) *priceLevel {
	if lvl, ok := s.level(price); ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	s.levels.ReplaceOrInsert(lvl)
	return lvl
}

func (s *bookSide) deleteLevel(price Price) {
	s.levels.Delete(&priceLevel{price: price})
}

func (s *bookSide) len() int {
	return s.levels.Len()
}

// top returns up to depth levels in priority order.
func (s *bookSide) top(depth int) []LevelInfo {
	if depth <= 0 {
		return nil
	}
	out := make([]LevelInfo, 0, min(depth, s.levels.Len()))
	s.levels.Ascend(func(lvl *priceLevel) bool {
		out = append(out, lvl.info())
		return len(out) < depth
	})
	return out
}
