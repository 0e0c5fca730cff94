package orderbook

import "errors"

var (
	errOrderNotFound = errors.New("order not found in level")
	errLevelNotFound = errors.New("price level not found")
)
