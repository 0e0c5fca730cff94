package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/limitbook/pkg/orderbook"
)

const (
	minPrice = 10_000
	maxPrice = 20_000
	minQty   = 1
	maxQty   = 100
)

func main() {
	numOrders := flag.Int("orders", 1_000_000, "number of submissions")
	cancelPct := flag.Int("cancel-pct", 10, "percent of steps that cancel a random earlier order")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	ob := orderbook.New()

	totalMatched := 0
	totalQty := orderbook.Quantity(0)
	ob.RegisterTradeCallback(func(trades []orderbook.Trade) {
		for _, t := range trades {
			totalMatched++
			totalQty += t.Qty
		}
	})

	var lastID orderbook.OrderID
	canceled := 0

	start := time.Now()
	for i := 0; i < *numOrders; i++ {
		if lastID > 0 && rng.Intn(100) < *cancelPct {
			if ob.Cancel(orderbook.OrderID(rng.Int63n(int64(lastID)) + 1)) {
				canceled++
			}
			continue
		}

		side := orderbook.BUY
		if rng.Intn(2) == 0 {
			side = orderbook.SELL
		}
		price := orderbook.Price(minPrice + rng.Intn(maxPrice-minPrice+1))
		qty := orderbook.Quantity(minQty + rng.Intn(maxQty-minQty+1))
		lastID, _ = ob.Submit(side, price, qty)
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Steps      : %d\n", *numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %d\n", totalQty)
	fmt.Printf("Canceled         : %d\n", canceled)
	fmt.Printf("Resting          : %d\n", ob.Len())
	fmt.Printf("Time Taken       : %s\n", elapsed)
}
