package session

import (
	"errors"
	"strconv"
	"strings"

	"github.com/joripage/limitbook/pkg/orderbook"
)

var (
	errEmptyLine      = errors.New("empty line")
	errUnknownCommand = errors.New("unknown command")
	errBadArguments   = errors.New("bad arguments")
)

type commandKind int

const (
	cmdBuy commandKind = iota
	cmdSell
	cmdCancel
	cmdPrint
	cmdTop
	cmdQuit
)

type command struct {
	kind  commandKind
	price orderbook.Price
	qty   orderbook.Quantity
	id    orderbook.OrderID
}

// parse turns one input line into a command. Tokens past the ones a command
// needs are ignored.
func parse(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errEmptyLine
	}

	switch fields[0] {
	case "BUY", "SELL":
		if len(fields) < 3 {
			return command{}, errBadArguments
		}
		price, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return command{}, errBadArguments
		}
		qty, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return command{}, errBadArguments
		}
		kind := cmdBuy
		if fields[0] == "SELL" {
			kind = cmdSell
		}
		return command{kind: kind, price: orderbook.Price(price), qty: orderbook.Quantity(qty)}, nil
	case "CANCEL":
		if len(fields) < 2 {
			return command{}, errBadArguments
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return command{}, errBadArguments
		}
		return command{kind: cmdCancel, id: orderbook.OrderID(id)}, nil
	case "PRINT":
		return command{kind: cmdPrint}, nil
	case "TOP":
		return command{kind: cmdTop}, nil
	case "QUIT":
		return command{kind: cmdQuit}, nil
	}
	return command{}, errUnknownCommand
}
