package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joripage/limitbook/pkg/logging"
	"github.com/joripage/limitbook/pkg/orderbook"
	"go.uber.org/zap"
)

const (
	banner       = "simple order book repl"
	commandsHelp = "commands: BUY px qty | SELL px qty | CANCEL id | PRINT | TOP | QUIT"
)

// Book is the part of the order book a session drives.
type Book interface {
	Submit(side orderbook.Side, price orderbook.Price, qty orderbook.Quantity) (orderbook.OrderID, []orderbook.Trade)
	Cancel(id orderbook.OrderID) bool
	BestAsk() (orderbook.LevelInfo, bool)
	BestBid() (orderbook.LevelInfo, bool)
	Snapshot(depth int) orderbook.Snapshot
}

type Config struct {
	Depth      int
	ShowBanner bool
}

// Session reads one command per line and writes the results.
type Session struct {
	book Book
	cfg  Config
	log  *logging.Logger
}

func New(book Book, cfg Config, log *logging.Logger) *Session {
	if cfg.Depth <= 0 {
		cfg.Depth = 5
	}
	if log == nil {
		log = logging.FromZap(zap.NewNop())
	}
	return &Session{book: book, cfg: cfg, log: log}
}

// Run processes commands from in until QUIT, end of input or ctx is done.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log, ctx := s.log.ForContext(ctx)
	w := bufio.NewWriter(out)
	defer w.Flush()

	if s.cfg.ShowBanner {
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, commandsHelp)
		if err := w.Flush(); err != nil {
			return err
		}
	}

	log.Info("session started")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := parse(scanner.Text())
		if err != nil {
			if errors.Is(err, errEmptyLine) {
				continue
			}
			log.Debug("rejected command", zap.String("line", scanner.Text()), zap.Error(err))
			fmt.Fprintln(w, "unknown command")
		} else if cmd.kind == cmdQuit {
			break
		} else {
			s.execute(log, w, cmd)
		}

		if err := w.Flush(); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	log.Info("session ended")
	return nil
}

func (s *Session) execute(log *logging.Logger, w io.Writer, cmd command) {
	switch cmd.kind {
	case cmdBuy, cmdSell:
		side := orderbook.BUY
		if cmd.kind == cmdSell {
			side = orderbook.SELL
		}
		id, trades := s.book.Submit(side, cmd.price, cmd.qty)
		log.Debug("order submitted",
			zap.Stringer("side", side),
			zap.Int64("price", int64(cmd.price)),
			zap.Uint64("qty", uint64(cmd.qty)),
			zap.Uint64("order_id", uint64(id)),
			zap.Int("trades", len(trades)),
		)
		writeAccepted(w, id, trades)
	case cmdCancel:
		ok := s.book.Cancel(cmd.id)
		log.Debug("cancel", zap.Uint64("order_id", uint64(cmd.id)), zap.Bool("canceled", ok))
		if ok {
			fmt.Fprintln(w, "canceled")
		} else {
			fmt.Fprintln(w, "not found")
		}
	case cmdPrint:
		writeBook(w, s.book.Snapshot(s.cfg.Depth))
	case cmdTop:
		ask, hasAsk := s.book.BestAsk()
		bid, hasBid := s.book.BestBid()
		writeTop(w, ask, hasAsk, bid, hasBid)
	}
}

// FormatTrade renders a trade the way the session prints it.
func FormatTrade(t orderbook.Trade) string {
	return fmt.Sprintf("trade: price=%d qty=%d (buy_id=%d, sell_id=%d)",
		t.Price, t.Qty, t.BuyOrderID, t.SellOrderID)
}

func writeAccepted(w io.Writer, id orderbook.OrderID, trades []orderbook.Trade) {
	fmt.Fprintf(w, "order id=%d accepted\n", id)
	for _, t := range trades {
		fmt.Fprintln(w, FormatTrade(t))
	}
}

func writeTop(w io.Writer, ask orderbook.LevelInfo, hasAsk bool, bid orderbook.LevelInfo, hasBid bool) {
	fmt.Fprintln(w, "---- top of book ----")
	writeTopLine(w, "ask", ask, hasAsk)
	writeTopLine(w, "bid", bid, hasBid)
	fmt.Fprintln(w, "---------------------")
}

func writeTopLine(w io.Writer, name string, lvl orderbook.LevelInfo, ok bool) {
	if !ok {
		fmt.Fprintf(w, "%s: (empty)\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %d x %d\n", name, lvl.Price, lvl.Qty)
}

func writeBook(w io.Writer, snap orderbook.Snapshot) {
	var b strings.Builder
	b.WriteString("\n=========== order book ===========\n")
	b.WriteString("   -- asks (low -> high) --\n")
	writeLevels(&b, snap.Asks)
	b.WriteString("   -- bids (high -> low) --\n")
	writeLevels(&b, snap.Bids)
	b.WriteString("==================================\n\n")
	io.WriteString(w, b.String())
}

func writeLevels(b *strings.Builder, levels []orderbook.LevelInfo) {
	if len(levels) == 0 {
		b.WriteString("  (empty)\n")
		return
	}
	for _, l := range levels {
		fmt.Fprintf(b, "  %8d  |  qty=%d (orders=%d)\n", l.Price, l.Qty, l.Orders)
	}
}
