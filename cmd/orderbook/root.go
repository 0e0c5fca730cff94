package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joripage/limitbook/config"
	"github.com/joripage/limitbook/pkg/feed"
	"github.com/joripage/limitbook/pkg/logging"
	"github.com/joripage/limitbook/pkg/orderbook"
	"github.com/joripage/limitbook/pkg/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configFile string
	depth      int
	logLevel   string
	noBanner   bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "orderbook",
		Short:         "Interactive single-instrument limit order book",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, f)
		},
	}
	cmd.PersistentFlags().StringVar(&f.configFile, "config", "", "config file path (defaults to $CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "override log level")
	cmd.Flags().IntVar(&f.depth, "depth", 0, "levels per side shown by PRINT")
	cmd.Flags().BoolVar(&f.noBanner, "no-banner", false, "do not print the banner")

	cmd.AddCommand(newTradesCmd(f))
	return cmd
}

// setup loads config and builds the logger shared by every subcommand.
func setup(f *rootFlags) (*config.AppConfig, *logging.Logger, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.depth > 0 {
		cfg.Book.Depth = f.depth
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log := logging.NewLogger(level).With(zap.String("service", cfg.ServiceName))
	zap.ReplaceGlobals(log.Zap())
	return cfg, log, nil
}

func feedConfig(cfg *config.AppConfig) feed.Config {
	return feed.Config{
		Brokers:    cfg.Feed.Brokers,
		Topic:      cfg.Feed.Topic,
		GroupID:    cfg.Feed.GroupID,
		Symbol:     cfg.Book.Symbol,
		MaxRetries: cfg.Feed.MaxRetries,
		BackoffMax: time.Duration(cfg.Feed.BackoffMaxMs) * time.Millisecond,
	}
}

func runSession(cmd *cobra.Command, f *rootFlags) error {
	cfg, log, err := setup(f)
	if err != nil {
		return err
	}
	defer log.Sync() // nolint

	ctx := cmd.Context()
	book := orderbook.New(
		orderbook.WithLogger(log.Zap()),
		orderbook.WithSymbol(cfg.Book.Symbol),
	)

	if cfg.Feed.Enabled {
		pub := feed.NewPublisher(feedConfig(cfg), log.Zap())
		defer pub.Close()

		done := make(chan struct{})
		runCtx, cancel := context.WithCancel(ctx)
		go func() {
			pub.Run(runCtx)
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()

		book.RegisterTradeCallback(func(trades []orderbook.Trade) {
			_ = pub.Enqueue(trades)
		})
		log.Info("trade feed enabled", zap.Strings("brokers", cfg.Feed.Brokers), zap.String("topic", cfg.Feed.Topic))
	}

	s := session.New(book, session.Config{
		Depth:      cfg.Book.Depth,
		ShowBanner: !f.noBanner,
	}, log)
	if err := s.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
