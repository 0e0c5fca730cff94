package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joripage/limitbook/pkg/feed"
	"github.com/joripage/limitbook/pkg/session"
	"github.com/spf13/cobra"
)

var errFeedDisabled = errors.New("trade feed is not enabled in config")

func newTradesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trades",
		Short: "Print trades published on the feed topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(f)
			if err != nil {
				return err
			}
			defer log.Sync() // nolint

			if !cfg.Feed.Enabled {
				return errFeedDisabled
			}

			sub := feed.NewSubscriber(feedConfig(cfg), log.Zap())
			defer sub.Close()

			out := cmd.OutOrStdout()
			return sub.Run(cmd.Context(), func(_ context.Context, m feed.Message) error {
				_, err := fmt.Fprintln(out, session.FormatTrade(m.Trade))
				return err
			})
		},
	}
}
