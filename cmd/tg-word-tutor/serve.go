package main

import (
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-word-tutor/pkg/bot/handlers"
	"github.com/smith3v/tg-word-tutor/pkg/bot/practice"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.Telegram.Token == "" {
				return errors.New("telegram.token is required to serve")
			}
			ctx := cmd.Context()

			sessions := practice.NewManager(a.db, a.log, practice.WithIdleTimeout(a.cfg.Tutor.SessionIdleTimeout))
			h := handlers.New(handlers.Deps{
				Tutor:    a.tutor,
				Sessions: sessions,
				Store:    a.store,
				AdminIDs: a.cfg.Telegram.AdminIDs,
				Token:    a.cfg.Telegram.Token,
				Log:      a.log,
			})

			b, err := bot.New(a.cfg.Telegram.Token, bot.WithDefaultHandler(h.HandleDefault))
			if err != nil {
				return fmt.Errorf("create bot: %w", err)
			}
			h.Register(b)

			if _, err := sessions.StartSweeper(ctx, h.ExpiryHandler(b)); err != nil {
				return fmt.Errorf("start session sweeper: %w", err)
			}

			a.log.Info("Starting bot...")
			b.Start(ctx)
			return nil
		},
	}
}
