package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/adapter/memory"
	"github.com/PeterBarbas/leaply-sub001/internal/adapter/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run discovery sessions over Telegram",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.RequireTelegram(); err != nil {
			return err
		}

		svc, _, catalog, err := buildDiscovery(ctx)
		if err != nil {
			return err
		}
		defer catalog.Close()

		bot, err := telegram.NewBot(cfg, svc, memory.NewStore(), logger.Named("telegram"))
		if err != nil {
			return err
		}

		if err := bot.Run(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("shutdown", zap.Error(err))
				return nil
			}
			return err
		}
		return nil
	},
}
