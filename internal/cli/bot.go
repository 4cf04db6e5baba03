package cli

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"produce-grader/internal/api/telegram"
)

func newBotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, c, err := opts.openContainer(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Printf("Error closing services: %v", err)
				}
			}()

			if cfg.Telegram.Token == "" {
				return errors.New("telegram token is required (GRADER_TELEGRAM_TOKEN or TELEGRAM_TOKEN)")
			}

			bot, err := telegram.NewBot(cfg.Telegram.Token, c.UserService, c.AssessmentService)
			if err != nil {
				return err
			}

			log.Println("Bot is running...")
			return bot.Run(ctx)
		},
	}
}
