package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/amitanshusahu/NexSync/db"
	"github.com/amitanshusahu/NexSync/internal/logutil"
	"github.com/amitanshusahu/NexSync/internal/nexbot"
	"github.com/amitanshusahu/NexSync/internal/telegram"
	"github.com/spf13/cobra"
)

func newBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(flagOrViperString(cmd, "telegram-bot-token", "telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --telegram-bot-token or NEXSYNC_TELEGRAM_BOT_TOKEN)")
			}

			baseURL := strings.TrimSpace(flagOrViperString(cmd, "telegram-base-url", "telegram.base_url"))

			var allowedChatIDs []int64
			for _, s := range flagOrViperStringArray(cmd, "telegram-allowed-chat-id", "telegram.allowed_chat_ids") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				id, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid telegram.allowed_chat_ids entry %q: %w", s, err)
				}
				allowedChatIDs = append(allowedChatIDs, id)
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			dbCfg := db.DefaultConfig()
			dbCfg.DSN = flagOrViperString(cmd, "db-dsn", "db.dsn")
			dbCfg.AutoMigrate = flagOrViperBool(cmd, "db-auto-migrate", "db.auto_migrate")
			gdb, err := db.Open(dbCfg)
			if err != nil {
				return err
			}
			store := db.NewStore(gdb)

			tzName := strings.TrimSpace(flagOrViperString(cmd, "timezone", "bot.timezone"))
			loc, err := time.LoadLocation(tzName)
			if err != nil {
				return fmt.Errorf("invalid bot.timezone %q: %w", tzName, err)
			}

			httpClient := &http.Client{Timeout: 60 * time.Second}
			client := telegram.NewClient(httpClient, baseURL, token)

			dispatcher := nexbot.New(nexbot.Options{
				Store:     store,
				Transport: client,
				Logger:    logger,
				Location:  loc,
				SiteURL:   flagOrViperString(cmd, "site-url", "bot.site_url"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return telegram.Run(ctx, telegram.Options{
				Client:         client,
				Handler:        dispatcher,
				Logger:         logger,
				PollTimeout:    flagOrViperDuration(cmd, "telegram-poll-timeout", "telegram.poll_timeout"),
				HandleTimeout:  flagOrViperDuration(cmd, "telegram-handle-timeout", "telegram.handle_timeout"),
				MaxConcurrency: flagOrViperInt(cmd, "telegram-max-concurrency", "telegram.max_concurrency"),
				AllowedChatIDs: allowedChatIDs,
			})
		},
	}

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("telegram-base-url", "", "Telegram API base URL (defaults to https://api.telegram.org).")
	cmd.Flags().StringArray("telegram-allowed-chat-id", nil, "Restrict to these chat IDs (repeatable; empty allows all).")
	cmd.Flags().Duration("telegram-poll-timeout", 30*time.Second, "Long-poll timeout for getUpdates.")
	cmd.Flags().Duration("telegram-handle-timeout", 30*time.Second, "Per-message handling timeout.")
	cmd.Flags().Int("telegram-max-concurrency", 3, "Max concurrently handled chats.")
	cmd.Flags().String("db-dsn", "", "SQLite DSN/path (defaults to ~/.nexsync/nexsync.sqlite).")
	cmd.Flags().Bool("db-auto-migrate", true, "Run gorm auto-migration at startup.")
	cmd.Flags().String("timezone", "", "Time zone for the /update day window (defaults to Asia/Kolkata).")
	cmd.Flags().String("site-url", "", "Dashboard URL included in credential messages.")

	return cmd
}
