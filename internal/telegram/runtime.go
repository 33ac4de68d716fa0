package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amitanshusahu/NexSync/internal/nexbot"
	"github.com/google/uuid"
)

// Handler consumes one inbound chat message.
type Handler interface {
	Handle(ctx context.Context, in nexbot.Inbound) error
}

type job struct {
	ID           string
	ChatID       int64
	MessageID    int64
	SenderID     int64
	SenderHandle string
	Text         string
}

type chatWorker struct {
	Jobs chan job
}

// Options wires Run. Client and Handler are required; everything else has a
// production default.
type Options struct {
	Client         *Client
	Handler        Handler
	Logger         *slog.Logger
	PollTimeout    time.Duration
	HandleTimeout  time.Duration
	MaxConcurrency int
	AllowedChatIDs []int64
}

// Run polls for updates until ctx is canceled. The platform delivers
// messages sequentially per chat: each chat gets its own worker goroutine so
// ordering holds within a chat while distinct chats proceed concurrently,
// bounded by a shared semaphore. Workers share nothing beyond the store
// behind the handler.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	handleTimeout := opts.HandleTimeout
	if handleTimeout <= 0 {
		handleTimeout = 30 * time.Second
	}
	maxConc := opts.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 3
	}

	allowed := make(map[int64]bool)
	for _, id := range opts.AllowedChatIDs {
		if id != 0 {
			allowed[id] = true
		}
	}

	api := opts.Client

	var me *user
	for {
		var err error
		me, err = api.getMe(ctx)
		if err == nil {
			break
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		}
		logger.Warn("telegram_get_me_error", "error", err.Error())
		select {
		case <-ctx.Done():
			logger.Info("telegram_stop", "reason", "context_canceled")
			return nil
		case <-time.After(2 * time.Second):
		}
	}

	sem := make(chan struct{}, maxConc)
	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var (
		mu      sync.Mutex
		workers = make(map[int64]*chatWorker)
		offset  int64
	)

	logger.Info("telegram_start",
		"bot_username", me.Username,
		"bot_id", me.ID,
		"poll_timeout", pollTimeout.String(),
		"handle_timeout", handleTimeout.String(),
		"max_concurrency", maxConc,
	)

	getOrStartWorkerLocked := func(chatID int64) *chatWorker {
		if w, ok := workers[chatID]; ok && w != nil {
			return w
		}
		w := &chatWorker{Jobs: make(chan job, 16)}
		workers[chatID] = w

		go func() {
			for {
				select {
				case <-workersCtx.Done():
					return
				case j, ok := <-w.Jobs:
					if !ok {
						return
					}
					select {
					case sem <- struct{}{}:
					case <-workersCtx.Done():
						return
					}
					func() {
						defer func() { <-sem }()
						runCtx, cancel := context.WithTimeout(workersCtx, handleTimeout)
						defer cancel()
						err := opts.Handler.Handle(runCtx, nexbot.Inbound{
							RawText:      j.Text,
							SenderHandle: j.SenderHandle,
							SenderID:     j.SenderID,
							ChatID:       j.ChatID,
						})
						if err != nil && workersCtx.Err() == nil {
							logger.Warn("bot_command_error",
								"job_id", j.ID,
								"chat_id", j.ChatID,
								"message_id", j.MessageID,
								"error", err.Error(),
							)
						}
					}()
				}
			}
		}()

		return w
	}

	for {
		updates, nextOffset, err := api.getUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
			if isPollTimeoutError(err) {
				logger.Debug("telegram_get_updates_timeout", "error", err.Error())
			} else {
				logger.Warn("telegram_get_updates_error", "error", err.Error())
			}
			time.Sleep(1 * time.Second)
			continue
		}
		offset = nextOffset

		for _, u := range updates {
			msg := u.Message
			if msg == nil {
				msg = u.EditedMessage
			}
			if msg == nil || msg.Chat == nil {
				continue
			}
			text := strings.TrimSpace(msg.Text)
			if text == "" {
				continue
			}
			chatID := msg.Chat.ID
			if len(allowed) > 0 && !allowed[chatID] {
				logger.Warn("telegram_unauthorized_chat", "chat_id", chatID)
				continue
			}

			if msg.From != nil && msg.From.IsBot {
				continue
			}
			senderID := int64(0)
			senderHandle := ""
			if msg.From != nil {
				senderID = msg.From.ID
				senderHandle = strings.TrimSpace(msg.From.Username)
			}

			j := job{
				ID:           uuid.NewString(),
				ChatID:       chatID,
				MessageID:    msg.MessageID,
				SenderID:     senderID,
				SenderHandle: senderHandle,
				Text:         text,
			}

			mu.Lock()
			w := getOrStartWorkerLocked(chatID)
			mu.Unlock()

			select {
			case w.Jobs <- j:
				logger.Debug("telegram_job_enqueued",
					"job_id", j.ID,
					"chat_id", chatID,
					"message_id", msg.MessageID,
					"text_len", len(text),
				)
			case <-ctx.Done():
				logger.Info("telegram_stop", "reason", "context_canceled")
				return nil
			}
		}
	}
}
