package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/domain"
	"github.com/PeterBarbas/leaply-sub001/internal/usecase/discover"
)

type Discoverer interface {
	Next(ctx context.Context, transcript domain.Transcript) (discover.Result, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      config.Config
	discover Discoverer
	sessions domain.SessionStore
	logger   *zap.Logger
	locks    *chatLocks
	newID    func() string
}

func NewBot(cfg config.Config, discoverSvc Discoverer, sessions domain.SessionStore, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	return newBot(api, cfg, discoverSvc, sessions, logger), nil
}

func newBot(api *tgbotapi.BotAPI, cfg config.Config, discoverSvc Discoverer, sessions domain.SessionStore, logger *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		cfg:      cfg,
		discover: discoverSvc,
		sessions: sessions,
		logger:   logger,
		locks:    newChatLocks(),
		newID:    uuid.NewString,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("telegram bot started", zap.String("username", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			if msg.From == nil {
				continue
			}
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !isAllowedUser(msg.From.ID, b.cfg) {
		b.sendText(msg.Chat.ID, msg.MessageID, "access denied")
		return
	}

	b.sendChatAction(msg.Chat.ID)
	b.sendText(msg.Chat.ID, msg.MessageID, b.reply(ctx, msg.Chat.ID, msg.Text))
}

// reply advances the chat's discovery session with text and returns what the
// bot should say next. Turns of the same chat run one at a time so every
// answer extends the transcript the previous turn saved.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) string {
	unlock := b.locks.lock(chatID)
	defer unlock()

	text = strings.TrimSpace(text)
	if isStartCommand(text) {
		b.sessions.Save(chatID, domain.Session{ID: b.newID(), Pending: discover.OpeningQuestion})
		return discover.OpeningQuestion
	}

	session, ok := b.sessions.Get(chatID, b.cfg.SessionTTL)
	if !ok {
		return "Send /start to discover which career path fits you."
	}
	if text == "" {
		return "I need a text answer to continue:\n\n" + session.Pending
	}

	log := b.logger.With(zap.String("session", session.ID), zap.Int64("chat_id", chatID))
	transcript := session.Transcript.Append(session.Pending, text)

	res, err := b.discover.Next(ctx, transcript)
	if err != nil {
		if errors.Is(err, discover.ErrInvalidInput) {
			b.sessions.Delete(chatID)
			log.Warn("rejected transcript", zap.Error(err))
			return "That session can't continue. Send /start to begin again."
		}
		if transcript.Full() {
			b.sessions.Delete(chatID)
			log.Error("final discovery turn failed", zap.Error(err))
			return "Sorry, we couldn't reach a recommendation this time. Send /start to try again."
		}
		log.Error("discovery turn failed", zap.Error(err))
		return "Something went wrong on our side. Please send your answer again."
	}

	if !res.Done() {
		session.Transcript = transcript
		session.Pending = res.Question
		b.sessions.Save(chatID, session)
		return res.Question
	}

	b.sessions.Delete(chatID)
	log.Info("discovery session finished", zap.String("status", res.Status), zap.Int("turns", len(transcript)))
	return b.formatResult(res)
}

func (b *Bot) formatResult(res discover.Result) string {
	if res.Status == discover.StatusSupported && b.cfg.SimulationURL != "" {
		return res.Message + "\n\n" + strings.TrimRight(b.cfg.SimulationURL, "/") + "/" + res.Slug
	}
	return res.Message
}

func (b *Bot) sendText(chatID int64, replyTo int, text string) {
	const chunkSize = 2048

	chunks := splitText(text, chunkSize)
	for idx, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if idx == 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

func (b *Bot) sendChatAction(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("failed to send chat action", zap.Error(err))
	}
}

func isStartCommand(text string) bool {
	cmd, _, _ := strings.Cut(strings.ToLower(text), " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == "/start" || cmd == "/discover" || cmd == "/restart"
}

func isAllowedUser(userID int64, cfg config.Config) bool {
	for _, id := range cfg.AdminUserIDs {
		if id == userID {
			return true
		}
	}

	if len(cfg.AllowedUserIDs) == 0 {
		return true
	}

	for _, id := range cfg.AllowedUserIDs {
		if id == userID {
			return true
		}
	}

	return false
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
