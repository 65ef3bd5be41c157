package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"project_armada/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MaxMessageLength is Telegram's limit for one text message, in characters
const MaxMessageLength = 4096

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramClient struct {
	Bot  *tgbotapi.BotAPI
	send botSender
	log  *zap.Logger
}

// NewTelegramClient connects to the Bot API and verifies the token with getMe
func NewTelegramClient(token string, log *zap.Logger) (*TelegramClient, error) {
	if token == "" {
		return nil, entities.ErrConfigurationMissing("BOT_TOKEN")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot token issue: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TelegramClient{Bot: bot, send: bot, log: log}, nil
}

// SendReply delivers the reply as plain text, split into as many messages as needed.
// The keyboard rides on the first message.
func (t *TelegramClient) SendReply(ctx context.Context, chatID int64, reply entities.Reply) error {
	for i, chunk := range SplitMessage(reply.Text, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return entities.NewError(entities.KindSend, "send message", err)
		}
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == 0 && reply.HasKeyboard() {
			msg.ReplyMarkup = ReplyKeyboard(reply.Keyboard)
		}
		if _, err := t.send.Send(msg); err != nil {
			return entities.NewError(entities.KindSend, "send message", err)
		}
	}
	return nil
}

// SetWebhook registers url with Telegram. A non-empty secret is echoed back by
// Telegram in the X-Telegram-Bot-Api-Secret-Token header.
func (t *TelegramClient) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	resp, err := t.Bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook: %s", resp.Description)
	}
	t.log.Info("webhook registered", zap.String("url", url))
	return nil
}

// DeleteWebhook is needed before long polling on a bot that had a webhook
func (t *TelegramClient) DeleteWebhook() error {
	_, err := t.Bot.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// StartPolling feeds updates to handle until ctx is cancelled
func (t *TelegramClient) StartPolling(ctx context.Context, handle func(context.Context, tgbotapi.Update)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.Bot.GetUpdatesChan(u)

	t.log.Info("started polling", zap.String("bot", t.Bot.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			t.log.Info("stopped polling")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			handle(ctx, update)
		}
	}
}

// SplitMessage cuts text into chunks of at most limit characters, preferring
// line boundaries. Lines longer than limit are cut hard.
func SplitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var b strings.Builder
	size := 0
	flush := func() {
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		b.WriteString(line)
		size += n
	}
	flush()

	out := chunks[:0]
	for _, c := range chunks {
		if c = strings.TrimRight(c, "\n"); c != "" {
			out = append(out, c)
		}
	}
	return out
}
