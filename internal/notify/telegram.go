package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramPrefix marks Telegram recipients: "tg:<chat-id>", or "tg:" alone
// for the configured default chat.
const TelegramPrefix = "tg:"

// TelegramConfig configures the Telegram bot.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`

	// APIEndpoint overrides tgbotapi.APIEndpoint.
	APIEndpoint string `mapstructure:"api_endpoint"`
}

// TelegramSender sends the report as a document to a chat.
type TelegramSender struct {
	bot         *tgbotapi.BotAPI
	defaultChat int64
}

// NewTelegramSender authenticates the bot with getMe.
func NewTelegramSender(cfg TelegramConfig) (*TelegramSender, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	return &TelegramSender{bot: bot, defaultChat: cfg.ChatID}, nil
}

func (t *TelegramSender) Name() string { return "telegram" }

func (t *TelegramSender) Accepts(to string) bool {
	_, err := t.chatID(to)
	return err == nil
}

func (t *TelegramSender) chatID(to string) (int64, error) {
	rest, ok := strings.CutPrefix(to, TelegramPrefix)
	if !ok {
		return 0, fmt.Errorf("%q is not a telegram recipient", to)
	}
	if rest == "" {
		if t.defaultChat == 0 {
			return 0, fmt.Errorf("no default telegram chat configured")
		}
		return t.defaultChat, nil
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", rest, err)
	}
	return id, nil
}

func (t *TelegramSender) Send(ctx context.Context, d Delivery) error {
	chat, err := t.chatID(d.To)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chat, tgbotapi.FileBytes{
		Name:  d.Attachment.Filename,
		Bytes: d.Attachment.Data,
	})
	doc.Caption = d.Subject
	if _, err := t.bot.Send(doc); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chat, err)
	}
	return nil
}
