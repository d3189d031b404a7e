// Package notify delivers trade notifications to external channels.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stocksim/stocksim/models"
)

// Telegram sends executed-trade messages to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram authorizes against the bot API and returns a notifier.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// NotifyTrade sends one message per executed trade.
func (t *Telegram) NotifyTrade(ctx context.Context, tx models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatTrade(tx))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send trade notification: %w", err)
	}
	t.logger.Debug().Str("symbol", tx.Symbol).Msg("trade notification sent")
	return nil
}

// FormatTrade renders a transaction as a short human-readable line.
func FormatTrade(tx models.Transaction) string {
	return fmt.Sprintf("%s %.2f %s @ %.2f (total %.2f)",
		strings.ToUpper(tx.Action), tx.Quantity, tx.Symbol, tx.Price, tx.Value)
}

// Nop discards all notifications. Used when no channel is configured.
type Nop struct{}

// NotifyTrade implements models.Notifier.
func (Nop) NotifyTrade(ctx context.Context, tx models.Transaction) error { return nil }
