package alert

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"SolSignal/internal/domain/models"
	domsvc "SolSignal/internal/domain/service"
	"SolSignal/pkg/config"
	applogger "SolSignal/pkg/logger"
)

// TelegramNotifier pushes signal alerts to a Telegram chat. When no bot
// token is configured it degrades to logging the alert text, so the
// pipeline never depends on the channel being set up.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *applogger.Logger
}

func NewTelegramNotifier(cfg *config.Config, logger *applogger.Logger) (*TelegramNotifier, error) {
	n := &TelegramNotifier{logger: logger}
	if cfg.Telegram.BotToken == "" {
		return n, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	chatID, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram chat id: %w", err)
	}
	n.bot = bot
	n.chatID = chatID
	return n, nil
}

// NotifySignal formats and delivers one alert. HOLD signals are skipped.
func (n *TelegramNotifier) NotifySignal(_ context.Context, s models.Signal) error {
	if s.Type == models.SignalHold {
		return nil
	}

	text := formatAlert(s)
	if n.bot == nil {
		if n.logger != nil {
			n.logger.Info("signal alert (telegram disabled)",
				applogger.String("symbol", s.Symbol),
				applogger.String("type", string(s.Type)),
				applogger.String("text", text),
			)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func formatAlert(s models.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s %s</b>\n", s.Type, s.Symbol)
	fmt.Fprintf(&b, "Confidence: %.0f%%\n", s.Confidence)
	fmt.Fprintf(&b, "Price: $%.4f\n", s.Price)
	fmt.Fprintf(&b, "Expected move: %+.2f%%\n", s.ExpectedMovePct)
	fmt.Fprintf(&b, "Stop loss: $%.4f\n", s.StopLoss)
	fmt.Fprintf(&b, "Take profit: $%.4f\n", s.TakeProfit)
	fmt.Fprintf(&b, "Reason: %s\n", s.Reason)
	for _, d := range s.Details {
		fmt.Fprintf(&b, "  - %s\n", d)
	}
	return b.String()
}

var _ domsvc.Notifier = (*TelegramNotifier)(nil)
