// Package notify delivers signal-flip alerts over the Telegram Bot API.
package notify

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fortuna/courtside/internal/fade"
	"github.com/fortuna/courtside/internal/models"
)

// Notifier sends alert messages to one chat, with retry on delivery
// failure.
type Notifier struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

// New creates a notifier for the given bot token and chat.
func New(botToken string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Notifier{
		bot:        bot,
		chatID:     chatID,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// SignalFlip announces that a tracked live game has flipped to an under
// signal.
func (n *Notifier) SignalFlip(game *models.Game, bundle fade.Bundle) error {
	return n.send(formatSignalFlip(game, bundle))
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		_, err := n.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(n.retryDelay * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", n.maxRetries, lastErr)
}

func formatSignalFlip(game *models.Game, bundle fade.Bundle) string {
	total, _ := game.TotalScore()

	message := fmt.Sprintf("%s\n%s @ %s\n",
		bundle.Label, game.AwayTeam.DisplayName, game.HomeTeam.DisplayName)
	message += fmt.Sprintf("Score: %d (period %d, %s left)\n", total, game.Period, game.Clock)
	if game.MarketTotal != nil {
		message += fmt.Sprintf("Line: %.1f (%d books)\n", *game.MarketTotal, game.BookCount)
	}
	message += fmt.Sprintf("Pace: %s now, %s required (%s)",
		bundle.CurrentPace, bundle.RequiredPace, bundle.MarginPct)

	return message
}
