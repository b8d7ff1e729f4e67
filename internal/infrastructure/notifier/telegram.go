package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

// Telegram sends each notification as an HTML message to a single chat.
type Telegram struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.ConfigurationError, "create bot")
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (n *Telegram) Send(ctx context.Context, notification entity.Notification) error {
	text := fmt.Sprintf("<b>%s</b>\n%s", notification.Title, notification.Body)

	msg := tu.Message(
		tu.ID(n.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	if _, err := n.bot.SendMessage(ctx, msg); err != nil {
		return domain.WrapError(err, errcodes.NotificationFailed, "send message")
	}

	return nil
}
