package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"GoalWatcher/internal/ports"
)

// Notifier sends HTML messages to a Telegram chat via the bot API.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
}

var _ ports.MessageSender = (*Notifier)(nil)

// NewNotifier prepares the bot without contacting Telegram; see Check.
// chatID is a numeric chat/group id or an @channel username. An empty
// apiEndpoint uses the public Telegram API.
func NewNotifier(botToken, chatID, apiEndpoint string, client *http.Client) (*Notifier, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	bot := &tgbotapi.BotAPI{Token: botToken, Client: client, Buffer: 100}
	bot.SetAPIEndpoint(apiEndpoint)

	n := &Notifier{bot: bot}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		n.chatID = id
	} else {
		n.channel = "@" + strings.TrimPrefix(chatID, "@")
	}
	return n, nil
}

// Check authenticates the token with getMe.
func (n *Notifier) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	me, err := n.bot.GetMe()
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	n.bot.Self = me
	return nil
}

// Send posts text with HTML parse mode.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if n.channel != "" {
		msg = tgbotapi.NewMessageToChannel(n.channel, text)
	} else {
		msg = tgbotapi.NewMessage(n.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
