package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/ports"
)

const maxErrorBody = 1024

// Client posts plain-text alerts as {"content": ...} to a chat webhook.
// Only 204 No Content counts as delivered.
type Client struct {
	url  string
	http *resty.Client
}

var _ ports.MessageSender = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.WebhookConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:  cfg.URL,
		http: resty.New().SetTimeout(timeout),
	}
}

// Send delivers one message.
func (c *Client) Send(ctx context.Context, text string) error {
	if c == nil {
		return fmt.Errorf("webhook client is nil")
	}
	if c.url == "" {
		return fmt.Errorf("webhook client misconfigured")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"content": text}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	if resp.StatusCode() != http.StatusNoContent {
		body := resp.String()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("webhook error %s: %s", resp.Status(), strings.TrimSpace(body))
	}

	return nil
}
