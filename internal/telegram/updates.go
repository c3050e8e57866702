package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
)

// SecretHeader carries the secret_token registered with setWebhook on every
// webhook delivery.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// RefreshWebhook drops any registered webhook and, when baseURL is set,
// registers baseURL+WebhookPath with secret as its secret_token. Pending
// updates are kept.
func (c *Client) RefreshWebhook(ctx context.Context, baseURL, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("%w: deleteWebhook: %v", domain.ErrTransport, err)
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		c.logger.Printf("telegram: webhook removed, polling mode")
		return nil
	}

	// WebhookConfig has no secret_token field in v5.5.1.
	params := tgbotapi.Params{"url": baseURL + WebhookPath}
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", AllowedUpdates); err != nil {
		return fmt.Errorf("allowed updates: %w", err)
	}
	if _, err := c.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("%w: setWebhook: %v", domain.ErrTransport, err)
	}
	c.logger.Printf("telegram: webhook set url=%s", baseURL+WebhookPath)
	return nil
}

// Poll long-polls for updates and hands each to handle until ctx is done.
func (c *Client) Poll(ctx context.Context, handle func(context.Context, tgbotapi.Update)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = AllowedUpdates
	updates := c.api.GetUpdatesChan(u)
	c.logger.Printf("telegram: polling started bot=%s", c.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			c.logger.Printf("telegram: polling stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			handle(ctx, upd)
		}
	}
}
