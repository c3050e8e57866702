// Package telegram wraps the Bot API calls the shop makes.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
)

// WebhookPath is where the HTTP server accepts Telegram updates.
const WebhookPath = "/bot"

// AllowedUpdates are the update kinds the bot subscribes to.
var AllowedUpdates = []string{"message", "edited_message", "callback_query", "shipping_query", "pre_checkout_query"}

type Client struct {
	api           *tgbotapi.BotAPI
	providerToken string
	logger        *log.Logger
}

// Connect authorizes against the Bot API. Passing an empty endpoint uses
// the public Telegram server.
func Connect(token, endpoint, providerToken string, debug bool, logger *log.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: authorize bot: %v", domain.ErrTransport, err)
	}
	api.Debug = debug
	return New(api, providerToken, logger), nil
}

func New(api *tgbotapi.BotAPI, providerToken string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{api: api, providerToken: providerToken, logger: logger}
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SendText sends a Markdown message to chatID.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%w: sendMessage chat_id=%d: %v", domain.ErrTransport, chatID, err)
	}
	return nil
}

type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

// SendWebAppButton sends text with an inline button that opens the Mini App.
// Without an app URL the text is sent alone.
func (c *Client) SendWebAppButton(ctx context.Context, chatID int64, text, label, appURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if appURL != "" {
		msg.ReplyMarkup = inlineKeyboard{InlineKeyboard: [][]webAppButton{{
			{Text: label, WebApp: webAppInfo{URL: appURL}},
		}}}
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("%w: sendMessage chat_id=%d: %v", domain.ErrTransport, chatID, err)
	}
	return nil
}

// CreateInvoiceLink asks Telegram for a shareable pay link.
func (c *Client) CreateInvoiceLink(ctx context.Context, req domain.InvoiceLinkRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prices := make([]tgbotapi.LabeledPrice, 0, len(req.Prices))
	for _, p := range req.Prices {
		if p.Amount < 0 || p.Amount > math.MaxInt32 {
			return "", fmt.Errorf("%w: price %q amount %d out of range", domain.ErrValidation, p.Label, p.Amount)
		}
		prices = append(prices, tgbotapi.LabeledPrice{Label: p.Label, Amount: int(p.Amount)})
	}

	params := tgbotapi.Params{}
	params["title"] = req.Title
	params["description"] = req.Description
	params["payload"] = req.Payload
	params["currency"] = req.Currency
	params.AddNonEmpty("provider_token", c.providerToken)
	if err := params.AddInterface("prices", prices); err != nil {
		return "", fmt.Errorf("encode prices: %w", err)
	}
	params.AddBool("need_name", req.NeedName)
	params.AddBool("need_phone_number", req.NeedPhoneNumber)
	params.AddBool("need_shipping_address", req.NeedShippingAddress)
	params.AddBool("is_flexible", req.NeedShippingAddress)

	resp, err := c.api.MakeRequest("createInvoiceLink", params)
	if err != nil {
		return "", fmt.Errorf("%w: createInvoiceLink: %v", domain.ErrTransport, err)
	}
	var link string
	if err := json.Unmarshal(resp.Result, &link); err != nil || link == "" {
		return "", fmt.Errorf("%w: createInvoiceLink: unexpected result %s", domain.ErrTransport, string(resp.Result))
	}
	return link, nil
}

// AnswerShippingQuery confirms a shipping query with options, or rejects it
// with errMsg when options is empty.
func (c *Client) AnswerShippingQuery(ctx context.Context, queryID string, options []tgbotapi.ShippingOption, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := tgbotapi.ShippingConfig{
		ShippingQueryID: queryID,
		OK:              len(options) > 0,
		ShippingOptions: options,
	}
	if !cfg.OK {
		cfg.ErrorMessage = errMsg
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("%w: answerShippingQuery: %v", domain.ErrTransport, err)
	}
	return nil
}

// AnswerPreCheckoutQuery approves a pre-checkout query, or declines it when
// errMsg is set.
func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 errMsg == "",
		ErrorMessage:       errMsg,
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("%w: answerPreCheckoutQuery: %v", domain.ErrTransport, err)
	}
	return nil
}
