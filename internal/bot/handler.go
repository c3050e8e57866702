// Package bot routes Telegram updates to the shop's handlers.
package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
)

const (
	openShopLabel   = "Open shop"
	fallbackText    = "Tap the button below to open the shop."
	shippingFailure = "Could not calculate delivery, please try again later."
)

var startPattern = regexp.MustCompile(`(?i)^/?start`)

type botAPI interface {
	SendWebAppButton(ctx context.Context, chatID int64, text, label, appURL string) error
	AnswerShippingQuery(ctx context.Context, queryID string, options []tgbotapi.ShippingOption, errMsg string) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID, errMsg string) error
}

type reconciler interface {
	HandleSuccessfulPayment(ctx context.Context, p domain.PaymentConfirmation)
}

type Options struct {
	ShopName string
	AppURL   string
}

type Handler struct {
	api        botAPI
	reconciler reconciler
	opts       Options
	logger     *log.Logger
}

func NewHandler(api botAPI, reconciler reconciler, opts Options, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{api: api, reconciler: reconciler, opts: opts, logger: logger}
}

// Handle dispatches a single update. It never fails; delivery problems are
// logged so the webhook can always acknowledge.
func (h *Handler) Handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.ShippingQuery != nil:
		h.onShippingQuery(ctx, upd.ShippingQuery)
	case upd.PreCheckoutQuery != nil:
		h.onPreCheckout(ctx, upd.PreCheckoutQuery)
	case upd.Message != nil && upd.Message.SuccessfulPayment != nil:
		h.reconciler.HandleSuccessfulPayment(ctx, Confirmation(upd.Message))
	case upd.Message != nil && upd.Message.Chat != nil:
		h.onMessage(ctx, upd.Message)
	}
}

func (h *Handler) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := fallbackText
	if startPattern.MatchString(msg.Text) {
		text = fmt.Sprintf("*Welcome to %s!✨*\n\nPress the button to open the shop.", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, h.opts.ShopName))
	}
	if err := h.api.SendWebAppButton(ctx, msg.Chat.ID, text, openShopLabel, h.opts.AppURL); err != nil {
		h.logger.Printf("bot: reply chat_id=%d error=%v", msg.Chat.ID, err)
	}
}

func (h *Handler) onShippingQuery(ctx context.Context, q *tgbotapi.ShippingQuery) {
	options := []tgbotapi.ShippingOption{{
		ID:     "flat",
		Title:  "Delivery",
		Prices: []tgbotapi.LabeledPrice{{Label: "Delivery", Amount: 0}},
	}}
	err := h.api.AnswerShippingQuery(ctx, q.ID, options, "")
	if err == nil {
		return
	}
	h.logger.Printf("bot: answer shipping query id=%s error=%v", q.ID, err)
	if err := h.api.AnswerShippingQuery(ctx, q.ID, nil, shippingFailure); err != nil {
		h.logger.Printf("bot: reject shipping query id=%s error=%v", q.ID, err)
	}
}

func (h *Handler) onPreCheckout(ctx context.Context, q *tgbotapi.PreCheckoutQuery) {
	if err := h.api.AnswerPreCheckoutQuery(ctx, q.ID, ""); err != nil {
		h.logger.Printf("bot: answer pre-checkout id=%s payload=%q error=%v", q.ID, q.InvoicePayload, err)
	}
}

// Confirmation converts a successful payment message into the shop's event.
func Confirmation(msg *tgbotapi.Message) domain.PaymentConfirmation {
	sp := msg.SuccessfulPayment
	out := domain.PaymentConfirmation{
		Currency:                sp.Currency,
		TotalAmount:             int64(sp.TotalAmount),
		Payload:                 sp.InvoicePayload,
		TelegramPaymentChargeID: sp.TelegramPaymentChargeID,
		ProviderPaymentChargeID: sp.ProviderPaymentChargeID,
	}
	if msg.Chat != nil {
		out.ChatID = msg.Chat.ID
	}
	if msg.From != nil {
		out.Payer = domain.Payer{ID: msg.From.ID, Username: msg.From.UserName, FirstName: msg.From.FirstName}
		if out.ChatID == 0 {
			out.ChatID = msg.From.ID
		}
	}
	if info := sp.OrderInfo; info != nil {
		out.OrderInfo = &domain.OrderInfo{
			Name:        info.Name,
			PhoneNumber: info.PhoneNumber,
			Email:       info.Email,
		}
		if a := info.ShippingAddress; a != nil {
			out.OrderInfo.ShippingAddress = &domain.ShippingAddress{
				CountryCode: a.CountryCode,
				State:       a.State,
				City:        a.City,
				StreetLine1: a.StreetLine1,
				StreetLine2: a.StreetLine2,
				PostCode:    a.PostCode,
			}
		}
	}
	return out
}
