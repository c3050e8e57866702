package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
)

type sent struct {
	chatID int64
	text   string
	label  string
	url    string
}

type shippingAnswer struct {
	queryID string
	options []tgbotapi.ShippingOption
	errMsg  string
}

type stubAPI struct {
	messages    []sent
	shipping    []shippingAnswer
	preCheckout []string
	shippingErr error
}

func (s *stubAPI) SendWebAppButton(_ context.Context, chatID int64, text, label, appURL string) error {
	s.messages = append(s.messages, sent{chatID: chatID, text: text, label: label, url: appURL})
	return nil
}

func (s *stubAPI) AnswerShippingQuery(_ context.Context, queryID string, options []tgbotapi.ShippingOption, errMsg string) error {
	s.shipping = append(s.shipping, shippingAnswer{queryID: queryID, options: options, errMsg: errMsg})
	if len(options) > 0 && s.shippingErr != nil {
		return s.shippingErr
	}
	return nil
}

func (s *stubAPI) AnswerPreCheckoutQuery(_ context.Context, queryID, _ string) error {
	s.preCheckout = append(s.preCheckout, queryID)
	return nil
}

type stubReconciler struct {
	events []domain.PaymentConfirmation
}

func (s *stubReconciler) HandleSuccessfulPayment(_ context.Context, p domain.PaymentConfirmation) {
	s.events = append(s.events, p)
}

func newTestHandler() (*Handler, *stubAPI, *stubReconciler) {
	api := &stubAPI{}
	rec := &stubReconciler{}
	return NewHandler(api, rec, Options{ShopName: "La Fleur", AppURL: "https://shop.example"}, nil), api, rec
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 42},
		From: &tgbotapi.User{ID: 42, FirstName: "Masha"},
	}}
}

func TestStartCommand(t *testing.T) {
	for _, text := range []string{"/start", "start", "START now", "/Start payload"} {
		h, api, _ := newTestHandler()
		h.Handle(context.Background(), textUpdate(text))

		if len(api.messages) != 1 {
			t.Fatalf("%q: expected one reply, got %d", text, len(api.messages))
		}
		msg := api.messages[0]
		if !strings.Contains(msg.text, "Welcome to La Fleur") {
			t.Fatalf("%q: expected welcome, got %q", text, msg.text)
		}
		if msg.label != "Open shop" || msg.url != "https://shop.example" || msg.chatID != 42 {
			t.Fatalf("%q: unexpected button %+v", text, msg)
		}
	}
}

func TestFallbackMessage(t *testing.T) {
	h, api, _ := newTestHandler()
	h.Handle(context.Background(), textUpdate("hello, restart please"))

	if len(api.messages) != 1 || api.messages[0].text != fallbackText {
		t.Fatalf("expected fallback, got %+v", api.messages)
	}
}

func TestShippingQuery(t *testing.T) {
	h, api, _ := newTestHandler()
	h.Handle(context.Background(), tgbotapi.Update{ShippingQuery: &tgbotapi.ShippingQuery{ID: "sq1"}})

	if len(api.shipping) != 1 {
		t.Fatalf("expected one answer, got %d", len(api.shipping))
	}
	opts := api.shipping[0].options
	if len(opts) != 1 || opts[0].Title != "Delivery" || opts[0].Prices[0].Amount != 0 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestShippingQueryFailureRejects(t *testing.T) {
	h, api, _ := newTestHandler()
	api.shippingErr = errors.New("timeout")
	h.Handle(context.Background(), tgbotapi.Update{ShippingQuery: &tgbotapi.ShippingQuery{ID: "sq1"}})

	if len(api.shipping) != 2 {
		t.Fatalf("expected answer then rejection, got %d", len(api.shipping))
	}
	if api.shipping[1].errMsg != shippingFailure || len(api.shipping[1].options) != 0 {
		t.Fatalf("unexpected rejection %+v", api.shipping[1])
	}
}

func TestPreCheckoutQuery(t *testing.T) {
	h, api, _ := newTestHandler()
	h.Handle(context.Background(), tgbotapi.Update{PreCheckoutQuery: &tgbotapi.PreCheckoutQuery{ID: "pc1", InvoicePayload: "abc"}})

	if len(api.preCheckout) != 1 || api.preCheckout[0] != "pc1" {
		t.Fatalf("expected pre-checkout answer, got %v", api.preCheckout)
	}
}

func TestSuccessfulPaymentReachesReconciler(t *testing.T) {
	h, api, rec := newTestHandler()
	h.Handle(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42},
		From: &tgbotapi.User{ID: 7, UserName: "maria", FirstName: "Masha"},
		SuccessfulPayment: &tgbotapi.SuccessfulPayment{
			Currency:                "RUB",
			TotalAmount:             50000,
			InvoicePayload:          "abc",
			TelegramPaymentChargeID: "tg1",
			ProviderPaymentChargeID: "pr1",
			OrderInfo: &tgbotapi.OrderInfo{
				Name:            "Maria K",
				PhoneNumber:     "+7900",
				ShippingAddress: &tgbotapi.ShippingAddress{CountryCode: "RU", City: "Moscow"},
			},
		},
	}})

	if len(api.messages) != 0 {
		t.Fatalf("payment message must not trigger a text reply")
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(rec.events))
	}
	p := rec.events[0]
	if p.ChatID != 42 || p.Payer.ID != 7 || p.Payer.Username != "maria" || p.TotalAmount != 50000 || p.Payload != "abc" {
		t.Fatalf("unexpected confirmation %+v", p)
	}
	if p.OrderInfo == nil || p.OrderInfo.ShippingAddress == nil || p.OrderInfo.ShippingAddress.City != "Moscow" {
		t.Fatalf("order info not carried over: %+v", p.OrderInfo)
	}
}

func TestConfirmationWithoutOrderInfo(t *testing.T) {
	p := Confirmation(&tgbotapi.Message{
		From:              &tgbotapi.User{ID: 7},
		SuccessfulPayment: &tgbotapi.SuccessfulPayment{Currency: "XTR", TotalAmount: 5},
	})
	if p.OrderInfo != nil {
		t.Fatalf("expected nil order info")
	}
	if p.ChatID != 7 {
		t.Fatalf("expected chat id to fall back to payer, got %d", p.ChatID)
	}
}

func TestIgnoresUnknownUpdates(t *testing.T) {
	h, api, rec := newTestHandler()
	h.Handle(context.Background(), tgbotapi.Update{UpdateID: 1})
	h.Handle(context.Background(), tgbotapi.Update{EditedMessage: &tgbotapi.Message{Text: "/start", Chat: &tgbotapi.Chat{ID: 1}}})

	if len(api.messages) != 0 || len(rec.events) != 0 {
		t.Fatalf("expected no side effects")
	}
}
