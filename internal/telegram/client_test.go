package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"miniapp-shop/internal/domain"
)

type apiCall struct {
	method string
	form   url.Values
}

// fakeBotAPI answers Bot API calls with canned results keyed by method.
type fakeBotAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	results map[string]string
	errors  map[string]string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, form: r.PostForm})
	result, ok := f.results[method]
	desc, failed := f.errors[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failed {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":` + quote(desc) + `}`))
		return
	}
	if !ok {
		result = "true"
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
}

func (f *fakeBotAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestClient(t *testing.T) (*Client, *fakeBotAPI) {
	t.Helper()
	fake := &fakeBotAPI{
		results: map[string]string{
			"getMe":       `{"id":1,"is_bot":true,"first_name":"Shop","username":"shop_bot"}`,
			"sendMessage": `{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}`,
		},
		errors: map[string]string{},
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := Connect("123:abc", srv.URL+"/bot%s/%s", "provider-token", false, nil)
	require.NoError(t, err)
	return client, fake
}

func TestConnect(t *testing.T) {
	client, fake := newTestClient(t)
	assert.Equal(t, "shop_bot", client.Username())
	assert.Len(t, fake.callsTo("getMe"), 1)
}

func TestSendText(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.SendText(context.Background(), 42, "*hi*"))

	calls := fake.callsTo("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "42", calls[0].form.Get("chat_id"))
	assert.Equal(t, "*hi*", calls[0].form.Get("text"))
	assert.Equal(t, tgbotapi.ModeMarkdown, calls[0].form.Get("parse_mode"))
}

func TestSendTextFailureIsTransport(t *testing.T) {
	client, fake := newTestClient(t)
	fake.errors["sendMessage"] = "Forbidden: bot was blocked by the user"

	err := client.SendText(context.Background(), 42, "hi")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSendTextCanceled(t *testing.T) {
	client, fake := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.SendText(ctx, 42, "hi")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, fake.callsTo("sendMessage"))
}

func TestSendWebAppButton(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.SendWebAppButton(context.Background(), 42, "Welcome", "Open shop", "https://shop.example"))

	calls := fake.callsTo("sendMessage")
	require.Len(t, calls, 1)
	var markup struct {
		InlineKeyboard [][]struct {
			Text   string `json:"text"`
			WebApp struct {
				URL string `json:"url"`
			} `json:"web_app"`
		} `json:"inline_keyboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[0].form.Get("reply_markup")), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "Open shop", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "https://shop.example", markup.InlineKeyboard[0][0].WebApp.URL)
}

func TestSendWebAppButtonWithoutURL(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.SendWebAppButton(context.Background(), 42, "Welcome", "Open shop", ""))
	calls := fake.callsTo("sendMessage")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].form.Get("reply_markup"))
}

func TestCreateInvoiceLink(t *testing.T) {
	client, fake := newTestClient(t)
	fake.results["createInvoiceLink"] = `"https://t.me/$invoice"`

	link, err := client.CreateInvoiceLink(context.Background(), domain.InvoiceLinkRequest{
		Title:               "Order",
		Description:         "Payment for order in La Fleur",
		Payload:             "abc",
		Currency:            "RUB",
		Prices:              []domain.PricedLine{{Label: "Tea (Large) x2", Amount: 50000}},
		NeedName:            true,
		NeedPhoneNumber:     true,
		NeedShippingAddress: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/$invoice", link)

	calls := fake.callsTo("createInvoiceLink")
	require.Len(t, calls, 1)
	form := calls[0].form
	assert.Equal(t, "abc", form.Get("payload"))
	assert.Equal(t, "provider-token", form.Get("provider_token"))
	assert.Equal(t, "RUB", form.Get("currency"))
	assert.Equal(t, "true", form.Get("need_shipping_address"))
	assert.JSONEq(t, `[{"label":"Tea (Large) x2","amount":50000}]`, form.Get("prices"))
}

func TestCreateInvoiceLinkFailure(t *testing.T) {
	client, fake := newTestClient(t)
	fake.errors["createInvoiceLink"] = "Bad Request: CURRENCY_INVALID"

	_, err := client.CreateInvoiceLink(context.Background(), domain.InvoiceLinkRequest{Payload: "abc", Currency: "ZZZ"})
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestCreateInvoiceLinkRejectsOversizedAmount(t *testing.T) {
	client, fake := newTestClient(t)

	for _, amount := range []int64{-1, 1 << 31, 1 << 40} {
		_, err := client.CreateInvoiceLink(context.Background(), domain.InvoiceLinkRequest{
			Payload:  "abc",
			Currency: "RUB",
			Prices:   []domain.PricedLine{{Label: "Tea", Amount: amount}},
		})
		assert.ErrorIs(t, err, domain.ErrValidation, "amount %d", amount)
	}
	assert.Empty(t, fake.callsTo("createInvoiceLink"))
}

func TestAnswerShippingQuery(t *testing.T) {
	client, fake := newTestClient(t)

	options := []tgbotapi.ShippingOption{{ID: "delivery", Title: "Delivery", Prices: []tgbotapi.LabeledPrice{{Label: "Delivery", Amount: 0}}}}
	require.NoError(t, client.AnswerShippingQuery(context.Background(), "q1", options, ""))
	require.NoError(t, client.AnswerShippingQuery(context.Background(), "q2", nil, "not available"))

	calls := fake.callsTo("answerShippingQuery")
	require.Len(t, calls, 2)
	assert.Equal(t, "true", calls[0].form.Get("ok"))
	assert.Contains(t, calls[0].form.Get("shipping_options"), `"Delivery"`)
	assert.Empty(t, calls[1].form.Get("ok"))
	assert.Equal(t, "not available", calls[1].form.Get("error_message"))
}

func TestAnswerPreCheckoutQuery(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.AnswerPreCheckoutQuery(context.Background(), "pc1", ""))
	calls := fake.callsTo("answerPreCheckoutQuery")
	require.Len(t, calls, 1)
	assert.Equal(t, "pc1", calls[0].form.Get("pre_checkout_query_id"))
	assert.Equal(t, "true", calls[0].form.Get("ok"))
}

func TestRefreshWebhook(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.RefreshWebhook(context.Background(), "https://shop.example/", "s3cret"))

	assert.Len(t, fake.callsTo("deleteWebhook"), 1)
	set := fake.callsTo("setWebhook")
	require.Len(t, set, 1)
	assert.Equal(t, "https://shop.example/bot", set[0].form.Get("url"))
	assert.Equal(t, "s3cret", set[0].form.Get("secret_token"))
	assert.Contains(t, set[0].form.Get("allowed_updates"), "pre_checkout_query")
}

func TestRefreshWebhookWithoutSecret(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.RefreshWebhook(context.Background(), "https://shop.example", ""))
	set := fake.callsTo("setWebhook")
	require.Len(t, set, 1)
	_, sent := set[0].form["secret_token"]
	assert.False(t, sent)
}

func TestRefreshWebhookFailure(t *testing.T) {
	client, fake := newTestClient(t)
	fake.errors["setWebhook"] = "Bad Request: bad webhook"

	err := client.RefreshWebhook(context.Background(), "https://shop.example", "s3cret")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestRefreshWebhookPollingMode(t *testing.T) {
	client, fake := newTestClient(t)

	require.NoError(t, client.RefreshWebhook(context.Background(), "", ""))
	assert.Len(t, fake.callsTo("deleteWebhook"), 1)
	assert.Empty(t, fake.callsTo("setWebhook"))
}
