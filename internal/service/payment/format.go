package payment

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/invoice"
)

const (
	placeholder         = "—"
	detailsUnavailable  = "*Order details unavailable.*"
	defaultCustomerName = "customer"
)

// formatter renders Telegram Markdown messages for a confirmed payment.
type formatter struct {
	scale int64
}

func (f formatter) money(minor int64, currency string) string {
	return strings.TrimSpace(invoice.FormatMinor(minor, f.scale) + " " + currency)
}

// cartBlock lists the draft's lines and total, or a placeholder when the
// draft could not be recovered.
func (f formatter) cartBlock(order *domain.DraftOrder, currency string) string {
	if order == nil {
		return detailsUnavailable
	}
	lines := []string{"*Order:*"}
	var total int64
	for _, l := range order.Lines {
		lineTotal := l.TotalMinor()
		total += lineTotal
		title := escape(l.Name)
		if l.Variant != "" {
			title += " (" + escape(l.Variant) + ")"
		}
		lines = append(lines, fmt.Sprintf("• %s × %d — %s", title, l.Quantity, f.money(lineTotal, currency)))
	}
	lines = append(lines, "", fmt.Sprintf("*Total:* %s", f.money(total, currency)))
	return strings.Join(lines, "\n")
}

func (f formatter) adminText(p domain.PaymentConfirmation, order *domain.DraftOrder, currency string) string {
	info := p.OrderInfo
	if info == nil {
		info = &domain.OrderInfo{}
	}
	lines := []string{
		"✅ *New paid order*",
		fmt.Sprintf("Amount: *%s*", f.money(p.TotalAmount, currency)),
		fmt.Sprintf("Buyer: %s", escape(buyerHandle(p.Payer))),
		fmt.Sprintf("Name (TG): %s", orPlaceholder(escape(info.Name))),
		fmt.Sprintf("Phone (TG): %s", orPlaceholder(escape(info.PhoneNumber))),
		fmt.Sprintf("Address (TG): %s", orPlaceholder(escape(formatAddress(info.ShippingAddress)))),
	}
	if info.Email != "" {
		lines = append(lines, fmt.Sprintf("Email (TG): %s", escape(info.Email)))
	}
	if order != nil {
		if form := formLines(order.Form); len(form) > 0 {
			lines = append(lines, form...)
		}
	}
	lines = append(lines,
		fmt.Sprintf("Order ID (payload): `%s`", orPlaceholder(codeSafe(p.Payload))),
		fmt.Sprintf("Charge ID (TG): `%s`", orPlaceholder(codeSafe(p.TelegramPaymentChargeID))),
		fmt.Sprintf("Charge ID (Provider): `%s`", orPlaceholder(codeSafe(p.ProviderPaymentChargeID))),
		"",
		f.cartBlock(order, currency),
	)
	return strings.Join(lines, "\n")
}

func (f formatter) customerText(name, cart string) string {
	return fmt.Sprintf("Thank you for your order, *%s*. 🙏🏻\n\n%s\n\nWe will contact you shortly. 🌷", escape(name), cart)
}

// customerName prefers the Mini App form, then Telegram checkout data, then
// the Telegram profile.
func customerName(p domain.PaymentConfirmation, order *domain.DraftOrder) string {
	if order != nil {
		if n := strings.TrimSpace(order.Form.Name); n != "" {
			return n
		}
	}
	if p.OrderInfo != nil {
		if n := strings.TrimSpace(p.OrderInfo.Name); n != "" {
			return n
		}
	}
	if n := strings.TrimSpace(p.Payer.FirstName); n != "" {
		return n
	}
	if p.Payer.Username != "" {
		return "@" + p.Payer.Username
	}
	return defaultCustomerName
}

func buyerHandle(p domain.Payer) string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return fmt.Sprintf("id:%d", p.ID)
}

func formatAddress(a *domain.ShippingAddress) string {
	if a == nil {
		return ""
	}
	var parts []string
	for _, v := range []string{a.CountryCode, a.State, a.City, a.StreetLine1, a.StreetLine2, a.PostCode} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func formLines(form domain.BuyerForm) []string {
	var out []string
	if form.Name != "" {
		out = append(out, "Name (form): "+escape(form.Name))
	}
	if form.Phone != "" {
		out = append(out, "Phone (form): "+escape(form.Phone))
	}
	addr := strings.TrimSpace(strings.Join(nonEmpty(form.City, form.Address), ", "))
	if addr != "" {
		out = append(out, "Address (form): "+escape(addr))
	}
	return out
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// codeSafe strips backticks so a value cannot close its code span.
func codeSafe(s string) string {
	return strings.ReplaceAll(s, "`", "")
}
