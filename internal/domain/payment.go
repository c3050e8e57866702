package domain

// Payer identifies the Telegram user who completed a payment.
type Payer struct {
	ID        int64
	Username  string
	FirstName string
}

// ShippingAddress is the address collected by Telegram during checkout.
type ShippingAddress struct {
	CountryCode string
	State       string
	City        string
	StreetLine1 string
	StreetLine2 string
	PostCode    string
}

// OrderInfo holds buyer fields collected by Telegram. Every field may be empty.
type OrderInfo struct {
	Name            string
	PhoneNumber     string
	Email           string
	ShippingAddress *ShippingAddress
}

// PaymentConfirmation is a successful payment reported by the bot transport.
// Payload is the draft order id round-tripped through the invoice and may be
// empty or stale. OrderInfo is nil when Telegram collected nothing.
type PaymentConfirmation struct {
	ChatID                  int64
	Payer                   Payer
	Currency                string
	TotalAmount             int64
	Payload                 string
	OrderInfo               *OrderInfo
	TelegramPaymentChargeID string
	ProviderPaymentChargeID string
}
