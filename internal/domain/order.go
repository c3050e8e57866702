package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a single line of a cart as submitted by the Mini App.
type CartItem struct {
	Name      string
	Variant   string
	UnitPrice decimal.Decimal
	Quantity  int
}

// OrderLine is the compact cart line persisted with a draft order.
type OrderLine struct {
	Name       string          `json:"name"`
	Variant    string          `json:"variant,omitempty"`
	Quantity   int             `json:"qty"`
	Price      decimal.Decimal `json:"price"`
	PriceMinor int64           `json:"priceMinor"`
}

// TotalMinor returns the line total in minor currency units.
func (l OrderLine) TotalMinor() int64 {
	return l.PriceMinor * int64(l.Quantity)
}

// BuyerForm carries optional buyer fields entered in the Mini App.
type BuyerForm struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	City    string `json:"city,omitempty"`
	Address string `json:"address,omitempty"`
}

// DraftOrder is a cart persisted at intake and claimed on payment confirmation.
type DraftOrder struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"createdAt"`
	Lines      []OrderLine `json:"cart"`
	Form       BuyerForm   `json:"form"`
	Currency   string      `json:"currency"`
	TotalMinor int64       `json:"totalMinor"`
}

// LinesTotalMinor sums line totals in minor units.
func (o DraftOrder) LinesTotalMinor() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.TotalMinor()
	}
	return total
}

// PricedLine is a labeled amount billed to the payment gateway.
type PricedLine struct {
	Label  string
	Amount int64
}

// InvoiceLinkRequest describes an invoice link to be created by the bot.
type InvoiceLinkRequest struct {
	Title               string
	Description         string
	Payload             string
	Currency            string
	Prices              []PricedLine
	NeedName            bool
	NeedPhoneNumber     bool
	NeedShippingAddress bool
}
