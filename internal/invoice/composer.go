// Package invoice prices carts in the payment gateway's minor currency unit.
package invoice

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"miniapp-shop/internal/domain"
)

const DefaultScale int64 = 100

// MaxTotalMinor caps a single line and a whole order in minor units. It keeps
// every amount within the gateway's 32-bit price fields.
const MaxTotalMinor int64 = math.MaxInt32

// Composer turns submitted carts into gateway line items and compact order lines.
type Composer struct {
	scale decimal.Decimal
	raw   int64
}

// NewComposer builds a Composer that multiplies display prices by scale.
// Non-positive scales fall back to DefaultScale.
func NewComposer(scale int64) *Composer {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Composer{scale: decimal.NewFromInt(scale), raw: scale}
}

func (c *Composer) Scale() int64 {
	return c.raw
}

// Invoice is the priced form of a cart.
type Invoice struct {
	Prices     []domain.PricedLine
	Lines      []domain.OrderLine
	TotalMinor int64
}

// Compose prices items in order. The total is the exact sum of line amounts.
// Lines or totals above MaxTotalMinor, and priced carts that truncate to
// zero, are rejected with domain.ErrValidation.
func (c *Composer) Compose(items []domain.CartItem) (*Invoice, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	out := &Invoice{
		Prices: make([]domain.PricedLine, 0, len(items)),
		Lines:  make([]domain.OrderLine, 0, len(items)),
	}
	limit := decimal.NewFromInt(MaxTotalMinor)
	total := decimal.Zero
	priced := false
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", domain.ErrValidation, i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has negative price", domain.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", domain.ErrValidation, i)
		}
		variant := strings.TrimSpace(item.Variant)
		if item.UnitPrice.IsPositive() {
			priced = true
		}

		priceMinor := item.UnitPrice.Mul(c.scale).Truncate(0)
		amount := priceMinor.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if amount.GreaterThan(limit) {
			return nil, fmt.Errorf("%w: item %d amount exceeds %d", domain.ErrValidation, i, MaxTotalMinor)
		}
		total = total.Add(amount)
		if total.GreaterThan(limit) {
			return nil, fmt.Errorf("%w: order total exceeds %d", domain.ErrValidation, MaxTotalMinor)
		}

		out.Prices = append(out.Prices, domain.PricedLine{
			Label:  Label(name, variant, item.Quantity),
			Amount: amount.IntPart(),
		})
		out.Lines = append(out.Lines, domain.OrderLine{
			Name:       name,
			Variant:    variant,
			Quantity:   item.Quantity,
			Price:      item.UnitPrice,
			PriceMinor: priceMinor.IntPart(),
		})
	}
	if priced && !total.IsPositive() {
		return nil, fmt.Errorf("%w: priced cart rounds to a zero total", domain.ErrValidation)
	}
	out.TotalMinor = total.IntPart()
	return out, nil
}

// Label renders "name (variant) xN", dropping the variant when empty.
func Label(name, variant string, qty int) string {
	if variant == "" {
		return fmt.Sprintf("%s x%d", name, qty)
	}
	return fmt.Sprintf("%s (%s) x%d", name, variant, qty)
}

// FormatMinor renders a minor-unit amount in display units with two decimals.
func FormatMinor(minor, scale int64) string {
	if scale <= 0 {
		scale = DefaultScale
	}
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(scale)).StringFixed(2)
}
