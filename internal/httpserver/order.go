package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"miniapp-shop/internal/domain"
	ordersvc "miniapp-shop/internal/service/order"
)

// authEnvelope reads only _auth so a forged request is refused before the
// rest of the payload is looked at.
type authEnvelope struct {
	Auth string `json:"_auth"`
}

type orderRequest struct {
	Auth      string            `json:"_auth"`
	CartItems []cartItemRequest `json:"cartItems"`
	Form      *domain.BuyerForm `json:"form"`
	Currency  string            `json:"currency"`
}

type cartItemRequest struct {
	Name     string          `json:"name"`
	CafeItem *namedRequest   `json:"cafeItem"`
	Variant  *variantRequest `json:"variant"`
	Quantity *int            `json:"quantity"`
}

type namedRequest struct {
	Name string `json:"name"`
}

type variantRequest struct {
	Name string           `json:"name"`
	Cost *decimal.Decimal `json:"cost"`
}

// toCartItem normalizes the Mini App's item shape. A flat name wins over
// cafeItem.name; missing cost is free and missing quantity means one.
func (r cartItemRequest) toCartItem() domain.CartItem {
	item := domain.CartItem{Name: r.Name, Quantity: 1}
	if item.Name == "" && r.CafeItem != nil {
		item.Name = r.CafeItem.Name
	}
	if r.Variant != nil {
		item.Variant = r.Variant.Name
		if r.Variant.Cost != nil {
			item.UnitPrice = *r.Variant.Cost
		}
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	return item
}

func (r orderRequest) toPlaceInput() ordersvc.PlaceInput {
	in := ordersvc.PlaceInput{
		InitData: r.Auth,
		Items:    make([]domain.CartItem, 0, len(r.CartItems)),
		Currency: r.Currency,
	}
	for _, it := range r.CartItems {
		in.Items = append(in.Items, it.toCartItem())
	}
	if r.Form != nil {
		in.Form = *r.Form
	}
	return in
}

func orderHandler(svc orderService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			writeError(c, http.StatusBadRequest, "Invalid order payload.")
			return
		}

		var env authEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				writeError(c, http.StatusBadRequest, "Invalid order payload.")
				return
			}
		}
		if env.Auth == "" {
			writeError(c, http.StatusUnauthorized, "Request data should contain valid auth data.")
			return
		}
		if err := svc.Authenticate(env.Auth); err != nil {
			status, msg := orderErrorStatus(err)
			if status != http.StatusUnauthorized {
				logger.Printf("order: authenticate error=%v", err)
			}
			writeError(c, status, msg)
			return
		}

		var req orderRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			writeError(c, http.StatusBadRequest, "Invalid order payload.")
			return
		}
		if len(req.CartItems) == 0 {
			writeError(c, http.StatusBadRequest, "Cart Items are not provided.")
			return
		}

		placed, err := svc.Place(c.Request.Context(), req.toPlaceInput())
		if err != nil {
			status, msg := orderErrorStatus(err)
			if status >= http.StatusInternalServerError {
				logger.Printf("order: place error=%v", err)
			}
			writeError(c, status, msg)
			return
		}
		c.JSON(http.StatusOK, placed)
	}
}

func orderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Request data should contain valid auth data."
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway, "Could not create the payment link."
	default:
		return http.StatusInternalServerError, "Could not save the order."
	}
}
