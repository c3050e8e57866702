package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/invoice"
)

type authenticator interface {
	Validate(raw string) error
}

type orderStore interface {
	Put(ctx context.Context, id string, order domain.DraftOrder) error
}

// Gateway issues pay links for composed invoices.
type Gateway interface {
	CreateInvoiceLink(ctx context.Context, req domain.InvoiceLinkRequest) (string, error)
}

type Options struct {
	ShopName        string
	DefaultCurrency string
}

type Service struct {
	auth     authenticator
	composer *invoice.Composer
	store    orderStore
	gateway  Gateway
	opts     Options
	logger   *log.Logger

	now   func() time.Time
	newID func() string
}

func New(auth authenticator, composer *invoice.Composer, store orderStore, gateway Gateway, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if composer == nil {
		composer = invoice.NewComposer(invoice.DefaultScale)
	}
	return &Service{
		auth:     auth,
		composer: composer,
		store:    store,
		gateway:  gateway,
		opts:     opts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    NewOrderID,
	}
}

// PlaceInput is a checkout request from the Mini App.
type PlaceInput struct {
	InitData string
	Items    []domain.CartItem
	Form     domain.BuyerForm
	Currency string
}

type Placed struct {
	InvoiceURL string `json:"invoiceUrl"`
	OrderID    string `json:"orderId"`
}

// Authenticate checks the Mini App init data without touching the cart.
func (s *Service) Authenticate(initData string) error {
	return s.auth.Validate(initData)
}

// Place authenticates the buyer, stores a draft order and returns a pay link
// whose payload is the draft's id. A draft whose link could not be issued is
// left in the store.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*Placed, error) {
	if err := s.auth.Validate(in.InitData); err != nil {
		return nil, err
	}

	inv, err := s.composer.Compose(in.Items)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency required", domain.ErrValidation)
	}

	id := s.newID()
	draft := domain.DraftOrder{
		ID:         id,
		CreatedAt:  s.now(),
		Lines:      inv.Lines,
		Form:       trimForm(in.Form),
		Currency:   currency,
		TotalMinor: inv.TotalMinor,
	}
	if err := s.store.Put(ctx, id, draft); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	s.logger.Printf("order: draft stored order_id=%s lines=%d total=%d currency=%s", id, len(draft.Lines), draft.TotalMinor, currency)

	link, err := s.gateway.CreateInvoiceLink(ctx, domain.InvoiceLinkRequest{
		Title:               "Order",
		Description:         fmt.Sprintf("Payment for order in %s", s.opts.ShopName),
		Payload:             id,
		Currency:            currency,
		Prices:              inv.Prices,
		NeedName:            true,
		NeedPhoneNumber:     true,
		NeedShippingAddress: true,
	})
	if err != nil {
		s.logger.Printf("order: create invoice link order_id=%s error=%v", id, err)
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		return nil, err
	}

	return &Placed{InvoiceURL: link, OrderID: id}, nil
}

// NewOrderID returns a random UUID as 32 lowercase hex characters.
func NewOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func trimForm(f domain.BuyerForm) domain.BuyerForm {
	return domain.BuyerForm{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		City:    strings.TrimSpace(f.City),
		Address: strings.TrimSpace(f.Address),
	}
}
