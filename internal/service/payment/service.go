package payment

import (
	"context"
	"errors"
	"io"
	"log"

	"miniapp-shop/internal/domain"
	"miniapp-shop/internal/invoice"
)

type orderStore interface {
	Pop(ctx context.Context, id string) (*domain.DraftOrder, error)
}

type notifier interface {
	Notify(ctx context.Context, text string)
}

type messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Service reconciles successful payments with their draft orders. A draft is
// removed when claimed, so a redelivered confirmation degrades to the
// "details unavailable" notices instead of repeating the cart.
type Service struct {
	store     orderStore
	notifier  notifier
	messenger messenger
	format    formatter
	logger    *log.Logger
}

func New(store orderStore, notifier notifier, messenger messenger, scale int64, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if scale <= 0 {
		scale = invoice.DefaultScale
	}
	return &Service{
		store:     store,
		notifier:  notifier,
		messenger: messenger,
		format:    formatter{scale: scale},
		logger:    logger,
	}
}

// HandleSuccessfulPayment notifies admins and thanks the buyer. The payment
// is already captured, so it never fails: a missing draft or an unreachable
// chat only degrades the messages.
func (s *Service) HandleSuccessfulPayment(ctx context.Context, p domain.PaymentConfirmation) {
	order := s.claim(ctx, p.Payload)

	currency := p.Currency
	if currency == "" && order != nil {
		currency = order.Currency
	}
	if order != nil && order.LinesTotalMinor() != p.TotalAmount {
		s.logger.Printf("payment: total mismatch order_id=%s billed=%d paid=%d", order.ID, order.LinesTotalMinor(), p.TotalAmount)
	}

	s.notifier.Notify(ctx, s.format.adminText(p, order, currency))

	if p.ChatID == 0 {
		s.logger.Printf("payment: no chat to send receipt order_id=%q", p.Payload)
		return
	}
	receipt := s.format.customerText(customerName(p, order), s.format.cartBlock(order, currency))
	if err := s.messenger.SendText(ctx, p.ChatID, receipt); err != nil {
		s.logger.Printf("payment: send receipt chat_id=%d order_id=%q error=%v", p.ChatID, p.Payload, err)
	}
}

func (s *Service) claim(ctx context.Context, orderID string) *domain.DraftOrder {
	if orderID == "" {
		s.logger.Printf("payment: confirmation without payload")
		return nil
	}
	order, err := s.store.Pop(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("payment: draft not found order_id=%s", orderID)
		} else {
			s.logger.Printf("payment: pop draft order_id=%s error=%v", orderID, err)
		}
		return nil
	}
	s.logger.Printf("payment: claimed order_id=%s lines=%d", orderID, len(order.Lines))
	return order
}
