// Package notify fans admin messages out to the order channel and admin chats.
package notify

import (
	"context"
	"io"
	"log"

	"golang.org/x/time/rate"
)

// Sender delivers a text message to a single Telegram chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Sink delivers every message to the configured channel and each admin
// independently. Delivery is best effort: failures are logged and dropped.
type Sink struct {
	sender    Sender
	channelID int64
	adminIDs  []int64
	limiter   *rate.Limiter
	logger    *log.Logger
}

// NewSink builds a Sink. A zero channelID disables the channel; a nil limiter
// disables outbound throttling.
func NewSink(sender Sender, channelID int64, adminIDs []int64, limiter *rate.Limiter, logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sink{
		sender:    sender,
		channelID: channelID,
		adminIDs:  append([]int64(nil), adminIDs...),
		limiter:   limiter,
		logger:    logger,
	}
}

// NewLimiter returns a limiter allowing perSecond messages, or nil when
// perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Notify never fails; it reports nothing back to the caller.
func (s *Sink) Notify(ctx context.Context, text string) {
	var delivered, failed int
	for _, chatID := range s.recipients() {
		if err := s.deliver(ctx, chatID, text); err != nil {
			failed++
			s.logger.Printf("notify: chat_id=%d error=%v", chatID, err)
			continue
		}
		delivered++
	}
	s.logger.Printf("notify: delivered=%d failed=%d", delivered, failed)
}

func (s *Sink) recipients() []int64 {
	out := make([]int64, 0, len(s.adminIDs)+1)
	if s.channelID != 0 {
		out = append(out, s.channelID)
	}
	return append(out, s.adminIDs...)
}

func (s *Sink) deliver(ctx context.Context, chatID int64, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("notify: chat_id=%d panic=%v", chatID, r)
			err = errPanic
		}
	}()
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return s.sender.SendText(ctx, chatID, text)
}
