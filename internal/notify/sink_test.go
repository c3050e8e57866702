package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []int64
	failFor map[int64]error
	panicOn int64
}

func (s *recordingSender) SendText(_ context.Context, chatID int64, _ string) error {
	if s.panicOn != 0 && chatID == s.panicOn {
		panic("boom")
	}
	if err := s.failFor[chatID]; err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, chatID)
	s.mu.Unlock()
	return nil
}

func TestNotifyChannelThenAdmins(t *testing.T) {
	sender := &recordingSender{}
	sink := NewSink(sender, -100, []int64{1, 2}, nil, nil)

	sink.Notify(context.Background(), "hello")

	assert.Equal(t, []int64{-100, 1, 2}, sender.sent)
}

func TestNotifySkipsUnsetChannel(t *testing.T) {
	sender := &recordingSender{}
	NewSink(sender, 0, []int64{7}, nil, nil).Notify(context.Background(), "hello")
	assert.Equal(t, []int64{7}, sender.sent)
}

func TestNotifyOneFailureDoesNotBlockOthers(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]error{2: errors.New("blocked by user")}}
	sink := NewSink(sender, 0, []int64{1, 2, 3, 4}, nil, nil)

	sink.Notify(context.Background(), "paid")

	assert.Equal(t, []int64{1, 3, 4}, sender.sent)
}

func TestNotifyRecoversFromSenderPanic(t *testing.T) {
	sender := &recordingSender{panicOn: 1}
	sink := NewSink(sender, 0, []int64{1, 2}, nil, nil)

	assert.NotPanics(t, func() { sink.Notify(context.Background(), "paid") })
	assert.Equal(t, []int64{2}, sender.sent)
}

func TestNotifyWithLimiter(t *testing.T) {
	sender := &recordingSender{}
	sink := NewSink(sender, 5, []int64{1, 2}, NewLimiter(1000), nil)

	sink.Notify(context.Background(), "paid")

	assert.Equal(t, []int64{5, 1, 2}, sender.sent)
}

func TestNotifyCancelledContextSkipsThrottledSends(t *testing.T) {
	sender := &recordingSender{}
	sink := NewSink(sender, 0, []int64{1, 2}, NewLimiter(0.001), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() { sink.Notify(ctx, "paid") })
	assert.Empty(t, sender.sent)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-1))
	l := NewLimiter(0.5)
	if assert.NotNil(t, l) {
		assert.Equal(t, 1, l.Burst())
	}
}
