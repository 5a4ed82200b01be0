package bus

import (
	"context"
	"sync"

	"github.com/aulahub/aulahub-backend/internal/realtime"
)

// localBus is the single-instance bus used when Redis is not configured:
// publishes loop straight back into the forwarder callback.
type localBus struct {
	mu    sync.RWMutex
	onMsg func(m realtime.Message)
}

func NewLocalBus() Bus {
	return &localBus{}
}

func (b *localBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.RLock()
	onMsg := b.onMsg
	b.mu.RUnlock()
	if onMsg != nil {
		onMsg(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(_ context.Context, onMsg func(m realtime.Message)) error {
	b.mu.Lock()
	b.onMsg = onMsg
	b.mu.Unlock()
	return nil
}

func (b *localBus) Close() error { return nil }
