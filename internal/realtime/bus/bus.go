// Package bus moves realtime messages between instances. Each instance
// forwards everything it receives into its local SSE hub; the hub decides
// whether any live client cares.
package bus

import (
	"context"

	"github.com/aulahub/aulahub-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
