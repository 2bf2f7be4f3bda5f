package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// MemoryBus is an in-process bus. Messages are lost on restart.
type MemoryBus struct {
	*gochannel.GoChannel
}

// NewMemoryBus returns a bus that delivers to every subscriber of a topic.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
	}
}

var _ EventBus = (*MemoryBus)(nil)
