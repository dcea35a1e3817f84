package services

import (
	"context"

	"github.com/IsaacCheng9/student-network-backend/internal/realtime"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime/bus"
	"github.com/IsaacCheng9/student-network-backend/internal/sse"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

// HubEmitter delivers to clients on this instance only.
type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter publishes to the shared bus so clients connected to any
// instance receive the message. Delivery is fire-and-forget.
type RedisEmitter struct{ Bus bus.Bus }

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
