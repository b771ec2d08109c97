package services

import "context"

// Broadcaster receives committed state changes. hub.Hub implements it.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, interface{}) {}

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

type actorKey struct{}

// WithActor marks ctx with the authenticated principal performing the request.
func WithActor(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the principal stored by WithActor, nil for system work.
func ActorFrom(ctx context.Context) *uint {
	id, ok := ctx.Value(actorKey{}).(uint)
	if !ok {
		return nil
	}
	return &id
}
