package outbound

import "context"

type Unmounter interface {
	Unmount()
}

// ViewStore holds live per-session views. Implementations unmount a view
// when they drop it.
type ViewStore[V Unmounter] interface {
	Get(ctx context.Context, sessionID string) (V, bool)
	Set(ctx context.Context, sessionID string, view V)
	Delete(ctx context.Context, sessionID string)
	Len(ctx context.Context) int
}
