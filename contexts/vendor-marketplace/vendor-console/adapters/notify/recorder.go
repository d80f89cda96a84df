package notify

import (
	"context"
	"sync"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
)

// Recorder keeps notifications in memory. It is used by tests and by
// callers that render notifications themselves.
type Recorder struct {
	mu    sync.Mutex
	items []entities.Notification
}

func (r *Recorder) Notify(_ context.Context, notification entities.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, notification)
}

func (r *Recorder) Notifications() []entities.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Notification(nil), r.items...)
}

// Fanout delivers each notification to every notifier in order.
type Fanout []interface {
	Notify(ctx context.Context, notification entities.Notification)
}

func (f Fanout) Notify(ctx context.Context, notification entities.Notification) {
	for _, n := range f {
		n.Notify(ctx, notification)
	}
}
