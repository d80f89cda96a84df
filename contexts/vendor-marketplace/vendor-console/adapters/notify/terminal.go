package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
)

// Terminal prints notifications for an operator at a shell.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (n *Terminal) Notify(_ context.Context, notification entities.Notification) {
	marker := "ok"
	if notification.Variant == entities.VariantDestructive {
		marker = "erro"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[%s] %s\n", marker, notification.Title)
	if notification.Description != "" {
		fmt.Fprintf(n.out, "     %s\n", notification.Description)
	}
}
