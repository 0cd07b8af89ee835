package push

import (
	"errors"
	"log/slog"

	"github.com/rfoley/lodestar/internal/store"
)

// Bridge delivers payloads to every registered device. It is strictly best
// effort: failures are logged and swallowed, and when push is not configured
// at all every call is a no-op. Callers never see an error from it.
type Bridge struct {
	service *Service
	store   *store.PushStore
	logger  *slog.Logger
}

// NewBridge creates a bridge. A nil service means VAPID keys were not
// configured; the bridge then reports itself disabled and sends nothing.
func NewBridge(service *Service, pushStore *store.PushStore, logger *slog.Logger) *Bridge {
	return &Bridge{service: service, store: pushStore, logger: logger}
}

// Enabled reports whether native delivery is possible at all.
func (b *Bridge) Enabled() bool {
	return b != nil && b.service != nil
}

// Notify sends the payload to every subscription. Subscriptions the push
// service reports as gone are pruned as they are discovered.
func (b *Bridge) Notify(p Payload) {
	if !b.Enabled() {
		return
	}

	subs, err := b.store.List()
	if err != nil {
		b.logger.Error("list push subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if err := b.service.Send(&sub, p); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := b.store.DeleteByEndpoint(sub.Endpoint); err != nil {
					b.logger.Error("prune expired subscription", "error", err)
				}
				continue
			}
			b.logger.Error("send push", "device", sub.DeviceName, "error", err)
		}
	}
}
