package notify

import (
	"log/slog"

	"github.com/rfoley/lodestar/internal/model"
	"github.com/rfoley/lodestar/internal/push"
	"github.com/rfoley/lodestar/internal/store"
)

// Toaster shows a short-lived in-app message to connected clients. Delivery
// is best effort; implementations must not block.
type Toaster interface {
	Toast(title, body, link string)
}

// Pusher delivers a native notification to the user's devices. Implementations
// never return errors; failures stay inside the sink.
type Pusher interface {
	Notify(p push.Payload)
}

// Notifier fans a qualifying event out to the three sinks: the durable
// notification center, an ephemeral toast, and native push. Sinks are
// independent; a failure in one never rolls back another.
type Notifier struct {
	store  *store.NotificationStore
	toast  Toaster
	pusher Pusher
	logger *slog.Logger
}

func NewNotifier(ns *store.NotificationStore, toast Toaster, pusher Pusher, logger *slog.Logger) *Notifier {
	return &Notifier{store: ns, toast: toast, pusher: pusher, logger: logger}
}

// Emit applies the suppression rules and, if the event qualifies, appends a
// notification-center entry, shows a toast, and sends a native push when
// browser notifications are also enabled. The category flag gates all three
// sinks; the browser flag additionally gates only the last.
func (n *Notifier) Emit(prefs model.Preferences, ev Event) {
	if !prefs.Allows(ev.Type) {
		return
	}

	rec := &model.Notification{
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
		Link:    ev.Link,
	}
	if err := n.store.Append(rec); err != nil {
		n.logger.Error("append notification", "type", ev.Type, "error", err)
	}

	if n.toast != nil {
		n.toast.Toast(ev.Title, ev.Message, ev.Link)
	}

	if prefs.Browser && n.pusher != nil {
		n.pusher.Notify(push.Payload{
			Title: ev.Title,
			Body:  ev.Message,
			URL:   ev.Link,
			Tag:   ev.Tag,
		})
	}
}
