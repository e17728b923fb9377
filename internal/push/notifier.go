package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ckapps/quicknote/internal/store"
	"github.com/ckapps/quicknote/internal/websocket"
)

// Notifier delivers fired reminders: a web push to every registered endpoint
// plus a broadcast on the hub for clients with an open connection. Failures
// are swallowed after logging; expired endpoints are pruned.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewNotifier(svc *Service, subs *store.PushStore, hub *websocket.Hub, logger *slog.Logger) *Notifier {
	return &Notifier{service: svc, subs: subs, hub: hub, logger: logger}
}

// Notify implements reminder.Notifier.
func (n *Notifier) Notify(noteID int64, title, excerpt string) {
	if n.hub != nil {
		n.hub.Broadcast(websocket.NewMessage("reminder", "fired", noteID, map[string]any{
			"title":   title,
			"excerpt": excerpt,
		}))
	}

	if n.service == nil {
		// Push delivery not configured: the hub broadcast is all we can do.
		return
	}

	subs, err := n.subs.List()
	if err != nil {
		n.logger.Error("reminder: list subscriptions", "error", err)
		return
	}

	payload := Payload{
		Title:  title,
		Body:   excerpt,
		NoteID: noteID,
		Tag:    fmt.Sprintf("reminder-%d", noteID),
	}

	for _, sub := range subs {
		if err := n.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				n.subs.DeleteByEndpoint(sub.Endpoint)
				continue
			}
			n.logger.Error("reminder: send push", "error", err, "endpoint", sub.Endpoint)
		}
	}
}
