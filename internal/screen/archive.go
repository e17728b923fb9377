package screen

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/noteview"
	"github.com/ckapps/quicknote/internal/websocket"
)

// ArchiveState is the materialized view of the archive screen: archived notes
// only, newest first.
type ArchiveState struct {
	Notes []model.Note `json:"notes"`
}

// Archive shows the archived subset with a fixed date-descending order.
type Archive struct {
	feeds  *live.Feeds
	hub    *websocket.Hub
	logger *slog.Logger

	mu    sync.RWMutex
	state ArchiveState

	cancel context.CancelFunc
	done   chan struct{}
}

func NewArchive(feeds *live.Feeds, hub *websocket.Hub, logger *slog.Logger) *Archive {
	return &Archive{feeds: feeds, hub: hub, logger: logger}
}

func (a *Archive) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})

	notesCh, cancelNotes := a.feeds.Notes.Subscribe()

	go func() {
		defer close(a.done)
		defer cancelNotes()

		for {
			select {
			case <-ctx.Done():
				return
			case notes := <-notesCh:
				scoped := noteview.Scope(notes, model.FolderArchiveID)
				ordered := noteview.Order(scoped, noteview.SortByDate, noteview.Descending)

				a.mu.Lock()
				a.state.Notes = ordered
				a.mu.Unlock()

				if a.hub != nil {
					a.hub.Broadcast(websocket.NewMessage("screen", "updated", 0, map[string]any{"screen": "archive"}))
				}
			}
		}
	}()
}

func (a *Archive) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.done != nil {
		<-a.done
	}
}

func (a *Archive) State() ArchiveState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}
