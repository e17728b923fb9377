// Package screen holds the per-screen reconcilers. Each screen runs one
// goroutine that owns its state, consumes live snapshots and user events, and
// recomputes the visible note subset from that cache rather than re-querying
// the store.
package screen

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/noteview"
	"github.com/ckapps/quicknote/internal/service"
	"github.com/ckapps/quicknote/internal/store"
	"github.com/ckapps/quicknote/internal/websocket"
)

// HomeState is the materialized view the home screen renders.
type HomeState struct {
	Notes    []model.Note   `json:"notes"`
	Folders  []model.Folder `json:"folders"`
	Selected model.Folder   `json:"selected_folder"`
	SortKey  string         `json:"sort_key"`
	SortDir  string         `json:"sort_dir"`
	GridView bool           `json:"grid_view"`
}

// Home reconciles the notes and folders snapshots with the selected folder
// and the persisted sort order.
type Home struct {
	noteSvc  *service.NoteService
	settings *store.SettingsStore
	feeds    *live.Feeds
	hub      *websocket.Hub
	logger   *slog.Logger

	mu          sync.RWMutex
	state       HomeState
	all         []model.Note // latest full snapshot, replaced wholesale
	lastDeleted *model.Note  // single-slot undo buffer

	sortKey noteview.SortKey
	sortDir noteview.Direction

	events chan func()
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHome(noteSvc *service.NoteService, settings *store.SettingsStore, feeds *live.Feeds, hub *websocket.Hub, logger *slog.Logger) *Home {
	return &Home{
		noteSvc:  noteSvc,
		settings: settings,
		feeds:    feeds,
		hub:      hub,
		logger:   logger,
		sortKey:  noteview.SortByDate,
		sortDir:  noteview.Descending,
		state: HomeState{
			Selected: model.FolderAll(),
			SortKey:  noteview.SortByDate.String(),
			SortDir:  noteview.Descending.String(),
			GridView: true,
		},
		events: make(chan func(), 16),
	}
}

// Start subscribes to the live feeds and runs the reconcile loop until Stop.
func (h *Home) Start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	notesCh, cancelNotes := h.feeds.Notes.Subscribe()
	foldersCh, cancelFolders := h.feeds.Folders.Subscribe()
	settingsCh, cancelSettings := h.feeds.Settings.Subscribe()

	go func() {
		defer close(h.done)
		defer func() { cancelNotes() }()
		defer cancelFolders()
		defer cancelSettings()

		for {
			select {
			case <-ctx.Done():
				return
			case notes := <-notesCh:
				h.mu.Lock()
				h.all = notes
				h.recomputeLocked()
				h.mu.Unlock()
				h.announce()
			case folders := <-foldersCh:
				h.mu.Lock()
				h.applyFoldersLocked(folders)
				h.mu.Unlock()
				h.announce()
			case settings := <-settingsCh:
				h.mu.Lock()
				orderChanged := h.applySettingsLocked(settings)
				h.mu.Unlock()
				if orderChanged {
					// The running notes subscription serves the old order;
					// cancel it before opening the replacement so a late
					// snapshot cannot race the new one.
					cancelNotes()
					notesCh, cancelNotes = h.feeds.Notes.Subscribe()
				}
				h.announce()
			case fn := <-h.events:
				fn()
				h.announce()
			}
		}
	}()
}

// Stop cancels the screen's subscriptions and waits for the loop to exit.
func (h *Home) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.done != nil {
		<-h.done
	}
}

// State returns a copy of the current view state.
func (h *Home) State() HomeState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// SelectFolder switches the folder scope. Recomputation runs against the
// cached snapshot only.
func (h *Home) SelectFolder(folder model.Folder) {
	h.post(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.state.Selected = folder
		h.recomputeLocked()
	})
}

// SetSortOrder persists the new order; the change reaches every screen
// through the settings feed. A repeat of the current order is ignored.
func (h *Home) SetSortOrder(key noteview.SortKey, dir noteview.Direction) error {
	h.mu.RLock()
	unchanged := key == h.sortKey && dir == h.sortDir
	h.mu.RUnlock()
	if unchanged {
		return nil
	}
	if err := h.settings.SetSortOrder(key.String(), dir.String()); err != nil {
		return err
	}
	h.feeds.RefreshSettings()
	return nil
}

// ToggleView flips grid/list and persists the preference.
func (h *Home) ToggleView() error {
	h.mu.RLock()
	grid := h.state.GridView
	h.mu.RUnlock()

	mode := "grid"
	if grid {
		mode = "list"
	}
	if err := h.settings.Set(model.SettingViewMode, mode); err != nil {
		return err
	}
	h.feeds.RefreshSettings()
	return nil
}

// DeleteNote removes the note immediately (optimistic, no pending state) and
// retains the deleted value in the single undo slot. Each delete overwrites
// the previous candidate.
func (h *Home) DeleteNote(id int64) error {
	note, err := h.noteSvc.Get(id)
	if err != nil || note == nil {
		return err
	}
	if err := h.noteSvc.Delete(*note); err != nil {
		return err
	}
	h.mu.Lock()
	h.lastDeleted = note
	h.mu.Unlock()
	return nil
}

// RestoreNote re-persists the most recently deleted note, if any, and clears
// the slot.
func (h *Home) RestoreNote() error {
	h.mu.Lock()
	note := h.lastDeleted
	h.lastDeleted = nil
	h.mu.Unlock()

	if note == nil {
		return nil
	}
	_, err := h.noteSvc.Save(*note)
	return err
}

func (h *Home) post(fn func()) {
	select {
	case h.events <- fn:
	default:
		// Queue full. The state mutex makes inline execution safe, and user
		// input must not be dropped.
		fn()
	}
}

// applyFoldersLocked rebuilds the rendered folder list as
// [All] + stored + [Archive] and falls the selection back to All when the
// selected real folder no longer exists.
func (h *Home) applyFoldersLocked(folders []model.Folder) {
	rendered := make([]model.Folder, 0, len(folders)+2)
	rendered = append(rendered, model.FolderAll())
	rendered = append(rendered, folders...)
	rendered = append(rendered, model.FolderArchive())
	h.state.Folders = rendered

	sel := h.state.Selected
	if sel.ID != nil && *sel.ID > 0 {
		found := false
		for _, f := range folders {
			if f.ID != nil && *f.ID == *sel.ID {
				found = true
				break
			}
		}
		if !found {
			h.state.Selected = model.FolderAll()
		}
	}
	h.recomputeLocked()
}

func (h *Home) applySettingsLocked(settings map[string]string) (orderChanged bool) {
	key := noteview.ParseSortKey(settings[model.SettingSortKey])
	dir := noteview.ParseDirection(settings[model.SettingSortDir])
	if key != h.sortKey || dir != h.sortDir {
		h.sortKey = key
		h.sortDir = dir
		h.state.SortKey = key.String()
		h.state.SortDir = dir.String()
		orderChanged = true
	}
	h.state.GridView = settings[model.SettingViewMode] != "list"
	h.recomputeLocked()
	return orderChanged
}

// recomputeLocked re-derives the visible subset from the cached snapshot.
func (h *Home) recomputeLocked() {
	selected := model.FolderAllID
	if h.state.Selected.ID != nil {
		selected = *h.state.Selected.ID
	}
	scoped := noteview.Scope(h.all, selected)
	h.state.Notes = noteview.Order(scoped, h.sortKey, h.sortDir)
}

func (h *Home) announce() {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("screen", "updated", 0, map[string]any{"screen": "home"}))
	}
}
