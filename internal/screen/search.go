package screen

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/noteview"
	"github.com/ckapps/quicknote/internal/websocket"
)

// queryDebounce is the quiet period after the last keystroke before the
// search recomputes. Facet toggles are not debounced.
const queryDebounce = 300 * time.Millisecond

// SearchState is the materialized view of the search screen.
type SearchState struct {
	Query      string       `json:"query"`
	PinnedOnly bool         `json:"pinned_only"`
	ImageOnly  bool         `json:"image_only"`
	Notes      []model.Note `json:"notes"`
}

type searchEvent struct {
	fn       func()
	debounce bool
}

// Search filters the cached snapshot by a debounced text query plus two
// facets. With no query and no facets the result is empty.
type Search struct {
	feeds  *live.Feeds
	hub    *websocket.Hub
	logger *slog.Logger

	mu    sync.RWMutex
	state SearchState
	all   []model.Note

	events chan searchEvent
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSearch(feeds *live.Feeds, hub *websocket.Hub, logger *slog.Logger) *Search {
	return &Search{
		feeds:  feeds,
		hub:    hub,
		logger: logger,
		events: make(chan searchEvent, 16),
	}
}

func (s *Search) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	notesCh, cancelNotes := s.feeds.Notes.Subscribe()

	go func() {
		defer close(s.done)
		defer cancelNotes()

		debounce := time.NewTimer(queryDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case notes := <-notesCh:
				s.mu.Lock()
				s.all = notes
				s.recomputeLocked()
				s.mu.Unlock()
				s.announce()
			case <-debounce.C:
				s.mu.Lock()
				s.recomputeLocked()
				s.mu.Unlock()
				s.announce()
			case ev := <-s.events:
				ev.fn()
				if ev.debounce {
					// New keystroke: restart the quiet period.
					if !debounce.Stop() {
						select {
						case <-debounce.C:
						default:
						}
					}
					debounce.Reset(queryDebounce)
				}
			}
		}
	}()
}

func (s *Search) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *Search) State() SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetQuery records the new text query. The result recomputes only after the
// debounce window; the query text itself updates immediately.
func (s *Search) SetQuery(query string) {
	s.post(searchEvent{
		fn: func() {
			s.mu.Lock()
			s.state.Query = query
			s.mu.Unlock()
		},
		debounce: true,
	})
}

// TogglePinnedOnly flips the pinned facet and recomputes immediately.
func (s *Search) TogglePinnedOnly() {
	s.post(searchEvent{fn: func() {
		s.mu.Lock()
		s.state.PinnedOnly = !s.state.PinnedOnly
		s.recomputeLocked()
		s.mu.Unlock()
		s.announce()
	}})
}

// ToggleImageOnly flips the has-image facet and recomputes immediately.
func (s *Search) ToggleImageOnly() {
	s.post(searchEvent{fn: func() {
		s.mu.Lock()
		s.state.ImageOnly = !s.state.ImageOnly
		s.recomputeLocked()
		s.mu.Unlock()
		s.announce()
	}})
}

func (s *Search) post(ev searchEvent) {
	select {
	case s.events <- ev:
	default:
		// Queue full. Run inline rather than drop user input; a debounce
		// restart that lands inline only means the previous window applies.
		ev.fn()
	}
}

func (s *Search) recomputeLocked() {
	s.state.Notes = noteview.Search(s.all, s.state.Query, s.state.PinnedOnly, s.state.ImageOnly)
}

func (s *Search) announce() {
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewMessage("screen", "updated", 0, map[string]any{"screen": "search"}))
	}
}
