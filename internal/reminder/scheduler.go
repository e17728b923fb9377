// Package reminder arms one-shot wake-ups for notes with a reminder
// timestamp. Delivery is best-effort: a failed notification is logged and
// never retried.
package reminder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ckapps/quicknote/internal/model"
)

// excerptLen caps the content preview included in a reminder alert.
const excerptLen = 50

// Notifier surfaces a fired reminder to the user.
type Notifier interface {
	Notify(noteID int64, title, excerpt string)
}

// Scheduler keeps at most one pending timer per note.
type Scheduler struct {
	mu       sync.Mutex
	timers   map[int64]*time.Timer
	notifier Notifier
	logger   *slog.Logger
}

func NewScheduler(notifier Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		timers:   make(map[int64]*time.Timer),
		notifier: notifier,
		logger:   logger,
	}
}

// Schedule arms a wake-up for the note's reminder timestamp, replacing any
// timer already pending for the same note. Notes without an identifier or a
// reminder are ignored. A past-due reminder fires immediately.
func (s *Scheduler) Schedule(note model.Note) {
	if note.ID == nil || note.Reminder == nil {
		return
	}
	id := *note.ID
	title := note.Title
	excerpt := excerpt(note.Content)
	delay := time.Until(time.UnixMilli(*note.Reminder))
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()

		s.logger.Info("reminder fired", "note_id", id)
		s.notifier.Notify(id, title, excerpt)
	})
}

// Cancel disarms any pending wake-up for the note.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Rearm schedules every note in the list that still carries a reminder.
// Called once at startup with the persisted reminders.
func (s *Scheduler) Rearm(notes []model.Note) {
	for _, n := range notes {
		s.Schedule(n)
	}
}

// Stop disarms all pending timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLen {
		return content
	}
	return string(runes[:excerptLen])
}
