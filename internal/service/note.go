// Package service holds the use-case layer between handlers/screens and the
// stores: validation, the empty-note discard rule, reminder wiring, and
// snapshot refreshes after every mutation.
package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/reminder"
	"github.com/ckapps/quicknote/internal/store"
	"github.com/ckapps/quicknote/internal/websocket"
)

// UntitledPlaceholder replaces a blank title when the note has other content.
const UntitledPlaceholder = "Untitled"

type NoteService struct {
	notes     *store.NoteStore
	feeds     *live.Feeds
	reminders *reminder.Scheduler
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewNoteService(notes *store.NoteStore, feeds *live.Feeds, reminders *reminder.Scheduler, hub *websocket.Hub, logger *slog.Logger) *NoteService {
	return &NoteService{
		notes:     notes,
		feeds:     feeds,
		reminders: reminders,
		hub:       hub,
		logger:    logger,
	}
}

// Save persists the note, applying the substitution rules first: a blank
// title becomes "Untitled", blank content becomes a single space. A note that
// is empty after trimming (no title, no content, no image) is never
// persisted; if it already has a row, the row is deleted. Returns the saved
// note, or nil when the note was discarded.
func (s *NoteService) Save(note model.Note) (*model.Note, error) {
	if note.IsEmpty() {
		if note.ID != nil {
			if err := s.Delete(note); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	if strings.TrimSpace(note.Title) == "" {
		note.Title = UntitledPlaceholder
	}
	if strings.TrimSpace(note.Content) == "" {
		note.Content = " "
	}
	if note.Color == 0 {
		note.Color = model.DefaultNoteColor
	}
	note.Timestamp = time.Now().UnixMilli()

	saved, err := s.notes.Save(&note)
	if err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}

	if saved.Reminder != nil {
		s.reminders.Schedule(*saved)
	} else {
		s.reminders.Cancel(*saved.ID)
	}

	s.feeds.RefreshNotes()
	s.feeds.RefreshFolders()
	s.broadcast("saved", *saved.ID)
	return saved, nil
}

// Delete removes the note and disarms its reminder. Callers wanting undo keep
// the note value; Restore is a fresh Save.
func (s *NoteService) Delete(note model.Note) error {
	if note.ID == nil {
		return nil
	}
	if err := s.notes.Delete(*note.ID); err != nil {
		return err
	}
	s.reminders.Cancel(*note.ID)

	s.feeds.RefreshNotes()
	s.feeds.RefreshFolders()
	s.broadcast("deleted", *note.ID)
	return nil
}

func (s *NoteService) Get(id int64) (*model.Note, error) {
	return s.notes.GetByID(id)
}

// TogglePin flips the pinned flag in place without touching the timestamp
// rules. Returns nil when the note does not exist.
func (s *NoteService) TogglePin(id int64) (*model.Note, error) {
	note, err := s.notes.GetByID(id)
	if err != nil || note == nil {
		return note, err
	}
	note.Pinned = !note.Pinned
	saved, err := s.notes.Save(note)
	if err != nil {
		return nil, err
	}
	s.feeds.RefreshNotes()
	s.broadcast("saved", id)
	return saved, nil
}

// ToggleArchive flips the archived flag. Archiving affects folder counts, so
// both feeds refresh.
func (s *NoteService) ToggleArchive(id int64) (*model.Note, error) {
	note, err := s.notes.GetByID(id)
	if err != nil || note == nil {
		return note, err
	}
	note.Archived = !note.Archived
	saved, err := s.notes.Save(note)
	if err != nil {
		return nil, err
	}
	s.feeds.RefreshNotes()
	s.feeds.RefreshFolders()
	s.broadcast("saved", id)
	return saved, nil
}

func (s *NoteService) broadcast(action string, id int64) {
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewMessage("note", action, id, nil))
	}
}
