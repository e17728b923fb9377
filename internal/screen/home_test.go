package screen

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ckapps/quicknote/internal/database"
	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/noteview"
	"github.com/ckapps/quicknote/internal/reminder"
	"github.com/ckapps/quicknote/internal/service"
	"github.com/ckapps/quicknote/internal/store"
)

type noopNotifier struct{}

func (noopNotifier) Notify(int64, string, string) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	feeds     *live.Feeds
	noteSvc   *service.NoteService
	folderSvc *service.FolderService
	settings  *store.SettingsStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	notes := store.NewNoteStore(db)
	folders := store.NewFolderStore(db)
	settings := store.NewSettingsStore(db)
	feeds := live.NewFeeds(notes, folders, settings, testLogger())
	sched := reminder.NewScheduler(noopNotifier{}, testLogger())
	t.Cleanup(sched.Stop)

	return &fixture{
		feeds:     feeds,
		noteSvc:   service.NewNoteService(notes, feeds, sched, nil, testLogger()),
		folderSvc: service.NewFolderService(folders, feeds, nil, testLogger()),
		settings:  settings,
	}
}

func startHome(t *testing.T, fx *fixture) *Home {
	t.Helper()
	h := NewHome(fx.noteSvc, fx.settings, fx.feeds, nil, testLogger())
	h.Start(context.Background())
	t.Cleanup(h.Stop)
	fx.feeds.Prime()
	return h
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHomeShowsNotesNewestFirst(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	if _, err := fx.noteSvc.Save(model.Note{Title: "first", Content: "c"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(2 * time.Millisecond) // distinct timestamps
	if _, err := fx.noteSvc.Save(model.Note{Title: "second", Content: "c"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	waitFor(t, "two notes", func() bool { return len(h.State().Notes) == 2 })
	state := h.State()
	if state.Notes[0].Title != "second" || state.Notes[1].Title != "first" {
		t.Errorf("order = %q, %q; want newest first", state.Notes[0].Title, state.Notes[1].Title)
	}
}

func TestHomeFolderListWrapsVirtualFolders(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	if _, err := fx.folderSvc.Save(model.Folder{Name: "work"}); err != nil {
		t.Fatalf("save folder: %v", err)
	}

	waitFor(t, "three folders", func() bool { return len(h.State().Folders) == 3 })
	folders := h.State().Folders
	if folders[0].ID == nil || *folders[0].ID != model.FolderAllID {
		t.Errorf("first folder = %+v, want All", folders[0])
	}
	if folders[1].Name != "work" {
		t.Errorf("middle folder = %+v, want work", folders[1])
	}
	last := folders[len(folders)-1]
	if last.ID == nil || *last.ID != model.FolderArchiveID {
		t.Errorf("last folder = %+v, want Archive", last)
	}
}

func TestHomeSelectFolderScopesNotes(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	id, err := fx.folderSvc.Save(model.Folder{Name: "work"})
	if err != nil {
		t.Fatalf("save folder: %v", err)
	}
	fx.noteSvc.Save(model.Note{Title: "filed", Content: "c", FolderID: &id})
	fx.noteSvc.Save(model.Note{Title: "loose", Content: "c"})

	waitFor(t, "both notes under All", func() bool { return len(h.State().Notes) == 2 })

	h.SelectFolder(model.Folder{ID: &id, Name: "work"})
	waitFor(t, "scoped view", func() bool {
		s := h.State()
		return len(s.Notes) == 1 && s.Notes[0].Title == "filed"
	})
}

func TestHomeSelectionFallsBackToAllWhenFolderDeleted(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	id, err := fx.folderSvc.Save(model.Folder{Name: "doomed"})
	if err != nil {
		t.Fatalf("save folder: %v", err)
	}
	waitFor(t, "folder visible", func() bool { return len(h.State().Folders) == 3 })

	h.SelectFolder(model.Folder{ID: &id, Name: "doomed"})
	waitFor(t, "selection", func() bool {
		sel := h.State().Selected
		return sel.ID != nil && *sel.ID == id
	})

	if err := fx.folderSvc.Delete(model.Folder{ID: &id, Name: "doomed"}); err != nil {
		t.Fatalf("delete folder: %v", err)
	}

	waitFor(t, "fallback to All", func() bool {
		sel := h.State().Selected
		return sel.ID != nil && *sel.ID == model.FolderAllID
	})
}

func TestHomeSortOrderPersistsAndApplies(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	fx.noteSvc.Save(model.Note{Title: "banana", Content: "c"})
	fx.noteSvc.Save(model.Note{Title: "apple", Content: "c"})
	waitFor(t, "notes", func() bool { return len(h.State().Notes) == 2 })

	if err := h.SetSortOrder(noteview.SortByTitle, noteview.Ascending); err != nil {
		t.Fatalf("set sort order: %v", err)
	}

	waitFor(t, "title ascending", func() bool {
		s := h.State()
		return s.SortKey == "title" && s.SortDir == "asc" &&
			len(s.Notes) == 2 && s.Notes[0].Title == "apple"
	})

	key, dir, err := fx.settings.SortOrder()
	if err != nil {
		t.Fatalf("sort order: %v", err)
	}
	if key != "title" || dir != "asc" {
		t.Errorf("persisted = %q/%q, want title/asc", key, dir)
	}

	// Re-applying the same order is a no-op.
	if err := h.SetSortOrder(noteview.SortByTitle, noteview.Ascending); err != nil {
		t.Errorf("repeat sort order: %v", err)
	}
}

func TestHomeToggleViewPersists(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	waitFor(t, "initial grid view", func() bool { return h.State().GridView })

	if err := h.ToggleView(); err != nil {
		t.Fatalf("toggle view: %v", err)
	}
	waitFor(t, "list view", func() bool { return !h.State().GridView })

	mode, err := fx.settings.ViewMode()
	if err != nil {
		t.Fatalf("view mode: %v", err)
	}
	if mode != "list" {
		t.Errorf("persisted mode = %q, want list", mode)
	}
}

func TestHomeUndoKeepsSingleSlot(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	a, err := fx.noteSvc.Save(model.Note{Title: "alpha", Content: "c"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := fx.noteSvc.Save(model.Note{Title: "beta", Content: "c"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	waitFor(t, "two notes", func() bool { return len(h.State().Notes) == 2 })

	// Two deletes: only the second remains restorable.
	if err := h.DeleteNote(*a.ID); err != nil {
		t.Fatalf("delete a: %v", err)
	}
	if err := h.DeleteNote(*b.ID); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	waitFor(t, "empty home", func() bool { return len(h.State().Notes) == 0 })

	if err := h.RestoreNote(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	waitFor(t, "beta restored", func() bool {
		s := h.State()
		return len(s.Notes) == 1 && s.Notes[0].Title == "beta"
	})

	// The slot is spent: another restore brings nothing back.
	if err := h.RestoreNote(); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if got := len(h.State().Notes); got != 1 {
		t.Errorf("notes = %d, want 1 (undo buffer holds one note)", got)
	}
}

func TestHomeDeleteMissingNoteIsNoOp(t *testing.T) {
	fx := newFixture(t)
	h := startHome(t, fx)

	if err := h.DeleteNote(99999); err != nil {
		t.Errorf("delete missing: %v", err)
	}
	if err := h.RestoreNote(); err != nil {
		t.Errorf("restore after missing delete: %v", err)
	}
}
