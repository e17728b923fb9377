package store

import (
	"database/sql"
	"testing"

	"github.com/ckapps/quicknote/internal/database"
	"github.com/ckapps/quicknote/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNoteSaveInsertAssignsID(t *testing.T) {
	s := NewNoteStore(testDB(t))

	saved, err := s.Save(&model.Note{Title: "first", Content: "body", Timestamp: 100, Color: model.DefaultNoteColor})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == nil {
		t.Fatal("expected assigned id")
	}
	if saved.Title != "first" || saved.Content != "body" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestNoteSaveUpsertReplacesRow(t *testing.T) {
	s := NewNoteStore(testDB(t))

	saved, err := s.Save(&model.Note{Title: "v1", Content: "c", Timestamp: 100})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	saved.Title = "v2"
	saved.Pinned = true
	updated, err := s.Save(saved)
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if *updated.ID != *saved.ID {
		t.Errorf("id changed: %d -> %d", *saved.ID, *updated.ID)
	}
	if updated.Title != "v2" || !updated.Pinned {
		t.Errorf("updated = %+v", updated)
	}

	all, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("rows = %d, want 1", len(all))
	}
}

func TestNoteOptionalFieldsRoundTrip(t *testing.T) {
	s := NewNoteStore(testDB(t))
	fs := NewFolderStore(s.db)

	folderID, err := fs.Save(&model.Folder{Name: "work", Timestamp: 1})
	if err != nil {
		t.Fatalf("save folder: %v", err)
	}

	img := "photo.jpg"
	rem := int64(9999999)
	saved, err := s.Save(&model.Note{
		Title: "full", Content: "c", Timestamp: 100,
		ImageURI: &img, Reminder: &rem, FolderID: &folderID,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.ImageURI == nil || *saved.ImageURI != img {
		t.Errorf("image_uri = %v", saved.ImageURI)
	}
	if saved.Reminder == nil || *saved.Reminder != rem {
		t.Errorf("reminder = %v", saved.Reminder)
	}
	if saved.FolderID == nil || *saved.FolderID != folderID {
		t.Errorf("folder_id = %v", saved.FolderID)
	}

	// Nil optionals stay nil.
	bare, err := s.Save(&model.Note{Title: "bare", Content: "c", Timestamp: 50})
	if err != nil {
		t.Fatalf("save bare: %v", err)
	}
	if bare.ImageURI != nil || bare.Reminder != nil || bare.FolderID != nil {
		t.Errorf("bare = %+v", bare)
	}
}

func TestNoteGetByIDMissing(t *testing.T) {
	s := NewNoteStore(testDB(t))

	got, err := s.GetByID(12345)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing note, got %+v", got)
	}
}

func TestNoteListNewestFirst(t *testing.T) {
	s := NewNoteStore(testDB(t))

	for _, n := range []model.Note{
		{Title: "old", Content: "c", Timestamp: 100},
		{Title: "new", Content: "c", Timestamp: 300},
		{Title: "mid", Content: "c", Timestamp: 200},
	} {
		if _, err := s.Save(&n); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	notes, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, w := range want {
		if notes[i].Title != w {
			t.Errorf("notes[%d] = %q, want %q", i, notes[i].Title, w)
		}
	}
}

func TestNoteListWithReminders(t *testing.T) {
	s := NewNoteStore(testDB(t))

	rem := int64(555)
	s.Save(&model.Note{Title: "plain", Content: "c", Timestamp: 1})
	s.Save(&model.Note{Title: "armed", Content: "c", Timestamp: 2, Reminder: &rem})

	notes, err := s.ListWithReminders()
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "armed" {
		t.Errorf("got %+v, want only the armed note", notes)
	}
}

func TestNoteDelete(t *testing.T) {
	s := NewNoteStore(testDB(t))

	saved, err := s.Save(&model.Note{Title: "doomed", Content: "c", Timestamp: 1})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(*saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := s.GetByID(*saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("note still present after delete")
	}

	// Deleting a missing id is a no-op.
	if err := s.Delete(*saved.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}
