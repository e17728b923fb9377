package live

import (
	"log/slog"

	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

// Feeds groups the application's snapshot feeds. The service layer calls the
// Refresh methods after each mutation; screens subscribe to the individual
// feeds.
type Feeds struct {
	Notes    *Feed[[]model.Note]
	Folders  *Feed[[]model.Folder]
	Settings *Feed[map[string]string]

	noteStore     *store.NoteStore
	folderStore   *store.FolderStore
	settingsStore *store.SettingsStore
	logger        *slog.Logger
}

func NewFeeds(ns *store.NoteStore, fs *store.FolderStore, ss *store.SettingsStore, logger *slog.Logger) *Feeds {
	return &Feeds{
		Notes:         NewFeed[[]model.Note](),
		Folders:       NewFeed[[]model.Folder](),
		Settings:      NewFeed[map[string]string](),
		noteStore:     ns,
		folderStore:   fs,
		settingsStore: ss,
		logger:        logger,
	}
}

// Prime publishes an initial snapshot on every feed so that screens starting
// up before the first mutation still see current data.
func (f *Feeds) Prime() {
	f.RefreshNotes()
	f.RefreshFolders()
	f.RefreshSettings()
}

// RefreshNotes re-queries the notes table and publishes the full snapshot.
func (f *Feeds) RefreshNotes() {
	notes, err := f.noteStore.List()
	if err != nil {
		f.logger.Error("refresh notes snapshot", "error", err)
		return
	}
	f.Notes.Publish(notes)
}

// RefreshFolders re-queries folders with their derived note counts.
func (f *Feeds) RefreshFolders() {
	folders, err := f.folderStore.ListWithCounts()
	if err != nil {
		f.logger.Error("refresh folders snapshot", "error", err)
		return
	}
	f.Folders.Publish(folders)
}

// RefreshSettings publishes the full settings map.
func (f *Feeds) RefreshSettings() {
	settings, err := f.settingsStore.GetAll()
	if err != nil {
		f.logger.Error("refresh settings snapshot", "error", err)
		return
	}
	f.Settings.Publish(settings)
}
