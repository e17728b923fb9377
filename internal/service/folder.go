package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
	"github.com/ckapps/quicknote/internal/websocket"
)

// ErrInvalidFolder rejects folders with a blank name before any persistence
// attempt. It is the one error class surfaced to the user as a message.
var ErrInvalidFolder = errors.New("folder name cannot be empty")

type FolderService struct {
	folders *store.FolderStore
	feeds   *live.Feeds
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewFolderService(folders *store.FolderStore, feeds *live.Feeds, hub *websocket.Hub, logger *slog.Logger) *FolderService {
	return &FolderService{folders: folders, feeds: feeds, hub: hub, logger: logger}
}

// Save creates or renames a folder. Renaming is the same upsert with the same
// identifier and a new name; the last write wins. Returns the assigned id.
func (s *FolderService) Save(folder model.Folder) (int64, error) {
	if strings.TrimSpace(folder.Name) == "" {
		return 0, ErrInvalidFolder
	}
	if folder.Timestamp == 0 {
		folder.Timestamp = time.Now().UnixMilli()
	}

	id, err := s.folders.Save(&folder)
	if err != nil {
		return 0, fmt.Errorf("save folder: %w", err)
	}

	s.feeds.RefreshFolders()
	s.broadcast("saved", id)
	return id, nil
}

// Delete removes a stored folder. Virtual folders and folders that were never
// persisted are silently skipped; a folder still referenced by notes fails
// with store.ErrFolderNotEmpty.
func (s *FolderService) Delete(folder model.Folder) error {
	if folder.IsVirtual() {
		return nil
	}

	if err := s.folders.Delete(*folder.ID); err != nil {
		return err
	}

	s.feeds.RefreshFolders()
	s.broadcast("deleted", *folder.ID)
	return nil
}

func (s *FolderService) Get(id int64) (*model.Folder, error) {
	return s.folders.GetByID(id)
}

func (s *FolderService) broadcast(action string, id int64) {
	if s.hub != nil {
		s.hub.Broadcast(websocket.NewMessage("folder", action, id, nil))
	}
}
