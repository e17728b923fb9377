package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/noteview"
	"github.com/ckapps/quicknote/internal/screen"
)

// ScreenHandler exposes the reconciler state reads and the user events that
// feed them.
type ScreenHandler struct {
	home    *screen.Home
	archive *screen.Archive
	search  *screen.Search
	logger  *slog.Logger
}

func NewScreenHandler(home *screen.Home, archive *screen.Archive, search *screen.Search, logger *slog.Logger) *ScreenHandler {
	return &ScreenHandler{home: home, archive: archive, search: search, logger: logger}
}

func (h *ScreenHandler) HomeState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.home.State())
}

type selectFolderRequest struct {
	FolderID int64 `json:"folder_id"`
}

func (h *ScreenHandler) SelectFolder(w http.ResponseWriter, r *http.Request) {
	var req selectFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var folder model.Folder
	switch req.FolderID {
	case model.FolderAllID:
		folder = model.FolderAll()
	case model.FolderArchiveID:
		folder = model.FolderArchive()
	default:
		id := req.FolderID
		folder = model.Folder{ID: &id}
	}
	h.home.SelectFolder(folder)
	w.WriteHeader(http.StatusAccepted)
}

type sortRequest struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

func (h *ScreenHandler) SetSortOrder(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.home.SetSortOrder(noteview.ParseSortKey(req.Key), noteview.ParseDirection(req.Dir)); err != nil {
		h.logger.Error("set sort order", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set sort order")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *ScreenHandler) ToggleView(w http.ResponseWriter, r *http.Request) {
	if err := h.home.ToggleView(); err != nil {
		h.logger.Error("toggle view", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle view")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// DeleteNote handles DELETE /api/screens/home/notes/{id}: the note goes away
// immediately and stays restorable until the next delete.
func (h *ScreenHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.home.DeleteNote(id); err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreNote handles POST /api/screens/home/restore: undo of the most recent
// delete. With nothing to restore it still succeeds.
func (h *ScreenHandler) RestoreNote(w http.ResponseWriter, r *http.Request) {
	if err := h.home.RestoreNote(); err != nil {
		h.logger.Error("restore note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to restore note")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *ScreenHandler) ArchiveState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.archive.State())
}

func (h *ScreenHandler) SearchState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.search.State())
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *ScreenHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h.search.SetQuery(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (h *ScreenHandler) TogglePinnedFilter(w http.ResponseWriter, r *http.Request) {
	h.search.TogglePinnedOnly()
	w.WriteHeader(http.StatusAccepted)
}

func (h *ScreenHandler) ToggleImageFilter(w http.ResponseWriter, r *http.Request) {
	h.search.ToggleImageOnly()
	w.WriteHeader(http.StatusAccepted)
}
