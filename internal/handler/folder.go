package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/service"
	"github.com/ckapps/quicknote/internal/store"
)

type FolderHandler struct {
	folders *service.FolderService
	store   *store.FolderStore
	logger  *slog.Logger
}

func NewFolderHandler(folders *service.FolderService, fs *store.FolderStore, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, store: fs, logger: logger}
}

type folderRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/folders: stored folders with their live note counts.
// The virtual All and Archive folders belong to the home screen state, not
// this listing.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.store.ListWithCounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list folders")
		return
	}
	if folders == nil {
		folders = []model.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	existing, err := h.store.GetByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check folder name")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "folder already exists")
		return
	}

	id, err := h.folders.Save(model.Folder{Name: req.Name})
	if err != nil {
		if errors.Is(err, service.ErrInvalidFolder) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create folder")
		return
	}

	folder, err := h.folders.Get(id)
	if err != nil || folder == nil {
		writeError(w, http.StatusInternalServerError, "failed to load folder")
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// Rename handles PUT /api/folders/{id}: the same upsert with a new name.
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.folders.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get folder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	var req folderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	existing.Name = req.Name
	if _, err := h.folders.Save(*existing); err != nil {
		if errors.Is(err, service.ErrInvalidFolder) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("rename folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename folder")
		return
	}

	folder, err := h.folders.Get(id)
	if err != nil || folder == nil {
		writeError(w, http.StatusInternalServerError, "failed to load folder")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// Delete handles DELETE /api/folders/{id}. A folder still holding notes is
// refused with 409.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.folders.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get folder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	if err := h.folders.Delete(*existing); err != nil {
		if errors.Is(err, store.ErrFolderNotEmpty) {
			writeError(w, http.StatusConflict, "folder still contains notes")
			return
		}
		h.logger.Error("delete folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete folder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
