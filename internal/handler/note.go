package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/service"
)

type NoteHandler struct {
	notes  *service.NoteService
	logger *slog.Logger
}

func NewNoteHandler(notes *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// Save handles POST /api/notes and PUT /api/notes/{id}. Both run the same
// save pipeline; an empty note is silently discarded with 204.
func (h *NoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var note model.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if idStr := r.PathValue("id"); idStr != "" {
		id, err := parseIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		note.ID = &id
	}

	saved, err := h.notes.Save(note)
	if err != nil {
		h.logger.Error("save note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save note")
		return
	}
	if saved == nil {
		// Empty note, nothing persisted.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	status := http.StatusOK
	if note.ID == nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	if err := h.notes.Delete(*note); err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.TogglePin(id)
	if err != nil {
		h.logger.Error("toggle pin", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle pin")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.notes.ToggleArchive(id)
	if err != nil {
		h.logger.Error("toggle archive", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle archive")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}
