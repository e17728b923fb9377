package handler

import (
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/backup"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

type BackupHandler struct {
	manager *backup.Manager
	history *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(manager *backup.Manager, history *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: manager, history: history, logger: logger}
}

// Status handles GET /api/backups/status
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.manager.Status()
	resp := map[string]any{"status": status}
	if latest, err := h.history.LatestCompleted(); err == nil && latest != nil {
		resp["latest"] = latest
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/backups
func (h *BackupHandler) History(w http.ResponseWriter, r *http.Request) {
	backups, err := h.history.List(50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, backups)
}

// BackupNow handles POST /api/backups
func (h *BackupHandler) BackupNow(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusConflict, "backup not configured")
		return
	}

	id, err := h.manager.BackupNow(r.Context())
	if err != nil {
		h.logger.Error("manual backup", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Restore handles POST /api/backups/{id}/restore. On success the process
// must be restarted before the restored data is visible.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.manager.Restore(r.Context(), id); err != nil {
		h.logger.Error("restore backup", "error", err)
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored", "note": "restart required"})
}
