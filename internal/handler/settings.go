package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/live"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	feeds    *live.Feeds
	logger   *slog.Logger
}

func NewSettingsHandler(settings *store.SettingsStore, feeds *live.Feeds, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, feeds: feeds, logger: logger}
}

func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	// The lock hash never leaves the server.
	delete(settings, model.SettingAppLockHash)
	writeJSON(w, http.StatusOK, settings)
}

type themeRequest struct {
	Mode string `json:"mode"`
}

var validThemeModes = map[string]bool{
	"system": true,
	"light":  true,
	"dark":   true,
}

func (h *SettingsHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validThemeModes[req.Mode] {
		writeError(w, http.StatusBadRequest, "theme mode must be system, light, or dark")
		return
	}

	if err := h.settings.Set(model.SettingThemeMode, req.Mode); err != nil {
		h.logger.Error("update theme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update theme")
		return
	}
	h.feeds.RefreshSettings()
	writeJSON(w, http.StatusOK, map[string]string{model.SettingThemeMode: req.Mode})
}
