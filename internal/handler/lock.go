package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ckapps/quicknote/internal/auth"
	"github.com/ckapps/quicknote/internal/live"
)

// LockHandler manages the app lock lifecycle. Its routes stay outside the
// lock middleware so a locked client can still unlock.
type LockHandler struct {
	lock   *auth.AppLock
	feeds  *live.Feeds
	logger *slog.Logger
}

func NewLockHandler(lock *auth.AppLock, feeds *live.Feeds, logger *slog.Logger) *LockHandler {
	return &LockHandler{lock: lock, feeds: feeds, logger: logger}
}

func (h *LockHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.lock.Enabled()})
}

type passcodeRequest struct {
	Passcode string `json:"passcode"`
}

// Enable handles POST /api/lock: sets the passcode and switches the lock on.
func (h *LockHandler) Enable(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passcode == "" {
		writeError(w, http.StatusBadRequest, "passcode is required")
		return
	}

	if err := h.lock.SetPasscode(req.Passcode); err != nil {
		h.logger.Error("enable app lock", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to enable app lock")
		return
	}
	h.feeds.RefreshSettings()
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

// Disable handles DELETE /api/lock. The current passcode must verify first.
func (h *LockHandler) Disable(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if _, err := h.lock.Unlock(req.Passcode); err != nil {
		writeError(w, http.StatusUnauthorized, "wrong passcode")
		return
	}
	if err := h.lock.Disable(); err != nil {
		h.logger.Error("disable app lock", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to disable app lock")
		return
	}
	h.feeds.RefreshSettings()
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": false})
}

// Unlock handles POST /api/lock/unlock: verifies the passcode and sets the
// unlock cookie.
func (h *LockHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, err := h.lock.Unlock(req.Passcode)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPasscode) {
			writeError(w, http.StatusUnauthorized, "wrong passcode")
			return
		}
		h.logger.Error("unlock", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unlock")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.UnlockCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Relock handles POST /api/lock/relock: drops this client's unlock token.
func (h *LockHandler) Relock(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.UnlockCookie); err == nil {
		h.lock.Relock(c.Value)
	}
	if token := r.Header.Get("X-Unlock-Token"); token != "" {
		h.lock.Relock(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.UnlockCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
