package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

// unlockTTL bounds how long an unlock token stays valid without activity.
const unlockTTL = 30 * time.Minute

// UnlockCookie carries the unlock token between requests.
const UnlockCookie = "quicknote_unlock"

// ErrWrongPasscode is returned for a failed unlock attempt.
var ErrWrongPasscode = errors.New("wrong passcode")

// AppLock gates the API behind a passcode when the user has enabled the lock.
// Unlock tokens live in memory only; a restart relocks the app.
type AppLock struct {
	settings *store.SettingsStore

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

func NewAppLock(settings *store.SettingsStore) *AppLock {
	return &AppLock{
		settings: settings,
		tokens:   make(map[string]time.Time),
	}
}

// Enabled reports whether the lock is switched on in settings.
func (a *AppLock) Enabled() bool {
	enabled, err := a.settings.AppLockEnabled()
	if err != nil {
		return false
	}
	return enabled
}

// SetPasscode hashes and stores the passcode and enables the lock.
func (a *AppLock) SetPasscode(passcode string) error {
	if passcode == "" {
		return errors.New("passcode cannot be empty")
	}
	hash, err := HashPasscode(passcode)
	if err != nil {
		return err
	}
	if err := a.settings.Set(model.SettingAppLockHash, hash); err != nil {
		return fmt.Errorf("store passcode hash: %w", err)
	}
	if err := a.settings.Set(model.SettingAppLockEnabled, "true"); err != nil {
		return fmt.Errorf("enable app lock: %w", err)
	}
	return nil
}

// Disable switches the lock off and drops every outstanding unlock token.
func (a *AppLock) Disable() error {
	if err := a.settings.Set(model.SettingAppLockEnabled, "false"); err != nil {
		return err
	}
	a.mu.Lock()
	a.tokens = make(map[string]time.Time)
	a.mu.Unlock()
	return nil
}

// Unlock verifies the passcode and mints an unlock token.
func (a *AppLock) Unlock(passcode string) (string, error) {
	stored, err := a.settings.Get(model.SettingAppLockHash)
	if err != nil {
		return "", fmt.Errorf("load passcode hash: %w", err)
	}
	if stored == "" || !VerifyPasscode(passcode, stored) {
		return "", ErrWrongPasscode
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	a.mu.Lock()
	a.tokens[token] = time.Now().Add(unlockTTL)
	a.mu.Unlock()
	return token, nil
}

// Relock invalidates one token, locking that client out again.
func (a *AppLock) Relock(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}

// Valid reports whether the token is live, sliding its expiry forward.
func (a *AppLock) Valid(token string) bool {
	if token == "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(a.tokens, token)
		return false
	}
	a.tokens[token] = time.Now().Add(unlockTTL)
	return true
}

// Require is middleware that rejects requests with 401 while the app is
// locked. When the lock is disabled every request passes through.
func (a *AppLock) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if a.Valid(tokenFromRequest(r)) {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Locked", http.StatusUnauthorized)
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(UnlockCookie); err == nil {
		return c.Value
	}
	return r.Header.Get("X-Unlock-Token")
}
