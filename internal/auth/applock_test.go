package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ckapps/quicknote/internal/database"
	"github.com/ckapps/quicknote/internal/model"
	"github.com/ckapps/quicknote/internal/store"
)

func newTestLock(t *testing.T) (*AppLock, *store.SettingsStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	settings := store.NewSettingsStore(db)
	return NewAppLock(settings), settings
}

func TestPasscodeHashVerify(t *testing.T) {
	hash, err := HashPasscode("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyPasscode("1234", hash) {
		t.Error("correct passcode should verify")
	}
	if VerifyPasscode("4321", hash) {
		t.Error("wrong passcode should not verify")
	}
	if VerifyPasscode("1234", "not-a-hash") {
		t.Error("malformed hash should not verify")
	}
	if VerifyPasscode("1234", "") {
		t.Error("empty hash should not verify")
	}
}

func TestPasscodeHashIsSalted(t *testing.T) {
	a, err := HashPasscode("1234")
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := HashPasscode("1234")
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same passcode should differ")
	}
}

func TestAppLockLifecycle(t *testing.T) {
	lock, _ := newTestLock(t)

	if lock.Enabled() {
		t.Error("lock should start disabled")
	}

	if err := lock.SetPasscode("secret"); err != nil {
		t.Fatalf("set passcode: %v", err)
	}
	if !lock.Enabled() {
		t.Error("lock should be enabled after SetPasscode")
	}

	if _, err := lock.Unlock("wrong"); !errors.Is(err, ErrWrongPasscode) {
		t.Errorf("unlock wrong = %v, want ErrWrongPasscode", err)
	}

	token, err := lock.Unlock("secret")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !lock.Valid(token) {
		t.Error("fresh token should be valid")
	}
	if lock.Valid("bogus") {
		t.Error("unknown token should be invalid")
	}

	lock.Relock(token)
	if lock.Valid(token) {
		t.Error("relocked token should be invalid")
	}

	if err := lock.SetPasscode(""); err == nil {
		t.Error("empty passcode should be rejected")
	}
}

func TestAppLockDisableDropsTokens(t *testing.T) {
	lock, _ := newTestLock(t)

	if err := lock.SetPasscode("secret"); err != nil {
		t.Fatalf("set passcode: %v", err)
	}
	token, err := lock.Unlock("secret")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	if err := lock.Disable(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if lock.Enabled() {
		t.Error("lock should be disabled")
	}
	if lock.Valid(token) {
		t.Error("tokens should not survive disable")
	}
}

func TestRequireMiddleware(t *testing.T) {
	lock, settings := newTestLock(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := lock.Require(next)

	// Disabled lock: everything passes.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest("GET", "/api/notes/1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 while disabled", rec.Code)
	}

	if err := lock.SetPasscode("secret"); err != nil {
		t.Fatalf("set passcode: %v", err)
	}

	// Enabled, no token: rejected.
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest("GET", "/api/notes/1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 while locked", rec.Code)
	}

	token, err := lock.Unlock("secret")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}

	// Cookie token passes.
	req := httptest.NewRequest("GET", "/api/notes/1", nil)
	req.AddCookie(&http.Cookie{Name: UnlockCookie, Value: token})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with cookie", rec.Code)
	}

	// Header token passes too.
	req = httptest.NewRequest("GET", "/api/notes/1", nil)
	req.Header.Set("X-Unlock-Token", token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with header token", rec.Code)
	}

	// Sanity: the hash never ends up in plain view of the settings map.
	all, err := settings.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if all[model.SettingAppLockHash] == "secret" {
		t.Error("passcode stored in plaintext")
	}
}
