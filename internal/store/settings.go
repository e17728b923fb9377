package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ckapps/quicknote/internal/model"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored value, or the empty string when the key is unset.
func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) GetAll() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// ViewMode returns "grid" or "list", defaulting to grid.
func (s *SettingsStore) ViewMode() (string, error) {
	v, err := s.Get(model.SettingViewMode)
	if err != nil {
		return "", err
	}
	if v != "list" {
		v = "grid"
	}
	return v, nil
}

// SortOrder returns the persisted sort key and direction, defaulting to date
// descending.
func (s *SettingsStore) SortOrder() (key, dir string, err error) {
	key, err = s.Get(model.SettingSortKey)
	if err != nil {
		return "", "", err
	}
	dir, err = s.Get(model.SettingSortDir)
	if err != nil {
		return "", "", err
	}
	if key != "title" && key != "color" {
		key = "date"
	}
	if dir != "asc" {
		dir = "desc"
	}
	return key, dir, nil
}

func (s *SettingsStore) SetSortOrder(key, dir string) error {
	if err := s.Set(model.SettingSortKey, key); err != nil {
		return err
	}
	return s.Set(model.SettingSortDir, dir)
}

// AppLockEnabled reports whether the app-lock flag is set.
func (s *SettingsStore) AppLockEnabled() (bool, error) {
	v, err := s.Get(model.SettingAppLockEnabled)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}
