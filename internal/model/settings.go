package model

import "time"

// Setting keys understood by the application. Values are stored as strings.
const (
	SettingViewMode       = "view_mode"        // "grid" or "list"
	SettingSortKey        = "sort_key"         // "title", "date", or "color"
	SettingSortDir        = "sort_dir"         // "asc" or "desc"
	SettingThemeMode      = "theme_mode"       // "system", "light", or "dark"
	SettingAppLockEnabled = "app_lock_enabled" // "true" or "false"
	SettingAppLockHash    = "app_lock_hash"    // argon2id passcode hash, never exposed
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
