package todo

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SettingsFile is the per-directory settings file name.
const SettingsFile = "settings.json"

// Settings controls garbage collection for one todo directory.
type Settings struct {
	GC     bool `json:"gc"`
	GCDays int  `json:"gcDays"`
}

// DefaultSettings returns the settings applied to a fresh directory.
func DefaultSettings() Settings {
	return Settings{GC: true, GCDays: 7}
}

// LoadSettings reads settings.json from dir, normalizing and rewriting the
// file when it is missing or malformed. Never fails the caller over a bad
// settings file: the defaults always apply.
func LoadSettings(dir string) Settings {
	path := filepath.Join(dir, SettingsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		s := DefaultSettings()
		writeSettings(path, s)
		return s
	}

	var raw struct {
		GC     *bool `json:"gc"`
		GCDays *int  `json:"gcDays"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		s := DefaultSettings()
		writeSettings(path, s)
		return s
	}

	s := DefaultSettings()
	rewrite := false
	if raw.GC != nil {
		s.GC = *raw.GC
	} else {
		rewrite = true
	}
	if raw.GCDays != nil && *raw.GCDays >= 0 {
		s.GCDays = *raw.GCDays
	} else {
		rewrite = true
	}

	if rewrite {
		writeSettings(path, s)
	}
	return s
}

func writeSettings(path string, s Settings) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, append(data, '\n'), 0o644)
}
