package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// runtimeSettings are the few values the desktop may change while the
// service runs. They are persisted to a small JSON file next to the history
// database; failures are logged, never fatal.
type runtimeSettings struct {
	MaxUploadBytes int64  `json:"max_upload_bytes,omitempty"`
	DownloadDir    string `json:"download_dir,omitempty"`
}

func loadRuntimeSettings(path string) runtimeSettings {
	var s runtimeSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("runtime settings file %s unreadable: %v", path, err)
	}
	return s
}

func applyRuntimeSettings(c *AppConfig) {
	s := loadRuntimeSettings(c.SettingsPath)
	if s.MaxUploadBytes > 0 {
		c.MaxUploadBytes = s.MaxUploadBytes
	}
	if s.DownloadDir != "" && filepath.IsAbs(s.DownloadDir) {
		c.DownloadDir = s.DownloadDir
	}
}

// PersistMaxUploadBytes stores the runtime upload cap.
func PersistMaxUploadBytes(limit int64) {
	s := loadRuntimeSettings(Get().SettingsPath)
	s.MaxUploadBytes = limit
	persistRuntimeSettings(s)
}

// PersistDownloadDir stores the runtime download directory.
func PersistDownloadDir(dir string) {
	s := loadRuntimeSettings(Get().SettingsPath)
	s.DownloadDir = dir
	persistRuntimeSettings(s)
}

func persistRuntimeSettings(s runtimeSettings) {
	path := Get().SettingsPath
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("create settings dir failed: %v", err)
			return
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Printf("marshal runtime settings failed: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("persist runtime settings failed: %v", err)
	}
}
