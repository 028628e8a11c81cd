package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
type AppConfig struct {
	AppPort    string
	StrictPort bool
	// LANIP overrides the auto-detected LAN address used for trusted-origin
	// checks and the pairing URL. Empty means detect at boot.
	LANIP string

	TokenTTLSeconds   int
	SessionTTLSeconds int
	MaxUploadBytes    int64

	// DownloadDir is where saved and mobile-uploaded files land.
	DownloadDir string
	// TransientDir holds desktop pushes until a phone saves or the record
	// is reclaimed.
	TransientDir  string
	HistoryDBPath string
	SettingsPath  string

	AllowedOrigins     []string
	RateLimitPerMinute int

	// Gin framework configuration
	GinMode string
	GinPath string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// mDNS announcement of the service on the LAN
	MDNSAnnounce bool
	MDNSInstance string
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. Precedence:
// config/config.json -> compiled defaults -> environment overrides ->
// persisted runtime settings (upload cap, download dir).
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	applyRuntimeSettings(&cfg)

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.TokenTTLSeconds <= 0 {
		c.TokenTTLSeconds = 120
	}
	if c.SessionTTLSeconds <= 0 {
		c.SessionTTLSeconds = 8 * 60 * 60
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10 << 30
	}
	if c.DownloadDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DownloadDir = filepath.Join(home, "Downloads")
		} else {
			c.DownloadDir = "downloads"
		}
	}
	if c.TransientDir == "" {
		c.TransientDir = filepath.Join("data", "transient_uploads")
	}
	if c.HistoryDBPath == "" {
		c.HistoryDBPath = filepath.Join("data", "history.db")
	}
	if c.SettingsPath == "" {
		c.SettingsPath = filepath.Join("data", "settings.json")
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 60
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = filepath.Join("logs", "gin.log")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join("logs", "app.log")
	}
	if c.MDNSInstance == "" {
		c.MDNSInstance = "lanbeam"
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("LANBEAM_PORT", c.AppPort)
	c.StrictPort = getEnvBool("LANBEAM_STRICT_PORT", c.StrictPort)
	c.LANIP = getEnv("LANBEAM_LAN_IP", c.LANIP)
	c.TokenTTLSeconds = getEnvInt("LANBEAM_TOKEN_TTL_SECONDS", c.TokenTTLSeconds)
	c.SessionTTLSeconds = getEnvInt("LANBEAM_SESSION_TTL_SECONDS", c.SessionTTLSeconds)
	c.MaxUploadBytes = getEnvInt64("LANBEAM_MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.DownloadDir = getEnv("LANBEAM_DOWNLOAD_DIR", c.DownloadDir)
	c.TransientDir = getEnv("LANBEAM_TRANSIENT_DIR", c.TransientDir)
	c.HistoryDBPath = getEnv("LANBEAM_HISTORY_DB", c.HistoryDBPath)
	c.SettingsPath = getEnv("LANBEAM_SETTINGS_PATH", c.SettingsPath)
	if v := os.Getenv("LANBEAM_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitCSV(v)
	}
	c.RateLimitPerMinute = getEnvInt("LANBEAM_RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.GinMode = getEnv("LANBEAM_GIN_MODE", c.GinMode)
	c.GinPath = getEnv("LANBEAM_GIN_LOG", c.GinPath)
	c.LogLevel = getEnv("LANBEAM_LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LANBEAM_LOG_PATH", c.LogPath)
	c.LogMaxSizeMB = getEnvInt("LANBEAM_LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LANBEAM_LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LANBEAM_LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
	c.LogCompress = getEnvBool("LANBEAM_LOG_COMPRESS", c.LogCompress)
	c.MDNSAnnounce = getEnvBool("LANBEAM_MDNS_ANNOUNCE", c.MDNSAnnounce)
	c.MDNSInstance = getEnv("LANBEAM_MDNS_INSTANCE", c.MDNSInstance)
}

// loadJSONConfig reads flat JSON keys into cfg if the file is present.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	out.AppPort = rawString(raw, "app_port", out.AppPort)
	out.StrictPort = rawBool(raw, "strict_port", out.StrictPort)
	out.LANIP = rawString(raw, "lan_ip", out.LANIP)
	out.TokenTTLSeconds = rawInt(raw, "token_ttl_seconds", out.TokenTTLSeconds)
	out.SessionTTLSeconds = rawInt(raw, "session_ttl_seconds", out.SessionTTLSeconds)
	out.MaxUploadBytes = rawInt64(raw, "max_upload_bytes", out.MaxUploadBytes)
	out.DownloadDir = rawString(raw, "download_dir", out.DownloadDir)
	out.TransientDir = rawString(raw, "transient_dir", out.TransientDir)
	out.HistoryDBPath = rawString(raw, "history_db_path", out.HistoryDBPath)
	out.SettingsPath = rawString(raw, "settings_path", out.SettingsPath)
	if v := rawString(raw, "allowed_origins", ""); v != "" {
		out.AllowedOrigins = splitCSV(v)
	}
	out.RateLimitPerMinute = rawInt(raw, "rate_limit_per_minute", out.RateLimitPerMinute)
	out.GinMode = rawString(raw, "gin_mode", out.GinMode)
	out.GinPath = rawString(raw, "gin_log_path", out.GinPath)
	out.LogLevel = rawString(raw, "log_level", out.LogLevel)
	out.LogPath = rawString(raw, "log_path", out.LogPath)
	out.LogMaxSizeMB = rawInt(raw, "log_max_size_mb", out.LogMaxSizeMB)
	out.LogMaxBackups = rawInt(raw, "log_max_backups", out.LogMaxBackups)
	out.LogMaxAgeDays = rawInt(raw, "log_max_age_days", out.LogMaxAgeDays)
	out.LogCompress = rawBool(raw, "log_compress", out.LogCompress)
	out.MDNSAnnounce = rawBool(raw, "mdns_announce", out.MDNSAnnounce)
	out.MDNSInstance = rawString(raw, "mdns_instance", out.MDNSInstance)
	return nil
}

func rawString(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func rawInt(m map[string]any, key string, def int) int {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return def
}

func rawInt64(m map[string]any, key string, def int64) int64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	}
	return def
}

func rawBool(m map[string]any, key string, def bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
