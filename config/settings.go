package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server ServerSettings `json:"server"`
	TMDB   TMDBSettings   `json:"tmdb"`
	Cache  CacheSettings  `json:"cache"`
	Log    LogConfig      `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// TMDBSettings holds the upstream metadata API configuration. The bearer
// token is injected into the catalog client at construction; nothing reads
// it from ambient process state.
type TMDBSettings struct {
	BearerToken string `json:"bearerToken"`
	Language    string `json:"language"`
	Region      string `json:"region"`
}

type CacheSettings struct {
	Directory          string `json:"directory"`
	ResponseTTLSeconds int    `json:"responseTtlSeconds"`
	TrendingTTLSeconds int    `json:"trendingTtlSeconds"`
}

// LogConfig represents log file rotation configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// Manager loads and persists Settings at a fixed path.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string { return m.path }

// Load reads settings from disk, creating a default file when missing and
// backfilling defaults for fields added after the file was written.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		s := defaultSettings()
		if err := m.saveLocked(s); err != nil {
			return Settings{}, err
		}
		return s, nil
	}
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	applyDefaults(&s)
	return s, nil
}

// Save persists settings atomically.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(s)
}

func (m *Manager) saveLocked(s Settings) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := m.path + ".tmp"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

func defaultSettings() Settings {
	s := Settings{}
	applyDefaults(&s)
	return s
}

func applyDefaults(s *Settings) {
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = "0.0.0.0"
	}
	if s.Server.Port == 0 {
		s.Server.Port = 7940
	}
	if strings.TrimSpace(s.TMDB.Language) == "" {
		s.TMDB.Language = "en-US"
	}
	if strings.TrimSpace(s.TMDB.Region) == "" {
		s.TMDB.Region = "ID"
	}
	if strings.TrimSpace(s.Cache.Directory) == "" {
		s.Cache.Directory = "cache"
	}
	if s.Cache.ResponseTTLSeconds == 0 {
		s.Cache.ResponseTTLSeconds = 1800
	}
	if s.Cache.TrendingTTLSeconds == 0 {
		s.Cache.TrendingTTLSeconds = 3600
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = 20
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = 28
	}
}
