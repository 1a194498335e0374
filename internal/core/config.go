package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/tailscale/hujson"

	"github.com/skillstore/skillstore/internal/core/api"
	"github.com/skillstore/skillstore/internal/core/download"
	"github.com/skillstore/skillstore/internal/core/manifest"
)

const (
	appName        = "skillstore"
	configFileName = "config.json"
)

// Environment overrides.
const (
	EnvAPIURL   = "SKILLSTORE_API_URL"
	EnvLogLevel = "SKILLSTORE_LOG_LEVEL"
)

// ConfigManager handles reading and writing the skillstore configuration.
type ConfigManager struct {
	configDir string
	mu        sync.RWMutex
}

// NewConfigManager creates a ConfigManager using the XDG config directory.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{configDir: filepath.Join(xdg.ConfigHome, appName)}
}

// NewConfigManagerWithDir creates a ConfigManager using a custom config directory.
// Useful for testing.
func NewConfigManagerWithDir(dir string) *ConfigManager {
	return &ConfigManager{configDir: dir}
}

// ConfigDir returns the configuration directory path.
func (cm *ConfigManager) ConfigDir() string {
	return cm.configDir
}

// ConfigPath returns the full path to the config file.
func (cm *ConfigManager) ConfigPath() string {
	return filepath.Join(cm.configDir, configFileName)
}

// Load reads the config from disk. Returns default config if file doesn't exist.
func (cm *ConfigManager) Load() (*Config, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	data, err := os.ReadFile(cm.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg := defaultConfig()
	if err := json.Unmarshal(std, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (cm *ConfigManager) Save(cfg *Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := os.MkdirAll(cm.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmpPath := cm.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, cm.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Timeout:       api.DefaultTimeout.String(),
		MaxConcurrent: download.DefaultMaxConcurrent,
	}
}

// Runtime is the effective configuration: file values, then environment
// overrides, then defaults for anything still unset.
type Runtime struct {
	APIURL        string
	Timeout       time.Duration
	MaxConcurrent int
	LogLevel      slog.Level
	LogFormat     LogFormat
	VerifyKey     string
	Telemetry     bool
	DefaultAgents []string
}

// Resolve applies environment overrides read through getenv.
func (c *Config) Resolve(getenv func(string) string) (Runtime, error) {
	rt := Runtime{
		APIURL:        c.APIURL,
		Timeout:       api.DefaultTimeout,
		MaxConcurrent: c.MaxConcurrent,
		LogFormat:     FormatText,
		VerifyKey:     manifest.VerificationKey(getenv),
		Telemetry:     !c.Settings.DisableTelemetry,
		DefaultAgents: c.Settings.DefaultAgents,
	}

	if v := getenv(EnvAPIURL); v != "" {
		rt.APIURL = v
	}
	if rt.APIURL == "" {
		rt.APIURL = api.DefaultBaseURL
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d <= 0 {
			return Runtime{}, fmt.Errorf("invalid timeout %q in config", c.Timeout)
		}
		rt.Timeout = d
	}

	if rt.MaxConcurrent <= 0 {
		rt.MaxConcurrent = download.DefaultMaxConcurrent
	}

	level := c.LogLevel
	if v := getenv(EnvLogLevel); v != "" {
		level = v
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return Runtime{}, err
	}
	rt.LogLevel = lvl

	if c.LogFormat != "" {
		f, err := ParseFormat(c.LogFormat)
		if err != nil {
			return Runtime{}, err
		}
		rt.LogFormat = f
	}
	return rt, nil
}
