package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hpungsan/bridgeai/internal/platform"
)

// DirName is the per-user and per-repo configuration directory name.
const DirName = ".bridgeai"

// Config holds application configuration.
type Config struct {
	// MessageCount is how many trailing messages a transfer carries.
	MessageCount int `json:"message_count"`

	// IncludeFullHistory transfers every scraped message instead of the last MessageCount.
	IncludeFullHistory bool `json:"include_full_history,omitempty"`

	// StoreBackend selects the payload slot: sqlite, redis, postgres, memory or remote.
	StoreBackend string `json:"store_backend"`

	// RedisURL is used when StoreBackend is "redis".
	RedisURL string `json:"redis_url,omitempty"`

	// DatabaseURL is used when StoreBackend is "postgres".
	DatabaseURL string `json:"database_url,omitempty"`

	// DaemonURL is where the CLI reaches `bridge serve` for the remote store and tab requests.
	DaemonURL string `json:"daemon_url"`

	// ListenAddr is the daemon's bind address.
	ListenAddr string `json:"listen_addr"`

	// SettleDelayMs is how long a newly loaded page settles before looking for a payload.
	SettleDelayMs int `json:"settle_delay_ms"`

	// ReadyTimeoutMs bounds the wait for the destination chat input.
	ReadyTimeoutMs int `json:"ready_timeout_ms"`

	// PayloadTTLSeconds is how long an undelivered payload stays eligible.
	PayloadTTLSeconds int `json:"payload_ttl_seconds"`

	// ExpiryIntervalSeconds is the daemon's expiry sweep period.
	ExpiryIntervalSeconds int `json:"expiry_interval_seconds"`

	// LogLevel is a zerolog level name.
	LogLevel string `json:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `json:"log_format"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DBMaxOpenConns limits open sqlite connections. 0 keeps the sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle sqlite connections. 0 keeps the sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// Platforms registers extra chat platforms served by the generic extractor.
	// An entry with a built-in id replaces that platform's descriptor.
	Platforms []platform.Descriptor `json:"platforms,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MessageCount:          10,
		StoreBackend:          "sqlite",
		DaemonURL:             "http://127.0.0.1:7878",
		ListenAddr:            "127.0.0.1:7878",
		SettleDelayMs:         1500,
		ReadyTimeoutMs:        10000,
		PayloadTTLSeconds:     300,
		ExpiryIntervalSeconds: 300,
		LogLevel:              "info",
		LogFormat:             "console",
	}
}

// DefaultBaseDir returns ~/.bridgeai.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// SettleDelay returns SettleDelayMs as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// ReadyTimeout returns ReadyTimeoutMs as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMs) * time.Millisecond
}

// PayloadTTL returns PayloadTTLSeconds as a duration.
func (c *Config) PayloadTTL() time.Duration {
	return time.Duration(c.PayloadTTLSeconds) * time.Second
}

// ExpiryInterval returns ExpiryIntervalSeconds as a duration.
func (c *Config) ExpiryInterval() time.Duration {
	return time.Duration(c.ExpiryIntervalSeconds) * time.Second
}

var backends = map[string]bool{"sqlite": true, "redis": true, "postgres": true, "memory": true, "remote": true}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if !backends[c.StoreBackend] {
		return fmt.Errorf("unknown store_backend %q", c.StoreBackend)
	}
	if c.StoreBackend == "redis" && c.RedisURL == "" {
		return errors.New("store_backend redis requires redis_url")
	}
	if c.StoreBackend == "postgres" && c.DatabaseURL == "" {
		return errors.New("store_backend postgres requires database_url")
	}
	if c.MessageCount < 0 {
		return fmt.Errorf("message_count must not be negative, got %d", c.MessageCount)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	for _, p := range c.Platforms {
		if p.ID == "" || len(p.Hosts) == 0 {
			return fmt.Errorf("platform entries need an id and at least one host")
		}
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.bridgeai.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.bridgeai) and repo (.bridgeai) directories.
// Repo config is found by walking upward from startDir to find the nearest .bridgeai/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .bridgeai/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.MessageCount = pick(overlay.MessageCount, base.MessageCount)
	result.StoreBackend = pick(overlay.StoreBackend, base.StoreBackend)
	result.RedisURL = pick(overlay.RedisURL, base.RedisURL)
	result.DatabaseURL = pick(overlay.DatabaseURL, base.DatabaseURL)
	result.DaemonURL = pick(overlay.DaemonURL, base.DaemonURL)
	result.ListenAddr = pick(overlay.ListenAddr, base.ListenAddr)
	result.SettleDelayMs = pick(overlay.SettleDelayMs, base.SettleDelayMs)
	result.ReadyTimeoutMs = pick(overlay.ReadyTimeoutMs, base.ReadyTimeoutMs)
	result.PayloadTTLSeconds = pick(overlay.PayloadTTLSeconds, base.PayloadTTLSeconds)
	result.ExpiryIntervalSeconds = pick(overlay.ExpiryIntervalSeconds, base.ExpiryIntervalSeconds)
	result.LogLevel = pick(overlay.LogLevel, base.LogLevel)
	result.LogFormat = pick(overlay.LogFormat, base.LogFormat)
	result.DBMaxOpenConns = pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.IncludeFullHistory = base.IncludeFullHistory || overlay.IncludeFullHistory

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.Platforms = mergePlatforms(base.Platforms, overlay.Platforms)

	return result
}

func pick[T comparable](overlay, base T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// mergePlatforms keeps base order; an overlay entry with a known id replaces it.
func mergePlatforms(a, b []platform.Descriptor) []platform.Descriptor {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := append([]platform.Descriptor{}, a...)
	for _, p := range b {
		replaced := false
		for i := range result {
			if result[i].ID == p.ID {
				result[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, p)
		}
	}
	return result
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays BRIDGE_* variables read through lookup onto cfg.
// Pass os.LookupEnv outside tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
		return nil
	}

	str("BRIDGE_STORE_BACKEND", &cfg.StoreBackend)
	str("BRIDGE_REDIS_URL", &cfg.RedisURL)
	str("BRIDGE_DATABASE_URL", &cfg.DatabaseURL)
	str("BRIDGE_DAEMON_URL", &cfg.DaemonURL)
	str("BRIDGE_LISTEN_ADDR", &cfg.ListenAddr)
	str("BRIDGE_LOG_LEVEL", &cfg.LogLevel)
	str("BRIDGE_LOG_FORMAT", &cfg.LogFormat)

	for name, dst := range map[string]*int{
		"BRIDGE_MESSAGE_COUNT":           &cfg.MessageCount,
		"BRIDGE_SETTLE_DELAY_MS":         &cfg.SettleDelayMs,
		"BRIDGE_READY_TIMEOUT_MS":        &cfg.ReadyTimeoutMs,
		"BRIDGE_PAYLOAD_TTL_SECONDS":     &cfg.PayloadTTLSeconds,
		"BRIDGE_EXPIRY_INTERVAL_SECONDS": &cfg.ExpiryIntervalSeconds,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("BRIDGE_INCLUDE_FULL_HISTORY"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("BRIDGE_INCLUDE_FULL_HISTORY: %w", err)
		}
		cfg.IncludeFullHistory = b
	}
	if v, ok := lookup("BRIDGE_DISABLED_TOOLS"); ok {
		cfg.DisabledTools = mergeStringSlice(cfg.DisabledTools, strings.Split(v, ","))
	}
	return nil
}

// Resolve is the full load used by the binary: defaults, global and repo
// JSON, then .env and BRIDGE_* overrides, then validation.
func Resolve(globalDir, startDir string) (*Config, error) {
	cfg, err := LoadWithRepo(globalDir, startDir)
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(filepath.Join(startDir, ".env")); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
