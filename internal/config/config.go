package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/aistudio/tools"
)

// Provider backends.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// History backends. HistoryAuto resolves to sqlite for one-shot commands and
// to memory for the server; see History.Resolve.
const (
	HistoryAuto   = "auto"
	HistoryMemory = "memory"
	HistorySQLite = "sqlite"
	HistoryOff    = "off"
)

type Config struct {
	Provider   Provider     `yaml:"provider"`
	Models     tools.Models `yaml:"models"`
	Retry      Retry        `yaml:"retry"`
	Structured Structured   `yaml:"structured"`
	Log        Log          `yaml:"log"`
	History    History      `yaml:"history"`
	Server     Server       `yaml:"server"`
}

type Provider struct {
	Backend string        `yaml:"backend"` // rest or sdk
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"` // per attempt
}

type Retry struct {
	MaxRetries     int           `yaml:"maxRetries"` // negative disables retries
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
	MaxRetryAfter  time.Duration `yaml:"maxRetryAfter"` // longest server Retry-After honoured
}

type Structured struct {
	MaxAttempts int `yaml:"maxAttempts"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	LLM    string `yaml:"llm"`    // minimal, standard, verbose
}

type History struct {
	Backend  string `yaml:"backend"` // auto, memory, sqlite or off
	Path     string `yaml:"path"`     // sqlite file; empty means DefaultHistoryPath
	Capacity int    `yaml:"capacity"`
}

// DefaultHistoryPath is the sqlite file used when history.path is unset:
// aistudio/history.db under the user's config directory.
func DefaultHistoryPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: history path: %w", err)
	}
	return filepath.Join(dir, "aistudio", "history.db"), nil
}

// Resolve turns the auto backend into a concrete one: sqlite when records
// must outlive the process (persistent), memory otherwise. A sqlite backend
// without a path gets DefaultHistoryPath.
func (h History) Resolve(persistent bool) (History, error) {
	if h.Backend == HistoryAuto || h.Backend == "" {
		h.Backend = HistoryMemory
		if persistent {
			h.Backend = HistorySQLite
		}
	}
	if h.Backend == HistorySQLite && h.Path == "" {
		path, err := DefaultHistoryPath()
		if err != nil {
			return History{}, err
		}
		h.Path = path
	}
	return h, nil
}

type Server struct {
	Addr         string        `yaml:"addr"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	Parallelism  int           `yaml:"parallelism"` // batch runs
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Provider: Provider{
			Backend: BackendREST,
			Timeout: 60 * time.Second,
		},
		Models: tools.DefaultModels(),
		Retry: Retry{
			MaxRetries:     3,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
			MaxRetryAfter:  2 * time.Minute,
		},
		Structured: Structured{MaxAttempts: 2},
		Log: Log{
			Level:  "info",
			Format: "text",
			LLM:    "standard",
		},
		History: History{
			Backend:  HistoryAuto,
			Capacity: 500,
		},
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 10 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			Parallelism:  4,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables. envFiles are loaded into the process
// environment first without overriding variables that are already set.
func Load(path string, envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML rejects unknown keys so typos surface.
func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type lookupFunc func(string) (string, bool)

// applyEnv overlays environment variables. GEMINI_API_KEY wins over API_KEY.
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}

	str(&cfg.Provider.APIKey, "GEMINI_API_KEY", "API_KEY")
	str(&cfg.Provider.BaseURL, "GEMINI_API_BASE_URL")
	str(&cfg.Provider.Backend, "AISTUDIO_BACKEND")
	str(&cfg.Models.Text, "AISTUDIO_MODEL_TEXT")
	str(&cfg.Models.Vision, "AISTUDIO_MODEL_VISION")
	str(&cfg.Models.Coding, "AISTUDIO_MODEL_CODING")
	str(&cfg.Log.Level, "AISTUDIO_LOG_LEVEL")
	str(&cfg.Log.Format, "AISTUDIO_LOG_FORMAT")
	str(&cfg.Log.LLM, "AISTUDIO_LOG_LLM")
	str(&cfg.History.Backend, "AISTUDIO_HISTORY")
	str(&cfg.History.Path, "AISTUDIO_HISTORY_PATH")
	str(&cfg.Server.Addr, "AISTUDIO_ADDR")

	if v, ok := lookup("AISTUDIO_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: AISTUDIO_TIMEOUT: %w", err)
		}
		cfg.Provider.Timeout = d
	}
	if v, ok := lookup("AISTUDIO_MAX_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: AISTUDIO_MAX_RETRIES: %w", err)
		}
		cfg.Retry.MaxRetries = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Provider.Backend {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("config: provider.backend must be %q or %q, got %q", BackendREST, BackendSDK, c.Provider.Backend)
	}

	switch c.History.Backend {
	case HistoryAuto, HistoryMemory, HistorySQLite, HistoryOff:
	default:
		return fmt.Errorf("config: history.backend must be auto, memory, sqlite or off, got %q", c.History.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Provider.Timeout < 0 {
		return errors.New("config: provider.timeout must not be negative")
	}
	if c.Structured.MaxAttempts < 1 {
		return errors.New("config: structured.maxAttempts must be at least 1")
	}
	if c.Server.Parallelism < 1 {
		return errors.New("config: server.parallelism must be at least 1")
	}
	return nil
}
