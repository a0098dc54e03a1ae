package agent

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultLogLevel   = "info"

	envAPIKey     = "AETHERIUS_API_KEY"
	envEndpoint   = "AETHERIUS_ENDPOINT"
	envUserID     = "AETHERIUS_USER_ID"
	envTimeout    = "AETHERIUS_TIMEOUT"
	envMaxRetries = "AETHERIUS_MAX_RETRIES"
)

// Config holds runtime settings for the inference client and analyzer.
// The API key is never compiled in; it arrives via config file or the
// AETHERIUS_API_KEY environment variable.
type Config struct {
	Endpoint   string        `yaml:"endpoint"`
	APIKey     string        `yaml:"api_key"`
	UserID     string        `yaml:"user_id"`
	Timeout    time.Duration `yaml:"-"`
	MaxRetries int           `yaml:"max_retries"`
	LogLevel   string        `yaml:"log_level"`
	// SchemaDir is the directory holding per-surface JSON schema files.
	SchemaDir string `yaml:"schema_dir"`
	// Surfaces maps an analysis surface name to its hosted agent persona.
	Surfaces map[string]SurfaceConfig `yaml:"surfaces"`

	timeoutRaw string
}

// SurfaceConfig binds one analysis surface to a remote agent identity.
type SurfaceConfig struct {
	AgentID string `yaml:"agent_id"`
	// Schema is an optional JSON schema file name under SchemaDir used to
	// validate the parsed payload for this surface.
	Schema string `yaml:"schema,omitempty"`
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open agent config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		Endpoint   string                   `yaml:"endpoint"`
		APIKey     string                   `yaml:"api_key"`
		UserID     string                   `yaml:"user_id"`
		Timeout    string                   `yaml:"timeout"`
		MaxRetries int                      `yaml:"max_retries"`
		LogLevel   string                   `yaml:"log_level"`
		SchemaDir  string                   `yaml:"schema_dir"`
		Surfaces   map[string]SurfaceConfig `yaml:"surfaces"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal agent config: %w", err)
	}

	cfg := &Config{
		Endpoint:   raw.Endpoint,
		APIKey:     raw.APIKey,
		UserID:     raw.UserID,
		MaxRetries: raw.MaxRetries,
		LogLevel:   raw.LogLevel,
		SchemaDir:  raw.SchemaDir,
		Surfaces:   raw.Surfaces,
		timeoutRaw: raw.Timeout,
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("agent config: endpoint is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("agent config: api_key is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("agent config: user_id is required")
	}
	if c.Timeout <= 0 {
		return errors.New("agent config: timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("agent config: max_retries cannot be negative")
	}
	if len(c.Surfaces) == 0 {
		return errors.New("agent config: at least one surface is required")
	}
	for name, surface := range c.Surfaces {
		if strings.TrimSpace(surface.AgentID) == "" {
			return fmt.Errorf("agent config: surface %q has no agent_id", name)
		}
	}
	return nil
}

// Surface returns the configuration for the given analysis surface.
func (c *Config) Surface(name string) (SurfaceConfig, bool) {
	if c.Surfaces == nil {
		return SurfaceConfig{}, false
	}
	surface, ok := c.Surfaces[strings.ToLower(strings.TrimSpace(name))]
	return surface, ok
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Surfaces != nil {
		cp.Surfaces = make(map[string]SurfaceConfig, len(c.Surfaces))
		for k, v := range c.Surfaces {
			cp.Surfaces[k] = v
		}
	}
	return &cp
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) applyEnvOverrides() {
	c.Endpoint = expandAndOverride(c.Endpoint, envEndpoint)
	c.APIKey = expandAndOverride(c.APIKey, envAPIKey)
	c.UserID = expandAndOverride(c.UserID, envUserID)

	if raw := os.Getenv(envTimeout); raw != "" {
		c.timeoutRaw = raw
	} else {
		c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
	}

	if raw := os.Getenv(envMaxRetries); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			c.MaxRetries = v
		}
	}
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("agent config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("agent config: timeout must be positive, got %s", d)
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
