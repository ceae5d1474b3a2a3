package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the tubedex client configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Stub    StubConfig    `yaml:"stub"`
}

// BackendConfig holds the remote service settings.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SearchConfig holds search request settings.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // log file for the interactive client
}

// MetricsConfig holds the optional prometheus exposure settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the /metrics listener
}

// StubConfig holds settings for the development stub backend.
type StubConfig struct {
	Port            int          `yaml:"port"`
	ShutdownSec     int          `yaml:"shutdown_timeout_sec"`
	ReadTimeoutSec  int          `yaml:"read_timeout_sec"`
	WriteTimeoutSec int          `yaml:"write_timeout_sec"`
	Summary         OpenAIConfig `yaml:"summary"`
}

// OpenAIConfig holds the optional OpenAI-compatible summarizer settings.
// An empty APIKey selects the built-in extractive summarizer.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:8200"
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 8
	}
	if c.Logging.File == "" {
		c.Logging.File = "tubedex.log"
	}
	if c.Stub.Port <= 0 {
		c.Stub.Port = 8200
	}
	if c.Stub.ShutdownSec <= 0 {
		c.Stub.ShutdownSec = 10
	}
	if c.Stub.ReadTimeoutSec <= 0 {
		c.Stub.ReadTimeoutSec = 30
	}
	if c.Stub.WriteTimeoutSec <= 0 {
		// Summaries can take a while to generate; give writes headroom.
		c.Stub.WriteTimeoutSec = 120
	}
	if c.Stub.Summary.Model == "" {
		c.Stub.Summary.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url must start with http:// or https://, got %q", c.Backend.BaseURL)
	}
	if c.Search.TopK <= 0 {
		return fmt.Errorf("search.top_k must be positive, got %d", c.Search.TopK)
	}
	if c.Stub.Port <= 0 || c.Stub.Port > 65535 {
		return fmt.Errorf("stub.port must be between 1 and 65535, got %d", c.Stub.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
