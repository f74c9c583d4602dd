package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	// SummaryTTLMinutes controls how long cached website summaries live.
	SummaryTTLMinutes int `json:"summary_ttl_minutes"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	UploadDir     string `json:"upload_dir"`
	// Provider selects the completion vendor ("openai", "claude", "gemini").
	Provider               string `json:"provider"`
	FetchTimeoutSeconds    int    `json:"fetch_timeout_seconds"`
	ExcerptLimit           int    `json:"excerpt_limit"`
	SummaryMaxTokens       int    `json:"summary_max_tokens"`
	AuditMaxTokens         int    `json:"audit_max_tokens"`
	UploadTTLMinutes       int    `json:"upload_ttl_minutes"`
	CleanupIntervalMinutes int    `json:"cleanup_interval_minutes"`
}

// Conventional environment variables consulted when a provider's api_key is
// absent from the config file.
var apiKeyEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	b := &c.BasicConfig
	if b.ServerAddress == "" {
		b.ServerAddress = ":8090"
	}
	if b.UploadDir == "" {
		b.UploadDir = filepath.Join(os.TempDir(), "auditgo-uploads")
	}
	if b.Provider == "" {
		b.Provider = "openai"
	}
	if b.FetchTimeoutSeconds <= 0 {
		b.FetchTimeoutSeconds = 15
	}
	if b.ExcerptLimit <= 0 {
		b.ExcerptLimit = 4000
	}
	if b.SummaryMaxTokens <= 0 {
		b.SummaryMaxTokens = 512
	}
	if b.AuditMaxTokens <= 0 {
		b.AuditMaxTokens = 4096
	}
	if c.Redis.SummaryTTLMinutes <= 0 {
		c.Redis.SummaryTTLMinutes = 15
	}
}

func (c *Config) validate() error {
	name := strings.ToLower(c.BasicConfig.Provider)
	if _, ok := c.Providers[name]; !ok {
		return fmt.Errorf("provider %q not configured", name)
	}
	if c.ResolveAPIKey(name) == "" {
		return fmt.Errorf("api key for provider %q missing: set providers.%s.api_key or %s", name, name, apiKeyEnv[name])
	}
	return nil
}

// ResolveAPIKey returns the API key for the named provider, falling back to
// the provider's conventional environment variable.
func (c *Config) ResolveAPIKey(provider string) string {
	if prov, ok := c.Providers[provider]; ok && prov.APIKey != "" {
		return prov.APIKey
	}
	if env := apiKeyEnv[provider]; env != "" {
		return os.Getenv(env)
	}
	return ""
}
