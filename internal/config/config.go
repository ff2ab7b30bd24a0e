package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"botlint/internal/slogutil"
)

// Dir is the per-project directory holding config, history and logs.
const Dir = ".botlint"

// FileName is the config file inside Dir.
const FileName = "config.toml"

// Config represents the complete botlint configuration
type Config struct {
	Oracle    OracleConfig    `toml:"oracle" json:"oracle" mapstructure:"oracle"`
	Logging   LoggingConfig   `toml:"logging" json:"logging" mapstructure:"logging"`
	Server    ServerConfig    `toml:"server" json:"server" mapstructure:"server"`
	History   HistoryConfig   `toml:"history" json:"history" mapstructure:"history"`
	Checklist ChecklistConfig `toml:"checklist" json:"checklist" mapstructure:"checklist"`
}

// OracleConfig configures the chat-completions oracle used for suggestions
// and typo checks.
type OracleConfig struct {
	// APIKey is never written by Save; it comes from the environment.
	APIKey       string `toml:"-" json:"-" mapstructure:"apiKey"`
	BaseURL      string `toml:"baseUrl" json:"baseUrl" mapstructure:"baseUrl"`
	Model        string `toml:"model" json:"model" mapstructure:"model"`
	MaxTokens    int    `toml:"maxTokens" json:"maxTokens" mapstructure:"maxTokens"`
	TimeoutMs    int    `toml:"timeoutMs" json:"timeoutMs" mapstructure:"timeoutMs"`
	Workers      int    `toml:"workers" json:"workers" mapstructure:"workers"`
	SystemPrompt string `toml:"systemPrompt" json:"systemPrompt" mapstructure:"systemPrompt"`
}

// Available reports whether a credential is configured.
func (o OracleConfig) Available() bool {
	return strings.TrimSpace(o.APIKey) != ""
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `toml:"level" json:"level" mapstructure:"level"`
}

// ServerConfig contains HTTP API configuration
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr" mapstructure:"addr"`
	// TokenHash is a bcrypt hash of the API token. Empty disables auth.
	TokenHash string `toml:"tokenHash" json:"tokenHash" mapstructure:"tokenHash"`
}

// HistoryConfig controls the report archive.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path    string `toml:"path" json:"path" mapstructure:"path"`
}

// ChecklistConfig points at a TOML file of custom checks.
type ChecklistConfig struct {
	Path string `toml:"path" json:"path" mapstructure:"path"`
}

// DefaultSystemPrompt is sent with every oracle request.
const DefaultSystemPrompt = "You are a bot QA expert. Explain and fix configuration errors concisely."

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Model:        "gpt-3.5-turbo",
			MaxTokens:    200,
			TimeoutMs:    30000,
			Workers:      5,
			SystemPrompt: DefaultSystemPrompt,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(Dir, "history.db"),
		},
	}
}

// LoadConfig loads configuration from <root>/.botlint/config.toml.
// A missing file yields DefaultConfig. BOTLINT_* environment variables
// override file values, and OPENAI_API_KEY supplies the oracle credential
// when BOTLINT_ORACLE_APIKEY is unset. A .env file in root is loaded first.
func LoadConfig(root string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(root, Dir))

	v.SetEnvPrefix("BOTLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{Field: FileName, Message: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Field: FileName, Message: err.Error()}
	}

	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(root, cfg.History.Path)
	}
	if cfg.Checklist.Path != "" && !filepath.IsAbs(cfg.Checklist.Path) {
		cfg.Checklist.Path = filepath.Join(root, cfg.Checklist.Path)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("oracle.apiKey", "")
	v.SetDefault("oracle.baseUrl", d.Oracle.BaseURL)
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.maxTokens", d.Oracle.MaxTokens)
	v.SetDefault("oracle.timeoutMs", d.Oracle.TimeoutMs)
	v.SetDefault("oracle.workers", d.Oracle.Workers)
	v.SetDefault("oracle.systemPrompt", d.Oracle.SystemPrompt)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.tokenHash", d.Server.TokenHash)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("checklist.path", d.Checklist.Path)
}

// Path returns the config file location for root.
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Save writes the configuration to <root>/.botlint/config.toml.
// The oracle credential is never persisted.
func (c *Config) Save(root string) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(Path(root), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Oracle.Workers < 1 || c.Oracle.Workers > 32 {
		return &ConfigError{Field: "oracle.workers", Message: fmt.Sprintf("must be between 1 and 32, got %d", c.Oracle.Workers)}
	}
	if c.Oracle.TimeoutMs <= 0 {
		return &ConfigError{Field: "oracle.timeoutMs", Message: "must be positive"}
	}
	if c.Oracle.MaxTokens <= 0 {
		return &ConfigError{Field: "oracle.maxTokens", Message: "must be positive"}
	}
	if _, ok := slogutil.ParseLevel(c.Logging.Level); !ok {
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
