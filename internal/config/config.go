// Package config handles loading and hot-reloading configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/examtools/paperparse/internal/providers"
)

// Config is the full application configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
}

// ProviderConfig configures the completion-model client. APIKey may use
// ${ENV_VAR} syntax.
type ProviderConfig struct {
	Model               string  `mapstructure:"model" yaml:"model"`
	APIKey              string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL             string  `mapstructure:"base_url" yaml:"base_url"`
	RPM                 int     `mapstructure:"rpm" yaml:"rpm"`
	MaxRetries          int     `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelaySeconds   float64 `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PromptCostPer1M     float64 `mapstructure:"prompt_cost_per_1m" yaml:"prompt_cost_per_1m"`
	CompletionCostPer1M float64 `mapstructure:"completion_cost_per_1m" yaml:"completion_cost_per_1m"`
}

// PipelineConfig tunes the parsing pipeline.
type PipelineConfig struct {
	FragmentBudget    int     `mapstructure:"fragment_budget" yaml:"fragment_budget"`
	TemplateThreshold float64 `mapstructure:"template_threshold" yaml:"template_threshold"`
	OptimizeThreshold float64 `mapstructure:"optimize_threshold" yaml:"optimize_threshold"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:             "gpt-4o-mini",
			APIKey:            "${OPENAI_API_KEY}",
			RPM:               60,
			MaxRetries:        3,
			RetryDelaySeconds: 1,
			TimeoutSeconds:    120,
		},
		Pipeline: PipelineConfig{
			FragmentBudget:    8000,
			TemplateThreshold: 0.7,
			OptimizeThreshold: 0.7,
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a manager and loads the initial config. cfgFile may
// be empty; then config.yaml is searched in . and $HOME/.paperparse, and
// missing files fall back to defaults.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}

	defaults := DefaultConfig()
	m.v.SetDefault("provider", structToMap(defaults.Provider))
	m.v.SetDefault("pipeline", structToMap(defaults.Pipeline))

	m.v.SetEnvPrefix("PAPERPARSE")
	m.v.AutomaticEnv()

	if cfgFile != "" {
		m.v.SetConfigFile(cfgFile)
	} else {
		m.v.SetConfigName("config")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		m.v.AddConfigPath("$HOME/.paperparse")
	}

	if err := m.v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration. Safe for concurrent use.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// OnChange registers a callback run after each successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig enables hot-reloading of the config file.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		m.reload()
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() {
	cfg, err := m.load()
	if err != nil {
		return
	}

	m.mu.Lock()
	m.config = cfg
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ClientConfig converts the provider section into a client config with
// the API key resolved.
func (c *Config) ClientConfig() providers.OpenAIConfig {
	p := c.Provider
	return providers.OpenAIConfig{
		APIKey:              ResolveEnvVars(p.APIKey),
		Model:               p.Model,
		BaseURL:             p.BaseURL,
		RPM:                 p.RPM,
		MaxRetries:          p.MaxRetries,
		RetryDelay:          time.Duration(p.RetryDelaySeconds * float64(time.Second)),
		Timeout:             time.Duration(p.TimeoutSeconds) * time.Second,
		PromptCostPer1M:     p.PromptCostPer1M,
		CompletionCostPer1M: p.CompletionCostPer1M,
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := []byte(`# paperparse configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

// structToMap turns a config section into viper defaults via yaml tags.
func structToMap(section any) map[string]any {
	data, err := yaml.Marshal(section)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
