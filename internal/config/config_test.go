package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("explicit missing config file should error")
	}

	m, err = NewManager("")
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	cfg := m.Get()
	if cfg.Provider.Model != "gpt-4o-mini" {
		t.Errorf("default model = %q", cfg.Provider.Model)
	}
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("default retries = %d", cfg.Provider.MaxRetries)
	}
	if cfg.Pipeline.FragmentBudget != 8000 {
		t.Errorf("default fragment budget = %d", cfg.Pipeline.FragmentBudget)
	}
	if cfg.Pipeline.TemplateThreshold != 0.7 || cfg.Pipeline.OptimizeThreshold != 0.7 {
		t.Errorf("default thresholds = %f/%f",
			cfg.Pipeline.TemplateThreshold, cfg.Pipeline.OptimizeThreshold)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `provider:
  model: custom-model
  rpm: 120
pipeline:
  fragment_budget: 4000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	cfg := m.Get()
	if cfg.Provider.Model != "custom-model" || cfg.Provider.RPM != 120 {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Pipeline.FragmentBudget != 4000 {
		t.Errorf("fragment budget = %d", cfg.Pipeline.FragmentBudget)
	}
	// Unset keys keep their defaults.
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("retries = %d, want default 3", cfg.Provider.MaxRetries)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PAPERPARSE_TEST_KEY", "sk-12345")
	if got := ResolveEnvVars("${PAPERPARSE_TEST_KEY}"); got != "sk-12345" {
		t.Errorf("ResolveEnvVars() = %q", got)
	}
	if got := ResolveEnvVars("plain-value"); got != "plain-value" {
		t.Errorf("ResolveEnvVars() = %q", got)
	}
	if got := ResolveEnvVars("${UNSET_VAR_XYZ}"); got != "" {
		t.Errorf("ResolveEnvVars() = %q, want empty", got)
	}
}

func TestClientConfig(t *testing.T) {
	t.Setenv("PAPERPARSE_TEST_API_KEY", "sk-abc")
	cfg := &Config{
		Provider: ProviderConfig{
			Model:             "m",
			APIKey:            "${PAPERPARSE_TEST_API_KEY}",
			RPM:               30,
			MaxRetries:        2,
			RetryDelaySeconds: 0.5,
			TimeoutSeconds:    60,
		},
	}
	cc := cfg.ClientConfig()
	if cc.APIKey != "sk-abc" {
		t.Errorf("APIKey = %q", cc.APIKey)
	}
	if cc.RetryDelay != 500*time.Millisecond || cc.Timeout != 60*time.Second {
		t.Errorf("durations = %v/%v", cc.RetryDelay, cc.Timeout)
	}
}

func TestReloadCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  model: first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	var got string
	m.OnChange(func(c *Config) { got = c.Provider.Model })

	if err := os.WriteFile(path, []byte("provider:\n  model: second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	m.reload()

	if got != "second" {
		t.Errorf("callback saw %q, want second", got)
	}
	if m.Get().Provider.Model != "second" {
		t.Errorf("Get() = %q", m.Get().Provider.Model)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() = %v", err)
	}
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default did not load: %v", err)
	}
	if m.Get().Provider.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", m.Get().Provider.Model)
	}
}
