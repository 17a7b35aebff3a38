package config

import "time"

// BackendsConfig describes the model backends the draft adapters talk to.
// Set once at startup; adapters treat their config as read-only.
type BackendsConfig struct {
	Local  LocalBackendConfig  `yaml:"local"`
	Remote RemoteBackendConfig `yaml:"remote"`
}

type LocalBackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type RemoteBackendConfig struct {
	BaseURL string            `yaml:"base_url"`
	Model   string            `yaml:"model"`
	APIKey  string            `yaml:"api_key"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers,omitempty"`
}

func DefaultBackendsConfig() *BackendsConfig {
	return &BackendsConfig{
		Local: LocalBackendConfig{
			BaseURL: "http://127.0.0.1:11434",
			Model:   "llama3.1:latest",
			Timeout: 15 * time.Second,
		},
		Remote: RemoteBackendConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 15 * time.Second,
		},
	}
}
