package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/future-hause/hause-gateway/internal/types"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Gate      GateConfig      `yaml:"gate"`
	Intel     IntelConfig     `yaml:"intel"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + strconv.Itoa(d.Port) + "/" + d.Name + "?sslmode=disable"
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

type GateConfig struct {
	Policy  PolicyGateConfig  `yaml:"policy"`
	Secrets SecretsGateConfig `yaml:"secrets"`
}

type PolicyGateConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BundlePath        string        `yaml:"bundle_path"`
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`
}

type SecretsGateConfig struct {
	Enabled bool `yaml:"enabled"`
}

type IntelConfig struct {
	// IngestEnabled gates the ingestion path. Validation always runs;
	// nothing is stored while ingestion is disabled.
	IngestEnabled bool   `yaml:"ingest_enabled"`
	RawDataPath   string `yaml:"raw_data_path"`
}

type RuntimeConfig struct {
	// Mode is one of LOCAL, WORK_REMOTE, DEMO, AIRPLANE.
	Mode string `yaml:"mode"`
	// RemoteDraftDailyCap bounds remote drafts per UTC day in the
	// WORK_REMOTE and DEMO modes. Zero means uncapped.
	RemoteDraftDailyCap int64 `yaml:"remote_draft_daily_cap"`
}

// ParsedMode returns the validated runtime mode, or an error for unknown
// values. There is no fallback mode: a misconfigured mode is fatal.
func (r RuntimeConfig) ParsedMode() (types.RuntimeMode, error) {
	mode, ok := types.ParseRuntimeMode(r.Mode)
	if !ok {
		return "", fmt.Errorf("invalid runtime mode: %q", r.Mode)
	}
	return mode, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "hause",
			User:            "hause",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			DB:       0,
			PoolSize: 10,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Gate: GateConfig{
			Policy: PolicyGateConfig{
				Enabled:           true,
				BundlePath:        "policies",
				EvaluationTimeout: 100 * time.Millisecond,
			},
			Secrets: SecretsGateConfig{Enabled: true},
		},
		Intel: IntelConfig{
			IngestEnabled: false,
			RawDataPath:   "data/raw",
		},
		Runtime: RuntimeConfig{
			// Safe default: local loopback inference only. Remote is
			// never enabled implicitly.
			Mode:                string(types.ModeLocal),
			RemoteDraftDailyCap: 25,
		},
	}
}
