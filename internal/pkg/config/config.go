package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Overpass  OverpassConfig  `mapstructure:"overpass"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// OverpassConfig tunes the facility gateway: mirror list, per-attempt
// timeout, retry rounds, and the pauses slept between rounds.
type OverpassConfig struct {
	Endpoints []string `mapstructure:"endpoints"`
	Timeout   int      `mapstructure:"timeout"` // seconds per attempt
	Retries   int      `mapstructure:"retries"` // rounds beyond the first
	Backoff   string   `mapstructure:"backoff"` // comma-separated seconds
	Verbose   bool     `mapstructure:"verbose"`
}

// BackoffSchedule parses the backoff field ("1,3,6") into durations.
// Malformed entries are skipped; an empty result means the caller should use
// its default schedule.
func (o OverpassConfig) BackoffSchedule() []time.Duration {
	var out []time.Duration
	for _, part := range strings.Split(o.Backoff, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		secs, err := strconv.ParseFloat(part, 64)
		if err != nil || secs < 0 {
			continue
		}
		out = append(out, time.Duration(secs*float64(time.Second)))
	}
	return out
}

// PlannerConfig locates the fallback dataset and the directory map artifacts
// are written to.
type PlannerConfig struct {
	FallbackFile string `mapstructure:"fallback_file"`
	RunsDir      string `mapstructure:"runs_dir"`
}

// DatabaseConfig is optional: an empty host disables the managed facility
// catalog and the planner reads fallback data from the JSON file only.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// NATSConfig is optional: an empty URL disables event publishing and the
// WebSocket relay.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

func (n NATSConfig) Enabled() bool { return n.URL != "" }

// ValkeyConfig is optional: an empty address keeps the land-use cache local
// to the process.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

func (v ValkeyConfig) Enabled() bool { return v.Addr != "" }

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("overpass.endpoints", []string{})
	v.SetDefault("overpass.timeout", 45)
	v.SetDefault("overpass.retries", 2)
	v.SetDefault("overpass.backoff", "1,3,6")
	v.SetDefault("overpass.verbose", false)
	v.SetDefault("planner.fallback_file", "fallback_facilities.json")
	v.SetDefault("planner.runs_dir", "runs")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "transcalc")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "transcalc")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRANSCALC_OVERPASS_TIMEOUT → overpass.timeout
	v.SetEnvPrefix("TRANSCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Overpass.Timeout <= 0 {
		errs = append(errs, "overpass.timeout must be positive")
	}
	if c.Overpass.Retries < 0 {
		errs = append(errs, "overpass.retries cannot be negative")
	}
	if c.Planner.RunsDir == "" {
		errs = append(errs, "planner.runs_dir is required")
	}
	if c.Database.Enabled() {
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required when database.host is set")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required when database.host is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
