package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Mode               string        `mapstructure:"mode"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"`
}

// LogConfig configures logging
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// JWTConfig configures token signing
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// DatabaseConfig configures the relational store holding user accounts
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql, postgres, sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig configures the dataset and report cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// DataTTL bounds how long a processed dataset stays resident.
	DataTTL time.Duration `mapstructure:"data_ttl"`
}

// IngestConfig configures file ingestion
type IngestConfig struct {
	// WatchDir, when set, is polled via fsnotify: files dropped there are
	// ingested automatically under a session named after the file.
	WatchDir    string `mapstructure:"watch_dir"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

// WorkerConfig configures background report computation
type WorkerConfig struct {
	Count int `mapstructure:"count"`
	// QueueSize bounds pending jobs; enqueue fails beyond it.
	QueueSize int `mapstructure:"queue_size"`
}

// Load reads and validates the configuration file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Redis.DataTTL <= 0 {
		c.Redis.DataTTL = 30 * time.Minute
	}
	if c.Worker.Count <= 0 {
		c.Worker.Count = 4
	}
	if c.Worker.QueueSize <= 0 {
		c.Worker.QueueSize = 64
	}
	if c.Ingest.MaxFileSize <= 0 {
		c.Ingest.MaxFileSize = 64 << 20
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode: %s, must be 'debug' or 'release'", c.Server.Mode)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters for security")
	}

	if c.Database.Driver == "" {
		return fmt.Errorf("database.driver is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}

	return nil
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetReadTimeout returns the server read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return c.Server.ReadTimeout
}

// GetWriteTimeout returns the server write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Server.WriteTimeout
}
