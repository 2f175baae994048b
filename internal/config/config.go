package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
	Reporting ReportingConfig `yaml:"reporting"`
	Storage   StorageConfig   `yaml:"storage"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
	// TxTimeout bounds every transaction including its lock waits
	TxTimeout time.Duration `yaml:"tx_timeout"`
}

// URL renders the connection string in the form golang-migrate expects
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	ReportTTL time.Duration `yaml:"report_ttl"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type ReportingConfig struct {
	Timezone string `yaml:"timezone"`
}

// Location resolves the reporting time zone. The name is also handed to the
// database, so it must be an IANA zone rather than the host's "Local".
func (r ReportingConfig) Location() (*time.Location, error) {
	if r.Timezone == "Local" {
		return nil, errors.New("must be an IANA zone name such as Asia/Almaty, not Local")
	}
	return time.LoadLocation(r.Timezone)
}

type StorageConfig struct {
	// Driver is postgres or memory
	Driver      string        `yaml:"driver"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Load reads the YAML file at path, expanding ${VAR} references from the
// environment, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			SSLMode:   "disable",
			MaxConns:  10,
			TxTimeout: 5 * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			Exchange: "orders_topic",
			Queue:    "order_notifications",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			ReportTTL: 30 * time.Second,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Reporting: ReportingConfig{Timezone: "UTC"},
		Storage: StorageConfig{
			Driver:      "postgres",
			LockTimeout: 5 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server.port must be positive"))
	}
	switch c.Storage.Driver {
	case "postgres":
		if c.Database.Database == "" {
			errs = append(errs, errors.New("database.database is required for the postgres driver"))
		}
		if c.Database.TxTimeout <= 0 {
			errs = append(errs, errors.New("database.tx_timeout must be positive"))
		}
	case "memory":
		if c.Storage.LockTimeout <= 0 {
			errs = append(errs, errors.New("storage.lock_timeout must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if _, err := c.Reporting.Location(); err != nil {
		errs = append(errs, fmt.Errorf("reporting.timezone: %w", err))
	}
	if c.Redis.Enabled && c.Redis.ReportTTL <= 0 {
		errs = append(errs, errors.New("redis.report_ttl must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
