package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Query    QueryConfig
}

type ServerConfig struct {
	Host            string
	Port            int           `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver          string `validate:"oneof=sqlite mysql postgres"`
	DSN             string `validate:"required"`
	MaxOpenConns    int    `validate:"min=1"`
	MaxIdleConns    int    `validate:"min=0"`
	ConnMaxLifetime time.Duration
	LogLevel        string `validate:"oneof=silent error warn info"`
	UsersCSV        string
	OrdersCSV       string
	AutoImport      bool
	ImportBatchSize int `validate:"min=1"`
}

type LoggerConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int `validate:"min=1"`
	RateLimitBurst  int `validate:"min=1"`
	AllowedOrigins  []string
	TrustedProxies  []string
}

// QueryConfig bounds the page sizes list endpoints accept.
type QueryConfig struct {
	DefaultLimit int `validate:"min=1,ltefield=MaxLimit"`
	MaxLimit     int `validate:"min=1"`
}

var defaults = map[string]any{
	"SERVER_HOST":                 "localhost",
	"SERVER_PORT":                 3000,
	"SERVER_READ_TIMEOUT":         "10s",
	"SERVER_WRITE_TIMEOUT":        "10s",
	"SERVER_IDLE_TIMEOUT":         "60s",
	"SERVER_SHUTDOWN_TIMEOUT":     "30s",
	"DB_DRIVER":                   DriverSQLite,
	"DB_DSN":                      "./customer_data.db",
	"DB_MAX_OPEN_CONNS":           25,
	"DB_MAX_IDLE_CONNS":           5,
	"DB_CONN_MAX_LIFETIME":        "5m",
	"DB_LOG_LEVEL":                "warn",
	"DB_USERS_CSV":                "users.csv",
	"DB_ORDERS_CSV":               "orders.csv",
	"DB_AUTO_IMPORT":              true,
	"DB_IMPORT_BATCH_SIZE":        1000,
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "json",
	"SECURITY_RATE_LIMIT_ENABLED": true,
	"SECURITY_RATE_LIMIT_RPS":     100,
	"SECURITY_RATE_LIMIT_BURST":   20,
	"SECURITY_ALLOWED_ORIGINS":    "*",
	"SECURITY_TRUSTED_PROXIES":    "127.0.0.1",
	"QUERY_DEFAULT_LIMIT":         10,
	"QUERY_MAX_LIMIT":             100,
}

// Load reads the configuration from the environment. When CONFIG_FILE is set
// the file is read first and environment variables override its keys.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        strings.ToLower(v.GetString("DB_LOG_LEVEL")),
			UsersCSV:        v.GetString("DB_USERS_CSV"),
			OrdersCSV:       v.GetString("DB_ORDERS_CSV"),
			AutoImport:      v.GetBool("DB_AUTO_IMPORT"),
			ImportBatchSize: v.GetInt("DB_IMPORT_BATCH_SIZE"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("SECURITY_RATE_LIMIT_ENABLED"),
			RateLimitRPS:    v.GetInt("SECURITY_RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("SECURITY_RATE_LIMIT_BURST"),
			AllowedOrigins:  splitList(v.GetString("SECURITY_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("SECURITY_TRUSTED_PROXIES")),
		},
		Query: QueryConfig{
			DefaultLimit: v.GetInt("QUERY_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("QUERY_MAX_LIMIT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
