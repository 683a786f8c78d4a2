package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

var validDrivers = map[string]bool{
	DriverMemory:   true,
	DriverFile:     true,
	DriverSQLite:   true,
	DriverPostgres: true,
	DriverRedis:    true,
}

type Config struct {
	ServerPort  string      `toml:"server_port"`
	AppEnv      string      `toml:"app_env"`
	LogLevel    string      `toml:"log_level"`
	CORSOrigins []string    `toml:"cors_allowed_origins"`
	IndexPath   string      `toml:"index_html_path"`
	Store       StoreConfig `toml:"store"`
	DB          DBConfig    `toml:"postgres"`
	Redis       RedisConfig `toml:"redis"`
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.ServerPort)
	if err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %q: must be between 1 and 65535", c.ServerPort)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be one of memory, file, sqlite, postgres, redis", c.Store.Driver)
	}
	switch c.Store.Driver {
	case DriverMemory:
		if c.AppEnv == "prod" {
			return fmt.Errorf("STORE_DRIVER memory must not be used in prod environment")
		}
	case DriverFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("STORE_FILE_PATH is required when STORE_DRIVER is file")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is sqlite")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_DRIVER is redis")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid REDIS_DB %d: must not be negative", c.Redis.DB)
		}
	}
	return nil
}

type StoreConfig struct {
	Driver     string `toml:"driver"`
	FilePath   string `toml:"file_path"`
	SQLitePath string `toml:"sqlite_path"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Defaults returns the configuration used when neither a config file nor the
// environment sets a value.
func Defaults() Config {
	return Config{
		ServerPort:  "8080",
		AppEnv:      "local",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		IndexPath:   "templates/index.html",
		Store: StoreConfig{
			Driver:     DriverMemory,
			FilePath:   "todo.json",
			SQLitePath: "todos.db",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "todo",
			Password: "todo",
			Name:     "todo",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			DB:     0,
			Prefix: "todos:",
		},
	}
}

// Load reads the configuration from the environment over Defaults.
func Load() Config {
	return fromEnv(Defaults())
}

// LoadFile decodes the TOML file at path over Defaults. Environment variables
// still take precedence over the file.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return fromEnv(cfg), nil
}

// Resolve loads the TOML file at path when one is given, otherwise the
// environment alone.
func Resolve(path string) (Config, error) {
	if path == "" {
		return Load(), nil
	}
	return LoadFile(path)
}

func fromEnv(base Config) Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", base.ServerPort),
		AppEnv:      envOrDefault("APP_ENV", base.AppEnv),
		LogLevel:    envOrDefault("LOG_LEVEL", base.LogLevel),
		CORSOrigins: envListOrDefault("CORS_ALLOWED_ORIGINS", base.CORSOrigins),
		IndexPath:   envOrDefault("INDEX_HTML_PATH", base.IndexPath),
		Store: StoreConfig{
			Driver:     strings.ToLower(envOrDefault("STORE_DRIVER", base.Store.Driver)),
			FilePath:   envOrDefault("STORE_FILE_PATH", base.Store.FilePath),
			SQLitePath: envOrDefault("SQLITE_PATH", base.Store.SQLitePath),
		},
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", base.DB.Host),
			Port:     envOrDefault("DB_PORT", base.DB.Port),
			User:     envOrDefault("DB_USER", base.DB.User),
			Password: envOrDefault("DB_PASSWORD", base.DB.Password),
			Name:     envOrDefault("DB_NAME", base.DB.Name),
			SSLMode:  envOrDefault("DB_SSLMODE", base.DB.SSLMode),
		},
		Redis: RedisConfig{
			Addr:     envOrDefault("REDIS_ADDR", base.Redis.Addr),
			Password: envOrDefault("REDIS_PASSWORD", base.Redis.Password),
			DB:       envIntOrDefault("REDIS_DB", base.Redis.DB),
			Prefix:   envOrDefault("REDIS_PREFIX", base.Redis.Prefix),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

// envListOrDefault splits a comma separated variable, dropping blank items.
func envListOrDefault(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
