package config

import (
	"errors"
	"fmt"
	"strings"

	"go-inventory-crm/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LoginRate LoginRateConfig `mapstructure:"login_rate"`
}

type ServerConfig struct {
	AppName string `mapstructure:"app_name"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"` // debug / release
}

// Addr returns the listen address for fiber.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts the log section into logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

type PoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
}

type DatabaseConfig struct {
	Driver   string     `mapstructure:"driver"` // postgres / sqlite
	DSN      string     `mapstructure:"dsn"`
	LogLevel string     `mapstructure:"log_level"` // silent / error / warn / info
	Pool     PoolConfig `mapstructure:"pool"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
}

// AdminConfig holds the password given to default accounts on first start.
type AdminConfig struct {
	DefaultPassword string `mapstructure:"default_password"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LoginRateConfig limits login attempts per client IP. Requires redis.
type LoginRateConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_name", "Inventory CRM")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "crm.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	// database.driver has no default; see inferDriver
	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "./data/crm.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.pool.max_open_conns", 20)
	v.SetDefault("database.pool.max_idle_conns", 5)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 3600)

	v.SetDefault("jwt.secret", "dev-secret-change-in-production")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("jwt.issuer", "go-inventory-crm")

	v.SetDefault("admin.default_password", "123456")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "crm")

	v.SetDefault("login_rate.window_seconds", 300)
	v.SetDefault("login_rate.max_attempts", 10)
}

// Load reads .env, an optional config.yml and the environment, in that order of precedence
// (environment wins). SERVER_PORT maps to server.port and so on.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugw("dotenv_not_loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./etc")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Variables used by earlier deployments.
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logger.Debugw("config_file_not_found", "fallback", "env_or_defaults")
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Database.Driver = inferDriver(cfg.Database.Driver, cfg.Database.DSN)
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("jwt.secret must not be empty")
	}
	return &cfg, nil
}

// inferDriver keeps an explicit driver, otherwise picks postgres for a postgres URL and sqlite for anything else.
func inferDriver(driver, dsn string) string {
	if d := strings.TrimSpace(driver); d != "" {
		return d
	}
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}
