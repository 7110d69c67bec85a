package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite or postgres
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type SeedConfig struct {
	Count             int     `mapstructure:"count"`
	IncomeProbability float64 `mapstructure:"income_probability"`
	WindowDays        int     `mapstructure:"window_days"`
	RandomSeed        int64   `mapstructure:"random_seed"` // 0 picks a time based seed
}

type AccountsConfig struct {
	RefreshDelay   time.Duration `mapstructure:"refresh_delay"`
	RefreshRetries uint64        `mapstructure:"refresh_retries"`
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Accounts AccountsConfig `mapstructure:"accounts"`
	Log      LogConfig      `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/trackpay.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("seed.count", 60)
	v.SetDefault("seed.income_probability", 0.15)
	v.SetDefault("seed.window_days", 90)
	v.SetDefault("seed.random_seed", 0)

	v.SetDefault("accounts.refresh_delay", "1500ms")
	v.SetDefault("accounts.refresh_retries", 3)
	v.SetDefault("accounts.refresh_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
}

// Load reads .env, then the optional config file, then TRACKPAY_* environment
// overrides (e.g. TRACKPAY_SERVER_PORT=9000). An empty path looks for
// config.yaml in the working directory and tolerates its absence.
func Load(path string) (*Config, error) {
	// Load .env
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("TRACKPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unknown server mode %q", c.Server.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Seed.IncomeProbability < 0 || c.Seed.IncomeProbability > 1 {
		return fmt.Errorf("config: seed.income_probability must be within [0,1], got %v", c.Seed.IncomeProbability)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
