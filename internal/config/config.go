package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cispa-hq/cispa/internal/utils"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	RatePerMinute int    `yaml:"rate_per_minute"`
}

type DBConfig struct {
	// Path to the sqlite file. Empty selects the in-memory store.
	Path          string `yaml:"path"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", RatePerMinute: 100},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the yaml config at path when one exists and then applies the
// CISPA_* environment overrides. A missing file is not an error; every field
// has a usable default.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.Server.Addr = utils.SafeEnv("CISPA_ADDR", cfg.Server.Addr)
	cfg.Server.RatePerMinute = utils.SafeEnvInt("CISPA_RATE_PER_MINUTE", cfg.Server.RatePerMinute)
	cfg.DB.Path = utils.SafeEnv("CISPA_DB_PATH", cfg.DB.Path)
	cfg.DB.MigrationsDir = utils.SafeEnv("CISPA_MIGRATIONS_DIR", cfg.DB.MigrationsDir)
	cfg.Auth.JWTSecret = utils.SafeEnv("CISPA_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Log.Level = utils.SafeEnv("CISPA_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = utils.SafeEnv("CISPA_LOG_FILE", cfg.Log.File)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RatePerMinute <= 0 {
		cfg.Server.RatePerMinute = 100
	}
	return cfg, nil
}
