package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/actreflect/internal/game/battlelog"
	"github.com/udisondev/actreflect/internal/game/reflection"
)

// Config holds all configuration of the reflect tooling.
type Config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Database files (actors.yaml, states.yaml, ...)
	DataDir string `yaml:"data_dir"`

	// Tags
	StrictTags bool `yaml:"strict_tags"` // fail load on invalid reflect tags
	CacheSize  int  `yaml:"cache_size"`  // parsed notes kept in memory

	// Battle log
	ReflectionMessage string `yaml:"reflection_message"` // args: target, action
	AnimatedBattle    bool   `yaml:"animated_battle"`

	// Structured trait storage
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:          "info",
		DataDir:           "data",
		CacheSize:         reflection.DefaultCacheSize,
		ReflectionMessage: battlelog.DefaultActionReflection,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "actreflect",
			Password: "actreflect",
			DBName:   "actreflect",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if strings.Count(cfg.ReflectionMessage, "%s") != 2 {
		return cfg, fmt.Errorf("config %s: reflection_message must contain two %%s verbs, got %q", path, cfg.ReflectionMessage)
	}

	return cfg, nil
}

// SlogLevel converts LogLevel to slog.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BattleLogOptions returns battle log options from the config.
func (c Config) BattleLogOptions() battlelog.Options {
	return battlelog.Options{
		ActionReflection: c.ReflectionMessage,
		AnimatedBattle:   c.AnimatedBattle,
	}
}
