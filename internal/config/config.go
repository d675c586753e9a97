package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Clipboard sources
const (
	ClipboardTmux = "tmux"
	ClipboardNone = "none"
)

// Config represents the expander configuration
type Config struct {
	DBPath     string `mapstructure:"db_path"`
	LogLevel   string `mapstructure:"log_level"`  // debug, info, warn, error
	LogFormat  string `mapstructure:"log_format"` // console, json or auto
	ListenAddr string `mapstructure:"listen_addr"`
	Clipboard  string `mapstructure:"clipboard"` // tmux or none
}

// Dir returns the expander home directory: $EXPANDER_HOME or ~/.expander.
func Dir() (string, error) {
	if dir := os.Getenv("EXPANDER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".expander"), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	dir, err := Dir()
	if err != nil {
		dir = ".expander"
	}
	return &Config{
		DBPath:     filepath.Join(dir, "expander.db"),
		LogLevel:   "info",
		LogFormat:  "auto",
		ListenAddr: "127.0.0.1:7466",
		Clipboard:  ClipboardTmux,
	}
}

// Load reads config.yaml from the expander home directory.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadConfig(dir)
}

// LoadConfig reads config.yaml from dir. A missing file yields the defaults;
// EXPANDER_* environment variables override both.
func LoadConfig(dir string) (*Config, error) {
	v := newViper(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Clipboard != ClipboardTmux && cfg.Clipboard != ClipboardNone {
		return nil, fmt.Errorf("invalid clipboard %q (must be %s or %s)", cfg.Clipboard, ClipboardTmux, ClipboardNone)
	}

	return &cfg, nil
}

// SaveConfig writes config.yaml to dir
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.Set("db_path", cfg.DBPath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)
	v.Set("listen_addr", cfg.ListenAddr)
	v.Set("clipboard", cfg.Clipboard)

	path := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func newViper(dir string) *viper.Viper {
	def := DefaultConfig()
	if dir != "" {
		def.DBPath = filepath.Join(dir, "expander.db")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("EXPANDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("clipboard", def.Clipboard)

	return v
}
