// Package config loads phrasebot configuration from .phrasebot/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the dot-directory holding configuration and state.
	DirName = ".phrasebot"
	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"
	// StateFileName is the default snapshot file inside DirName.
	StateFileName = "state.json"
	// TokenEnv overrides the configured bot token when set.
	TokenEnv = "PHRASEBOT_TOKEN"

	defaultPollTimeout = 10
)

// TelegramConfig holds the Bot API connection settings.
type TelegramConfig struct {
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"poll_timeout"` // long-poll timeout in seconds
}

// StateConfig holds the snapshot location, relative to DirName unless
// absolute.
type StateConfig struct {
	File string `yaml:"file"`
}

// Config is the full phrasebot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	State    StateConfig    `yaml:"state"`
}

// Default returns the configuration written by `phrasebot init`.
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{PollTimeout: defaultPollTimeout},
		State:    StateConfig{File: StateFileName},
	}
}

// ConfigPath returns the config file location under projectRoot.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, DirName, FileName)
}

// StatePath returns the snapshot location under projectRoot.
func (c *Config) StatePath(projectRoot string) string {
	if filepath.IsAbs(c.State.File) {
		return c.State.File
	}
	return filepath.Join(projectRoot, DirName, c.State.File)
}

// FindProjectRoot walks up from the working directory until it finds a
// directory containing .phrasebot.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, DirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found (run 'phrasebot init' first)", DirName)
		}
		dir = parent
	}
}

// Load reads the config file under projectRoot and applies the token
// environment override. Missing optional fields fall back to defaults.
func Load(projectRoot string) (*Config, error) {
	path := ConfigPath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Telegram.Token = token
	}
	if cfg.Telegram.PollTimeout <= 0 {
		cfg.Telegram.PollTimeout = defaultPollTimeout
	}
	if cfg.State.File == "" {
		cfg.State.File = StateFileName
	}
	return cfg, nil
}

// Save writes cfg to .phrasebot/config.yaml under projectRoot,
// creating the directory if needed.
func Save(projectRoot string, cfg *Config) error {
	dir := filepath.Join(projectRoot, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	path := ConfigPath(projectRoot)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
