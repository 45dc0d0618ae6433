package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	toml "github.com/pelletier/go-toml/v2"
)

// Archive source kinds.
const (
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config captures where tideline reads its archive from and where it writes.
type Config struct {
	Source     string
	DBPath     string
	APIBind    string
	ListenAddr string
	LogDir     string
	Timezone   string
}

const (
	defaultConfigPath = "~/.config/tideline/config.toml"
	defaultDBPath     = "~/.local/share/tideline/archive.db"
	defaultLogDir     = "~/.local/share/tideline/logs"
	defaultAPIBind    = "127.0.0.1:7650"
	defaultListenAddr = "127.0.0.1:7650"
	logFileName       = "tideline.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Source:     SourceSQLite,
		DBPath:     mustExpand(defaultDBPath),
		APIBind:    defaultAPIBind,
		ListenAddr: defaultListenAddr,
		LogDir:     mustExpand(defaultLogDir),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Source     string `toml:"source"`
		DBPath     string `toml:"db_path"`
		APIBind    string `toml:"api_bind"`
		ListenAddr string `toml:"listen_addr"`
		LogDir     string `toml:"log_dir"`
		Timezone   string `toml:"timezone"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Source)); v != "" {
		cfg.Source = v
	}
	if v := strings.TrimSpace(raw.DBPath); v != "" {
		cfg.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.ListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	cfg.Timezone = strings.TrimSpace(raw.Timezone)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the source kind and timezone.
func (c Config) Validate() error {
	switch c.Source {
	case SourceSQLite, SourceHTTP:
	default:
		return fmt.Errorf("invalid config: unknown source %q (want %s or %s)", c.Source, SourceSQLite, SourceHTTP)
	}
	if _, err := c.loadLocation(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogPath returns the path of the tideline log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// Location resolves the configured timezone, or time.Local when unset or
// unknown.
func (c Config) Location() *time.Location {
	loc, err := c.loadLocation()
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) loadLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
