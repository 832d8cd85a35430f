package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	KeyHome       = "home"
	KeyLocation   = "location"
	KeyFilename   = "filename"
	KeyDownloader = "downloader"
	KeyHelperPath = "helper-path"
	KeyCacheTTL   = "cache-ttl"
	KeyTimeout    = "timeout"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"

	envPrefix = "UPDATECHECK"

	// ConfigFileName lives in the home directory.
	ConfigFileName = "config.yaml"
)

// Downloaders accepted for KeyDownloader.
const (
	DownloaderHelper = "helper"
	DownloaderHTTP   = "http"
)

// Config holds the settings for an update check.
type Config struct {
	HomeDir    string        `yaml:"home"`
	Location   string        `yaml:"location"`
	Filename   string        `yaml:"filename"`
	Downloader string        `yaml:"downloader"`
	HelperPath string        `yaml:"helper-path,omitempty"`
	CacheTTL   time.Duration `yaml:"cache-ttl"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"-"`
	LogFile    string        `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		HomeDir:    filepath.Join(home, ".update-check"),
		Filename:   "versions.json",
		Downloader: DownloaderHelper,
		CacheTTL:   10 * time.Minute,
		Timeout:    2 * time.Minute,
		LogLevel:   "info",
		LogFile:    "console",
	}
}

type loadSettings struct {
	configPath string
	home       string
}

// Option adjusts Load.
type Option func(*loadSettings)

// WithConfigFile reads path instead of <home>/config.yaml.
func WithConfigFile(path string) Option {
	return func(s *loadSettings) { s.configPath = path }
}

// WithHome sets the home directory used to locate the config file, taking
// precedence over UPDATECHECK_HOME.
func WithHome(dir string) Option {
	return func(s *loadSettings) { s.home = dir }
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// Load resolves configuration with the precedence
// defaults < config file < UPDATECHECK_* environment variables.
func Load(opts ...Option) (Config, error) {
	var s loadSettings
	for _, opt := range opts {
		opt(&s)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if s.home != "" {
		v.Set(KeyHome, s.home)
	}
	home := v.GetString(KeyHome)

	path := s.configPath
	if path == "" {
		path = filepath.Join(home, ConfigFileName)
	}
	if err := mergeConfigFile(v, path); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		HomeDir:    v.GetString(KeyHome),
		Location:   v.GetString(KeyLocation),
		Filename:   v.GetString(KeyFilename),
		Downloader: strings.ToLower(v.GetString(KeyDownloader)),
		HelperPath: v.GetString(KeyHelperPath),
		CacheTTL:   v.GetDuration(KeyCacheTTL),
		Timeout:    v.GetDuration(KeyTimeout),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFile:    v.GetString(KeyLogFile),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the checker cannot run with.
func (c Config) Validate() error {
	switch c.Downloader {
	case DownloaderHelper, DownloaderHTTP:
	default:
		return fmt.Errorf("invalid downloader %q (want %q or %q)", c.Downloader, DownloaderHelper, DownloaderHTTP)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache-ttl must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// Path returns the default config file location for c.
func (c Config) Path() string {
	return filepath.Join(c.HomeDir, ConfigFileName)
}

// Save writes c to path as YAML, creating parent directories. An existing
// file is only replaced when overwrite is set.
func Save(c Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	data, err := yaml.Marshal(fileConfig{
		Config: c,
		Log:    logConfig{Level: c.LogLevel, File: c.LogFile},
	})
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// fileConfig nests the log keys the way viper reads them back.
type fileConfig struct {
	Config `yaml:",inline"`
	Log    logConfig `yaml:"log"`
}

type logConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func mergeConfigFile(v *viper.Viper, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyHome, d.HomeDir)
	v.SetDefault(KeyLocation, d.Location)
	v.SetDefault(KeyFilename, d.Filename)
	v.SetDefault(KeyDownloader, d.Downloader)
	v.SetDefault(KeyHelperPath, d.HelperPath)
	v.SetDefault(KeyCacheTTL, d.CacheTTL)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFile, d.LogFile)
}
