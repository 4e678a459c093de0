package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".skinscan.yaml"

var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML layout of a configuration file. Zero values leave the
// current setting alone.
type File struct {
	Server struct {
		Port           int           `yaml:"port"`
		UploadDir      string        `yaml:"upload_dir"`
		MaxUploadSize  int64         `yaml:"max_upload_size"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		SessionTTL     time.Duration `yaml:"session_ttl"`
		MaxSessions    int           `yaml:"max_sessions"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Scan struct {
		TickInterval    time.Duration `yaml:"tick_interval"`
		Increment       float64       `yaml:"increment"`
		CompletionDelay time.Duration `yaml:"completion_delay"`
		SplashDelay     time.Duration `yaml:"splash_delay"`
	} `yaml:"scan"`
}

func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// FindConfigFile searches, in order: configPath if given, ./.skinscan.yaml
// and config.yaml in the XDG config directory. It returns "" when nothing
// is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Apply copies the settings present in f onto c.
func (f *File) Apply(c *Config) {
	if f.Server.Port != 0 {
		c.Port = f.Server.Port
	}
	if f.Server.UploadDir != "" {
		c.UploadDir = f.Server.UploadDir
	}
	if f.Server.MaxUploadSize != 0 {
		c.MaxUploadSize = f.Server.MaxUploadSize
	}
	if len(f.Server.AllowedOrigins) > 0 {
		c.AllowedOrigins = f.Server.AllowedOrigins
	}
	if f.Server.SessionTTL != 0 {
		c.SessionTTL = f.Server.SessionTTL
	}
	if f.Server.MaxSessions != 0 {
		c.MaxSessions = f.Server.MaxSessions
	}
	if f.Database.Path != "" {
		c.DBPath = f.Database.Path
	}
	if f.Scan.TickInterval != 0 {
		c.ProgressInterval = f.Scan.TickInterval
	}
	if f.Scan.Increment != 0 {
		c.ProgressIncrement = f.Scan.Increment
	}
	if f.Scan.CompletionDelay != 0 {
		c.CompletionDelay = f.Scan.CompletionDelay
	}
	if f.Scan.SplashDelay != 0 {
		c.SplashDelay = f.Scan.SplashDelay
	}
}

// ApplyEnv reads SKINSCAN_PORT, SKINSCAN_DB and SKINSCAN_UPLOAD_DIR through
// getenv.
func ApplyEnv(c *Config, getenv func(string) string) error {
	if v := getenv("SKINSCAN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SKINSCAN_PORT=%q", ErrInvalidPort, v)
		}
		c.Port = port
	}
	if v := getenv("SKINSCAN_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("SKINSCAN_UPLOAD_DIR"); v != "" {
		c.UploadDir = v
	}
	return nil
}

// Load builds the configuration from defaults, the config file and the
// environment. An explicit configPath that does not exist is an error; a
// missing default file is not.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()

	path := FindConfigFile(configPath)
	if configPath != "" && path == "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if path != "" {
		f, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		f.Apply(cfg)
	}

	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
