package config

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"

	"skinscan/progress"
)

const (
	AppName = "skinscan"

	DefaultPort = 8081

	DefaultMaxUploadSize = 10 << 20

	DefaultSplashDelay = 2500 * time.Millisecond

	// Idle sessions are dropped after DefaultSessionTTL; at most
	// DefaultMaxSessions are kept alive.
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
)

type Config struct {
	Port           int
	DBPath         string
	UploadDir      string
	MaxUploadSize  int64
	AllowedOrigins []string

	ProgressInterval  time.Duration
	ProgressIncrement float64
	CompletionDelay   time.Duration
	SplashDelay       time.Duration

	SessionTTL  time.Duration
	MaxSessions int
}

func NewConfig() *Config {
	return &Config{
		Port:              DefaultPort,
		DBPath:            filepath.Join(XDGDataDir(), "skinscan.db"),
		UploadDir:         filepath.Join(XDGDataDir(), "uploads"),
		MaxUploadSize:     DefaultMaxUploadSize,
		AllowedOrigins:    []string{"*"},
		ProgressInterval:  progress.DefaultInterval,
		ProgressIncrement: progress.DefaultIncrement,
		CompletionDelay:   progress.DefaultCompletionDelay,
		SplashDelay:       DefaultSplashDelay,
		SessionTTL:        DefaultSessionTTL,
		MaxSessions:       DefaultMaxSessions,
	}
}

// XDGDataDir is where the history database and uploads are kept by default.
// On Linux: ~/.local/share/skinscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir is searched for config.yaml.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Progress returns the pacing of the simulated scan.
func (c *Config) Progress() progress.Config {
	return progress.Config{
		Interval:        c.ProgressInterval,
		Increment:       c.ProgressIncrement,
		CompletionDelay: c.CompletionDelay,
		Stages:          progress.DefaultStages,
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.MaxUploadSize <= 0 {
		return ErrInvalidUploadLimit
	}
	if c.ProgressInterval <= 0 {
		return ErrInvalidTick
	}
	if c.ProgressIncrement <= 0 || c.ProgressIncrement > 100 {
		return ErrInvalidIncrement
	}
	if c.CompletionDelay < 0 || c.SplashDelay < 0 {
		return ErrInvalidDelay
	}
	if c.SessionTTL <= 0 || c.MaxSessions <= 0 {
		return ErrInvalidSessionLimit
	}
	if c.DBPath == "" || c.UploadDir == "" {
		return ErrEmptyPath
	}
	return nil
}
