package config

import "errors"

var (
	ErrInvalidPort         = errors.New("invalid port: must be between 1 and 65535")
	ErrInvalidUploadLimit  = errors.New("invalid upload limit: must be positive")
	ErrInvalidTick         = errors.New("invalid progress tick: must be positive")
	ErrInvalidIncrement    = errors.New("invalid progress increment: must be in (0, 100]")
	ErrInvalidDelay        = errors.New("invalid delay: must be non-negative")
	ErrInvalidSessionLimit = errors.New("invalid session limits: ttl and max sessions must be positive")
	ErrEmptyPath           = errors.New("database path and upload directory must be set")
)
