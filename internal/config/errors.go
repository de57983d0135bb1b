package config

import "errors"

// Sentinels for the two ways loading can fail: the sources could not be
// read at all, or they were read but failed validation. Load wraps both, so
// callers distinguish them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
