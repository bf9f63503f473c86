// Package config loads environment configuration for the dualhead CLI.
//
// Only the command-line shell reads these values; the layout rules are
// compiled in and never come from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// BackendXrandr queries and applies through the xrandr binary.
	BackendXrandr = "xrandr"
	// BackendX11 queries over the RandR protocol and applies through xrandr.
	BackendX11 = "x11"

	defaultXrandrPath = "xrandr"
	defaultBackend    = BackendXrandr
	defaultTimeoutMs  = 10000
	defaultLogLevel   = "info"
)

// Config holds runtime configuration values.
type Config struct {
	XrandrPath string
	Backend    string
	Display    string
	Timeout    time.Duration
	LogLevel   string
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		XrandrPath: defaultXrandrPath,
		Backend:    defaultBackend,
		Timeout:    defaultTimeoutMs * time.Millisecond,
		LogLevel:   defaultLogLevel,
	}

	cfg.XrandrPath = envString("DUALHEAD_XRANDR", cfg.XrandrPath)
	cfg.Backend = normalizeBackend(envString("DUALHEAD_BACKEND", cfg.Backend))
	cfg.Display = strings.TrimSpace(os.Getenv("DISPLAY"))
	cfg.LogLevel = strings.ToLower(envString("LOG_LEVEL", cfg.LogLevel))

	timeoutMs, err := envInt("DUALHEAD_TIMEOUT_MS", defaultTimeoutMs)
	if err != nil {
		return Config{}, err
	}
	if timeoutMs <= 0 {
		return Config{}, fmt.Errorf("DUALHEAD_TIMEOUT_MS must be > 0")
	}
	cfg.Timeout = time.Duration(timeoutMs) * time.Millisecond

	return cfg, nil
}

// normalizeBackend ensures a supported backend value.
func normalizeBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BackendX11, "randr":
		return BackendX11
	default:
		return BackendXrandr
	}
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
