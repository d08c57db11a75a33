// Package config provides environment-based configuration helpers
// for the echosight binary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default service configuration.
const (
	DefaultListenPort  = "8090"
	DefaultCameraID    = 0
	DefaultTickPeriod  = 2 * time.Second
	DefaultWarmupDelay = 500 * time.Millisecond
)

// String returns the value of the named env var, or def if unset.
func String(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// Required returns the value of the named env var.
// Exits the process with a usage hint if not set.
func Required(name string) string {
	v := os.Getenv(name)
	if v == "" {
		fmt.Fprintf(os.Stderr, "Error: %s environment variable is required\n", name)
		fmt.Fprintf(os.Stderr, "Usage: %s=<value> echosight\n", name)
		os.Exit(1)
	}
	return v
}

// Int returns the named env var parsed as an int, or def if unset or invalid.
func Int(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Duration returns the named env var parsed as a time.Duration
// (e.g. "2s", "500ms"), or def if unset or invalid.
func Duration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// ListenAddr returns the HTTP listen address for the command surface.
func ListenAddr() string {
	return ":" + String("ECHOSIGHT_PORT", DefaultListenPort)
}

// DetectURL returns the remote detection endpoint URL.
func DetectURL() string {
	return Required("DETECT_URL")
}

// VoiceURL returns the remote voice synthesis endpoint URL.
// May be empty, in which case only the local fallback is used.
func VoiceURL() string {
	return os.Getenv("VOICE_URL")
}
