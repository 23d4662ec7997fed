// Package config reads process configuration from the environment with an
// env-var-with-fallback style, so cmd/routingd and its dependencies share
// one place to look.
package config

import (
	"os"
	"strconv"
)

// Get returns the environment variable named key, or fallback if it is
// unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt64 is Get for an integer-valued variable. A value that fails to
// parse is treated the same as an absent one.
func GetInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// GetInt32 is GetInt64 truncated to int32, for solver knobs like
// SOLVE_SEARCH_WORKERS that the underlying proto field expects as int32.
func GetInt32(key string, fallback int32) int32 {
	return int32(GetInt64(key, int64(fallback)))
}
