// Package config loads, normalizes, and validates the TOML configuration
// that drives lathe's directories, tool invocations, and notifications.
package config
