// Package config loads and validates liberate's configuration.
//
// Configuration is read from config.yaml in the XDG config home or
// /etc/liberate, with LIBERATE_-prefixed environment variables taking
// precedence. All values have working defaults so the tool runs without any
// config file present.
package config
