// Package config loads, normalizes, and validates taskcenter configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the environment variables the
// dashboard has always used (OPENAI_API_KEY, TASK_DASHBOARD_PORT), optionally
// seeded from a .env file. The Config type centralizes every knob the server
// and CLI need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
