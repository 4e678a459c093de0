// Package config holds the runtime settings of skinscan: where data lives,
// how the HTTP server listens and how the simulated scan is paced.
//
// Settings are resolved in order: built-in defaults, a YAML file, then
// SKINSCAN_* environment variables, then command-line flags.
package config
