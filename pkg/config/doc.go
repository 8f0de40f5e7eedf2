// Package config handles configuration management for snipsync.
// It supports loading configuration from multiple sources including
// the embedded defaults, the workspace .snipsync.toml file, environment
// variables and command-line flag overrides.
package config
