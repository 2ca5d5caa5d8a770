// Package config loads analysis parameters from a JSON file, CLI defaults
// from the environment and dataset lists from a YAML manifest.
package config
