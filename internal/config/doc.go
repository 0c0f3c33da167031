// Package config loads Sensit configuration from local and global YAML files
// with precedence rules. It is internal; CLI code maps flags, files and
// environment variables into pipeline configuration.
package config
