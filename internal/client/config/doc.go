// Package config loads runtime configuration for the MoodKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a  server address      -l  local database file
//	-w  write policy        -m  mood catalog file
//	-o  download directory  -t  request timeout (seconds)
package config
