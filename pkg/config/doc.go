// Package config handles configuration management for postgen.
//
// Values are layered, later sources winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the template engine's answers file (TOML, YAML or JSON with comments)
//  3. POSTGEN_* environment variables, "__" separating nested keys
//  4. explicit overrides, usually command-line flags
//
// The result is a plain Config value handed to each component; nothing
// reads configuration from globals.
package config
