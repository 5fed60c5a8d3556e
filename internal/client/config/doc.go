// Package config loads settings for the NotesVault terminal client:
// defaults, an optional JSON file, environment variables and command-line
// flags, later sources overriding earlier ones.
package config
