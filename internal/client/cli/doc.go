// Package cli is the interactive NotesVault terminal client: a small REPL
// over the REST API that keeps its session in a local sqlite file.
package cli
