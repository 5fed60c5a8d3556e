package config

import (
	"flag"
	"io"
	"strings"

	"github.com/notesvault/notesvault/internal/flagx"
)

// parseFlags populates Config fields from short command-line flags.
//
//	-a string    server URL (e.g. "http://127.0.0.1:8000")
//	-f string    session file
//	-t duration  request timeout (e.g. "10s")
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server URL")
	fs.StringVar(&cfg.SessionPath, "f", cfg.SessionPath, "session file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-f", "-t"})); err != nil {
		return err
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return nil
}
