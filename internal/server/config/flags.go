package config

import (
	"flag"
	"io"
	"time"

	"github.com/notesvault/notesvault/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-w", "-e", "-b", "-r", "-u", "-p", "-x"}

// parseFlags populates Config fields from short command-line flags.
//
//	-a string    REST bind address (e.g. ":8000")
//	-g string    gRPC health bind address
//	-d string    database DSN
//	-s string    token signing key
//	-t int       token validity, minutes
//	-w duration  store timeout (e.g. "5s")
//	-e string    environment: local, dev, prod
//	-b string    S3 bucket
//	-r string    S3 region
//	-u string    S3 root user
//	-p string    S3 root password
//	-x string    S3 base endpoint
//
// Unknown arguments are filtered out first so -c/-config and other layers
// don't trip the parser.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "REST address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing key")
	ttl := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.DurationVar(&config.StoreTimeout, "w", config.StoreTimeout, "store timeout")
	fs.StringVar(&config.Env, "e", config.Env, "environment (local, dev, prod)")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3BaseEndpoint, "x", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// only an explicit -t overrides, so sub-minute values from other layers survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
