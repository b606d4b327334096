package config

import (
	"flag"
	"os"

	"github.com/CHJCOCO/ryuin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the upload API server (default from Config)
//	-t string   attachment transport: server or presigned
//	-o string   Origin header for inquiry requests
//	-n int      number of files uploading at once
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-o", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the upload API server")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "attachment transport (server or presigned)")
	fs.StringVar(&cfg.Origin, "o", cfg.Origin, "Origin header for inquiry requests")
	fs.IntVar(&cfg.Concurrency, "n", cfg.Concurrency, "number of files uploading at once")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
