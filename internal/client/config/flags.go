package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/flagx"
)

var ownFlags = []string{"-a", "-d", "-o", "-l", "-t", "-i", "-s", "-v"}

// commandLine is a seam so tests never depend on the test binary's own args.
var commandLine = func() []string { return os.Args[1:] }

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in ownFlags are considered (see flagx.FilterArgs), so the config
// file flags and anything else on the command line are left alone.
//
// Panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("docudefense", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the DocuDefense backend")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	fs.IntVar(&cfg.PageSize, "l", cfg.PageSize, "users per page")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.SearchPath, "s", cfg.SearchPath, "user search endpoint path")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags)); err != nil {
		panic(err)
	}

	// Durations from JSON may be sub-second; only explicit flags replace them.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
