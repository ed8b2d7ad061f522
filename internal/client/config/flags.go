package config

import (
	"flag"
	"os"
	"time"

	"github.com/dvolkovs/fileshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST API (default from Config)
//	-i int      session poll interval in seconds (default from Config)
//	-d string   SQLite DSN for the local state database
//	-o string   directory for saved downloads
//
// os.Args is filtered to the flags handled here, using flagx.FilterArgs, to
// avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the backend REST API")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "session poll interval (in seconds)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "SQLite DSN for the local state database")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for saved downloads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
