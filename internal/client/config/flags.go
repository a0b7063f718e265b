package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/flagx"
)

var clientFlags = []string{"-a", "-l", "-w", "-m", "-o", "-t"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the remote store
//	-l string   local database file
//	-w string   write failure policy: logout | auth-only
//	-m string   mood catalog JSON file
//	-o string   download directory
//	-t int      request timeout, seconds
//
// Arguments the client does not know about are filtered out with
// flagx.FilterArgs so cobra flags and -c/-config pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, clientFlags)

	fs := flag.NewFlagSet("moodkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database file")
	fs.StringVar(&cfg.WritePolicy, "w", cfg.WritePolicy, "write failure policy (logout|auth-only)")
	fs.StringVar(&cfg.CatalogPath, "m", cfg.CatalogPath, "mood catalog file")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "download directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", *timeout)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
