package config

import "time"

// Config holds runtime settings for the MoodKeeper client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the remote store gRPC endpoint.
//   - LocalDBPath: SQLite file that keeps the session between runs.
//   - WritePolicy: what a failed write does to the session, "logout" or "auth-only".
//   - CatalogPath: mood catalog JSON; empty means the embedded catalog.
//   - DownloadDir: where photo and voice note downloads are written.
//   - RequestTimeout: deadline applied to each remote call.
type Config struct {
	ServerEndpointAddr string
	LocalDBPath        string
	WritePolicy        string
	CatalogPath        string
	DownloadDir        string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LocalDBPath = "moodkeeper.db"
	c.WritePolicy = "logout"
	c.CatalogPath = ""
	c.DownloadDir = "downloads"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from defaults, then the JSON file named by
// -c/-config in args (if any), then the flags in args. Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
