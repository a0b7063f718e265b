package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/moodkeeper/internal/flagx"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// are nil and leave the current value alone.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	LocalDBPath        *string         `json:"local_db_path"`
	WritePolicy        *string         `json:"write_policy"`
	CatalogPath        *string         `json:"catalog_path"`
	DownloadDir        *string         `json:"download_dir"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config in args. Without the flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for _, f := range []struct {
		dst *string
		src *string
	}{
		{&cfg.ServerEndpointAddr, jc.ServerEndpointAddr},
		{&cfg.LocalDBPath, jc.LocalDBPath},
		{&cfg.WritePolicy, jc.WritePolicy},
		{&cfg.CatalogPath, jc.CatalogPath},
		{&cfg.DownloadDir, jc.DownloadDir},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
