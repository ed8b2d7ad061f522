package config

import "time"

// Config holds runtime settings for the fileshare CLI.
//
// Units: PollInterval is a time.Duration (e.g., 3*time.Second); it drives the
// session view's refresh ticker.
type Config struct {
	ServerEndpointAddr string
	PollInterval       time.Duration
	DatabaseDSN        string
	DownloadDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080/api"
	c.PollInterval = 3 * time.Second
	c.DatabaseDSN = "fileshare.db"
	c.DownloadDir = "downloads"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), a JSON file (if given)
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
