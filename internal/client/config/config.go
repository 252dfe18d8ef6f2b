package config

import "time"

// Config holds runtime settings for the gophnotes CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LocalDBFile: path of the SQLite note cache.
//   - RequestTimeout: upper bound for a single remote call; expiry counts as offline.
//   - AccessToken: JWT sent with every note request.
//   - LogFile: rotated log destination, keeping REPL output clean.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	LocalDBFile         string
	RequestTimeout      time.Duration
	AccessToken         string
	LogFile             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.LocalDBFile = "gophnotes.db"
	c.RequestTimeout = 5 * time.Second
	c.LogFile = "gophnotes.log"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
