package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LocalDBFile         string         `json:"local_db_file"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	AccessToken         string         `json:"access_token"`
	LogFile             string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. Absent keys keep their current values. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.LocalDBFile != "" {
		cfg.LocalDBFile = c.LocalDBFile
	}
	if c.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.AccessToken != "" {
		cfg.AccessToken = c.AccessToken
	}
	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}
}
