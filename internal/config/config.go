package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type MarketCfg struct {
	Symbol  string `yaml:"symbol"`
	Address string `yaml:"address"`
}

type Config struct {
	DryRun bool `yaml:"dry_run"`

	RPC struct {
		HTTPURL string `yaml:"http_url"`
		WSURL   string `yaml:"ws_url"`
	} `yaml:"rpc"`

	Markets []MarketCfg `yaml:"markets"`

	Ladder struct {
		Depth int `yaml:"depth"`
	} `yaml:"ladder"`

	// Probe amounts quoted on every refresh, in atoms.
	Probe struct {
		BaseAtoms  uint64 `yaml:"base_atoms"`
		QuoteAtoms uint64 `yaml:"quote_atoms"`
	} `yaml:"probe"`

	Redis struct {
		Addr      string `yaml:"addr"`
		DB        int    `yaml:"db"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		Stream    string `yaml:"stream"`
		ActiveKey string `yaml:"active_key"`
	} `yaml:"redis"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`

	Timings struct {
		RefreshIntervalMs int `yaml:"refresh_interval_ms"`
		RPCTimeoutMs      int `yaml:"rpc_timeout_ms"`
	} `yaml:"timings"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Timings.RefreshIntervalMs == 0 {
		c.Timings.RefreshIntervalMs = 400
	}
	if c.Timings.RPCTimeoutMs == 0 {
		c.Timings.RPCTimeoutMs = 5000
	}
	if c.Ladder.Depth == 0 {
		c.Ladder.Depth = 32
	}
	if c.Probe.BaseAtoms == 0 {
		c.Probe.BaseAtoms = 1_000_000_000 // 1 SOL
	}
	if c.Probe.QuoteAtoms == 0 {
		c.Probe.QuoteAtoms = 100_000_000 // 100 USDC
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "phoenix:tob"
	}
	if c.Redis.ActiveKey == "" {
		c.Redis.ActiveKey = "phoenix:markets:active"
	}
	return &c, nil
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Timings.RefreshIntervalMs) * time.Millisecond
}

func (c *Config) RPCTimeout() time.Duration {
	return time.Duration(c.Timings.RPCTimeoutMs) * time.Millisecond
}
