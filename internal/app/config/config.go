package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/VandersypenQutech/qtt/internal/adapters/opcua"
)

type Config struct {
	Station StationConfig `yaml:"station"`
	OPCUA   opcua.Config  `yaml:"opcua"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Scan    ScanConfig    `yaml:"scan"`
}

type StationConfig struct {
	DACChannels int                   `yaml:"dac_channels"`
	Gates       map[string]int        `yaml:"gates"`
	Boundaries  map[string][2]float64 `yaml:"boundaries"`
	SampleRate  float64               `yaml:"sample_rate"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"`
	Dir        string `yaml:"dir"`
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type ScanConfig struct {
	WaitTime    time.Duration `yaml:"wait_time"`
	NAverage    int           `yaml:"naverage"`
	SweepPeriod time.Duration `yaml:"sweep_period"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Station.DACChannels == 0 {
		c.Station.DACChannels = 16
	}
	if c.Station.SampleRate == 0 {
		c.Station.SampleRate = 1e6
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "disk"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./data/datasets"
	}
	if c.Storage.Table == "" {
		c.Storage.Table = "datasets"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Scan.NAverage == 0 {
		c.Scan.NAverage = 1
	}
	if c.Scan.SweepPeriod == 0 {
		c.Scan.SweepPeriod = time.Millisecond
	}

	if c.OPCUA.Endpoint != "" {
		c.OPCUA.ApplyDefaults()
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "disk":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the disk backend")
		}
	case "postgres":
		if c.Storage.ConnString == "" {
			return fmt.Errorf("storage.conn_string is required for the postgres backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Station.DACChannels < 1 {
		return fmt.Errorf("station.dac_channels must be at least 1")
	}
	for gate, ch := range c.Station.Gates {
		if ch < 1 || ch > c.Station.DACChannels {
			return fmt.Errorf("gate %q maps to channel %d, outside 1..%d", gate, ch, c.Station.DACChannels)
		}
	}
	for gate, b := range c.Station.Boundaries {
		if b[0] > b[1] {
			return fmt.Errorf("boundary for gate %q has lower bound above upper bound", gate)
		}
	}
	if c.Scan.NAverage < 1 {
		return fmt.Errorf("scan.naverage must be at least 1")
	}

	if c.OPCUA.Endpoint != "" {
		if err := c.OPCUA.Validate(); err != nil {
			return fmt.Errorf("opcua config: %w", err)
		}
	}
	return nil
}
