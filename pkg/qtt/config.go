package qtt

import (
	"github.com/VandersypenQutech/qtt/internal/adapters/opcua"
	"github.com/VandersypenQutech/qtt/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects
// can construct or modify it programmatically.
type Config = config.Config

type (
	// StationConfig describes the simulated station layout.
	StationConfig = config.StationConfig
	// StorageConfig selects and configures the dataset store.
	StorageConfig = config.StorageConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// ScanConfig holds scan defaults applied to jobs that omit them.
	ScanConfig = config.ScanConfig
	// OPCUAConfig holds connection + node details for rack hardware.
	OPCUAConfig = opcua.Config
	// OPCUANodeConfig maps one node onto a parameter name.
	OPCUANodeConfig = opcua.NodeConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
