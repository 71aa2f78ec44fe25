package config

import (
	"time"

	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Context settings
	Network        *Network // nil if no direct endpoint is configured
	HostURL        string   // host wallet bridge, empty when not embedded
	Safe           string   // default guarded account
	Plugin         string   // default plugin address
	SafeServiceURL string   // overrides the per-chain transaction service

	// Credentials, read from the environment only
	SignerKey   string
	ProposerKey string
	APIToken    string // bearer token guarding the mutating HTTP routes

	// Relay settings
	GasLimit       uint64
	ReceiptTimeout time.Duration

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Output         string // "table", "json" or "yaml"
	Timeout        time.Duration
	ListenAddr     string
	CORSOrigins    []string // empty means no cross-origin access

	// Resolved configurations
	Plugins []PluginConfig
}

// Network represents network configuration
type Network struct {
	ChainID  uint64 `json:"chainId"`
	Name     string `json:"name"`
	RPCURL   string `json:"rpcUrl"`
	Manager  string `json:"manager,omitempty"`
	Registry string `json:"registry,omitempty"`
}

// PluginConfig is a plugin registration as written in plugrelay.toml.
type PluginConfig struct {
	Name         string                 `toml:"name"`
	ChainID      uint64                 `toml:"chain_id"`
	Address      string                 `toml:"address"`
	MetadataHash string                 `toml:"metadata_hash,omitempty"`
	Metadata     *models.PluginMetadata `toml:"metadata,omitempty"`
}

// FileConfig is the raw plugrelay.toml structure.
type FileConfig struct {
	Networks map[string]NetworkFileConfig `toml:"networks"`
	Plugins  []PluginConfig               `toml:"plugins"`
}

// NetworkFileConfig is a [networks.<name>] table.
type NetworkFileConfig struct {
	RPCURL         string `toml:"rpc_url"`
	ChainID        uint64 `toml:"chain_id"`
	SafeServiceURL string `toml:"safe_service_url,omitempty"`
	Manager        string `toml:"manager,omitempty"`
	Registry       string `toml:"registry,omitempty"`
}
