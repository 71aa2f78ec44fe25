package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// PluginAddress pairs a plugin contract address with the chain it is deployed on.
type PluginAddress struct {
	ChainID uint64         `json:"chainId"`
	Address common.Address `json:"address"`
}

// PluginMetadata is the metadata a plugin declares through its metadata provider.
type PluginMetadata struct {
	Name               string `json:"name" toml:"name" yaml:"name"`
	Version            string `json:"version" toml:"version" yaml:"version"`
	RequiresRootAccess bool   `json:"requiresRootAccess" toml:"requires_root_access" yaml:"requiresRootAccess"`
	IconURL            string `json:"iconUrl,omitempty" toml:"icon_url" yaml:"iconUrl,omitempty"`
	AppURL             string `json:"appUrl,omitempty" toml:"app_url" yaml:"appUrl,omitempty"`
}

// PluginDetails is a registered plugin together with its metadata binding.
type PluginDetails struct {
	Address      PluginAddress  `json:"address" yaml:"address"`
	Metadata     PluginMetadata `json:"metadata" yaml:"metadata"`
	MetadataHash common.Hash    `json:"metadataHash" yaml:"metadataHash"`
}

// MetadataSource tells where a registration's metadata comes from.
type MetadataSource string

const (
	MetadataFromChain  MetadataSource = "chain"
	MetadataFromConfig MetadataSource = "config"
)

// PluginRegistration is a known plugin as configured for this client.
type PluginRegistration struct {
	Name     string          `json:"name" yaml:"name"`
	ChainID  uint64          `json:"chainId" yaml:"chainId"`
	Address  common.Address  `json:"address" yaml:"address"`
	Source   MetadataSource  `json:"source" yaml:"source"`
	Metadata *PluginMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	// MetadataHash is only meaningful when Source is MetadataFromConfig.
	MetadataHash common.Hash `json:"metadataHash,omitempty" yaml:"metadataHash,omitempty"`
}
