package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
)

// FileName is the project configuration file.
const FileName = "plugrelay.toml"

// loadEnvFiles loads .env and .env.local from the project root. Variables
// already set in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFileConfig parses plugrelay.toml. A missing file is an empty config.
// String values may reference environment variables as ${VAR}.
func loadFileConfig(projectRoot string) (*config.FileConfig, error) {
	var raw config.FileConfig

	path := filepath.Join(projectRoot, FileName)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &config.FileConfig{Networks: map[string]config.NetworkFileConfig{}}, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	if raw.Networks == nil {
		raw.Networks = map[string]config.NetworkFileConfig{}
	}
	for name, n := range raw.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.SafeServiceURL = os.ExpandEnv(n.SafeServiceURL)
		n.Manager = os.ExpandEnv(n.Manager)
		n.Registry = os.ExpandEnv(n.Registry)
		raw.Networks[name] = n
	}
	for i := range raw.Plugins {
		raw.Plugins[i].Address = os.ExpandEnv(raw.Plugins[i].Address)
	}

	return &raw, nil
}
