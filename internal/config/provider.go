package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "PLUGRELAY"

// Credentials are only ever read from the environment.
const (
	SignerKeyEnv   = EnvPrefix + "_SIGNER_KEY"
	ProposerKeyEnv = EnvPrefix + "_PROPOSER_KEY"
	APITokenEnv    = EnvPrefix + "_API_TOKEN"
)

var outputFormats = []string{"table", "json", "yaml"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	file, err := loadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		HostURL:        v.GetString("host_url"),
		Safe:           v.GetString("safe"),
		Plugin:         v.GetString("plugin"),
		SafeServiceURL: v.GetString("safe_service_url"),
		SignerKey:      os.ExpandEnv(os.Getenv(SignerKeyEnv)),
		ProposerKey:    os.ExpandEnv(os.Getenv(ProposerKeyEnv)),
		APIToken:       strings.TrimSpace(os.ExpandEnv(os.Getenv(APITokenEnv))),
		GasLimit:       v.GetUint64("gas_limit"),
		ReceiptTimeout: v.GetDuration("receipt_timeout"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Output:         strings.ToLower(v.GetString("output")),
		Timeout:        v.GetDuration("timeout"),
		ListenAddr:     v.GetString("listen"),
		CORSOrigins:    splitList(v.GetStringSlice("cors_origins")),
		Plugins:        file.Plugins,
	}

	if cfg.JSON {
		cfg.Output = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "table"
	}
	if !contains(outputFormats, cfg.Output) {
		return nil, fmt.Errorf("unsupported output %q (want one of %s)", cfg.Output, strings.Join(outputFormats, ", "))
	}

	network, serviceURL, err := resolveNetwork(v, file)
	if err != nil {
		return nil, err
	}
	cfg.Network = network
	if cfg.SafeServiceURL == "" {
		cfg.SafeServiceURL = serviceURL
	}

	return cfg, nil
}

// resolveNetwork picks the [networks.<name>] table named by --network and
// applies --rpc-url / --chain-id on top. It returns nil when no endpoint is
// configured at all.
func resolveNetwork(v *viper.Viper, file *config.FileConfig) (*config.Network, string, error) {
	var network *config.Network
	var serviceURL string

	if name := v.GetString("network"); name != "" {
		nf, ok := file.Networks[name]
		if !ok {
			return nil, "", fmt.Errorf("network %q not found in %s", name, FileName)
		}
		network = &config.Network{
			Name:     name,
			ChainID:  nf.ChainID,
			RPCURL:   nf.RPCURL,
			Manager:  nf.Manager,
			Registry: nf.Registry,
		}
		serviceURL = nf.SafeServiceURL
	}

	rpcURL := v.GetString("rpc_url")
	chainID := v.GetUint64("chain_id")
	if network == nil && (rpcURL != "" || chainID != 0) {
		network = &config.Network{Name: "custom"}
	}
	if network == nil {
		return nil, "", nil
	}
	if rpcURL != "" {
		network.RPCURL = os.ExpandEnv(rpcURL)
	}
	if chainID != 0 {
		network.ChainID = chainID
	}
	return network, serviceURL, nil
}

// FindProjectRoot walks up from the current directory to the first
// directory holding plugrelay.toml, falling back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("receipt_timeout", "3m")
	v.SetDefault("gas_limit", 0)
	v.SetDefault("output", "table")
	v.SetDefault("listen", "127.0.0.1:8547")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// splitList flattens comma separated entries, as given in the environment.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
