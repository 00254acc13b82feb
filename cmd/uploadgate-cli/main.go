package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/makelab/uploadgate/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	server     string
	token      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "uploadgate-cli",
	Version: version,
	Short:   "Client for the uploadgate server",
	Long: `Uploadgate CLI - Client for the upload gateway

Commands:
  - upload:       Upload a model file under a project
  - upload-video: Upload a video under a gallery context
  - download:     Fetch a stored object through a fresh signed URL
  - sign:         Print a fresh signed download URL
  - configure:    Manage server profiles`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.uploadgate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:7000, env: UPLOADGATE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token (env: UPLOADGATE_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(uploadVideoCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges config from file, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from config file
	configPath := cfgFile
	if configPath == "" {
		configPath = getConfigPath()
	}

	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFromFile(configPath)
		if err != nil {
			// Only error if user explicitly specified a config file
			if cfgFile != "" {
				return nil, err
			}
		} else {
			configs = append(configs, fileCfg)
		}
	}

	// 2. Load from environment variables
	envCfg := clientcli.ConfigFromEnv()
	configs = append(configs, envCfg)

	// 3. Load from flags
	flagCfg := &clientcli.Config{
		Endpoint: server,
		Token:    token,
	}
	configs = append(configs, flagCfg)

	// Merge all configs
	return clientcli.MergeConfig(configs...), nil
}

// getConfigPath returns the config file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError formats an error to the writer and returns it.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return err
}
