package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/makelab/uploadgate/config"
)

// cfg is the configuration loaded by PersistentPreRunE for all commands.
var cfg *config.Config

func readConfig(cmd *cobra.Command) error {
	// A .env file is optional; deployment environments set real env vars.
	_ = godotenv.Load()

	var configFiles []string
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		configFiles = append(configFiles, configFile)
	}

	loaded, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg = loaded
	return nil
}
