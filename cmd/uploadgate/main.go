package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "uploadgate",
	Short:   "Upload gateway for model files and videos",
	Long: `Uploadgate is a small HTTP gateway that accepts authenticated
file uploads, stores them in an object store bucket, and hands back
time-limited signed URLs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(cmd); err != nil {
			return err
		}
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("supabase-url", "", "object store project URL (env: SUPABASE_URL)")
	rootCmd.PersistentFlags().String("bucket", "", "storage bucket name (default: website-upload, env: UPLOADGATE_SUPABASE_BUCKET)")
	rootCmd.PersistentFlags().String("auth-mode", "", "token verifier: firebase, static (default: firebase, env: UPLOADGATE_AUTH_MODE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
