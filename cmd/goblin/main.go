package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "goblin",
	Short:   "File upload gateway with signed-grant authorization",
	Long: `Goblin is a lightweight file upload and download gateway. Clients
authorize requests with HMAC-signed grant tokens that carry per-file
constraints (file id, expiry, content type, maximum size).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-backend", "", "storage backend: filesystem, s3 (default: filesystem, env: GOBLIN_STORAGE_BACKEND)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: GOBLIN_STORAGE_PATH)")

	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("storage-backend"))
	_ = viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("storage-path"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
