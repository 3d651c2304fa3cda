package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NickBlow/upload-goblin/config"
)

func init() {
	// Seed the global viper with the same defaults config.Load uses, so
	// setupLogging and the validated Config never disagree.
	config.SetDefaults(viper.GetViper())
}

func readConfig(cmd *cobra.Command) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		slog.Warn("failed to bind flags", "err", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("GOBLIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			slog.Warn("error reading config file", "err", err)
		}
	}
}

// configFiles returns the config file list for config.Load, honoring the
// --config flag when set.
func configFiles(cmd *cobra.Command) []string {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return nil
	}
	return []string{configFile}
}
