package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/NickBlow/upload-goblin/clientcli"
)

var (
	version = "dev"

	cfgFile        string
	server         string
	uploadSecret   string
	downloadSecret string
	profileName    string
	jsonOutput     bool
	quiet          bool
)

var rootCmd = &cobra.Command{
	Use:     "goblin-cli",
	Version: version,
	Short:   "Client for Goblin upload gateways",
	Long: `Goblin CLI - Client for Goblin upload gateways

Requests are authorized with HMAC-signed grant tokens minted locally
from the configured secrets, so the CLI needs the same secrets the
server was started with.

Commands:
  - upload:   Upload a file
  - download: Download a file
  - delete:   Delete one or more files
  - presign:  Print a shareable download URL`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.goblin/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:8080, env: GOBLIN_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&uploadSecret, "upload-secret", "", "upload signing secret (env: GOBLIN_UPLOAD_SECRET)")
	rootCmd.PersistentFlags().StringVar(&downloadSecret, "download-secret", "", "download signing secret (env: GOBLIN_DOWNLOAD_SECRET)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: GOBLIN_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(presignCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path, honoring --config and
// GOBLIN_CONFIG before the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from the selected profile, if a config file exists
	configPath := getConfigPath()
	if configPath != "" {
		configFile, err := clientcli.LoadConfigFile(configPath)
		if err != nil {
			// Only error if user explicitly specified a config file
			if cfgFile != "" {
				return nil, err
			}
		} else {
			name := profileName
			if name == "" {
				name = clientcli.ProfileFromEnv()
			}
			profile, profileErr := configFile.GetProfile(name)
			if profileErr != nil {
				if profileName != "" {
					return nil, profileErr
				}
			} else {
				configs = append(configs, clientcli.ConfigFromProfile(profile))
			}
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint:       server,
		UploadSecret:   uploadSecret,
		DownloadSecret: downloadSecret,
	})

	return clientcli.MergeConfig(configs...), nil
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

	return clientcli.New(cfg)
}

// handleError prints the error through the active formatter and returns it.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return err
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
