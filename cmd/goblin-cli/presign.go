package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var presignTTL time.Duration

var presignCmd = &cobra.Command{
	Use:   "presign <file-id>",
	Short: "Print a shareable download URL",
	Long: `Print a download URL carrying the grant token as a query parameter.

The URL works in browsers and other clients that cannot set an
Authorization header. It stays valid until the grant expires.

Examples:
  goblin-cli presign docs/file.txt
  goblin-cli presign --ttl 1h docs/file.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runPresign,
}

func init() {
	presignCmd.Flags().DurationVar(&presignTTL, "ttl", 0, "grant lifetime (default 15m)")
}

func runPresign(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	url, err := client.PresignDownloadURL(args[0], presignTTL)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	fmt.Println(url)
	return nil
}
