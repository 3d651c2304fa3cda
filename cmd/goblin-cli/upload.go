package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NickBlow/upload-goblin/clientcli"
)

var (
	uploadContentType string
	uploadMetadata    map[string]string
	uploadTTL         time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> [file-id]",
	Short: "Upload a file to the gateway",
	Long: `Upload a file to the gateway.

The grant token is minted locally and pinned to the file's content type
and exact size, so a tampered request is rejected by the server.

Examples:
  goblin-cli upload ./file.txt
  goblin-cli upload ./file.txt docs/file.txt
  goblin-cli upload --content-type application/json ./data config.json
  goblin-cli upload --metadata User-Id=42 ./avatar.png users/42/avatar.png`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "override content-type")
	uploadCmd.Flags().StringToStringVarP(&uploadMetadata, "metadata", "m", nil, "metadata as key=value (repeatable)")
	uploadCmd.Flags().DurationVar(&uploadTTL, "ttl", 0, "grant lifetime (default 15m)")
}

func runUpload(_ *cobra.Command, args []string) error {
	localPath := args[0]

	fileID := ""
	if len(args) > 1 {
		fileID = args[1]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		LocalPath:   localPath,
		FileID:      fileID,
		ContentType: uploadContentType,
		Metadata:    uploadMetadata,
		TTL:         uploadTTL,
	}

	result, err := client.Upload(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatUpload(os.Stdout, result)
}
