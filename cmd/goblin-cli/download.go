package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NickBlow/upload-goblin/clientcli"
)

var (
	downloadOutput string
	downloadStdout bool
	downloadInline bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id> [local-path]",
	Short: "Download a file from the gateway",
	Long: `Download a file from the gateway.

Examples:
  goblin-cli download docs/file.txt
  goblin-cli download docs/file.txt ./local-file.txt
  goblin-cli download --stdout config.json | jq .
  goblin-cli download -o ./output.txt docs/file.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
	downloadCmd.Flags().BoolVar(&downloadInline, "inline", false, "request inline content disposition")
}

func runDownload(_ *cobra.Command, args []string) error {
	fileID := args[0]

	// Determine local path
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	if localPath == "" {
		localPath = filepath.Base(fileID)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.DownloadOptions{
		FileID:    fileID,
		LocalPath: localPath,
		Inline:    downloadInline,
	}

	result, reader, err := client.Download(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	// If stdout, write content to stdout
	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Don't print metadata when writing to stdout (unless JSON mode)
		if jsonOutput {
			formatter := getFormatter()
			return formatter.FormatDownload(os.Stderr, result)
		}
		return nil
	}

	formatter := getFormatter()
	return formatter.FormatDownload(os.Stdout, result)
}
