package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/NickBlow/upload-goblin/clientcli"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <file-id> [file-id...]",
	Short: "Delete files from the gateway",
	Long: `Delete one or more files from the gateway.

Examples:
  goblin-cli delete docs/file.txt
  goblin-cli delete old/a.txt old/b.txt old/c.txt
  goblin-cli delete -q temp/file.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(context.Background(), clientcli.DeleteOptions{FileIDs: args})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	if err := formatter.FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	// Return error if any deletes failed
	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
