package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	goblin "github.com/NickBlow/upload-goblin"
	"github.com/NickBlow/upload-goblin/config"
	"github.com/NickBlow/upload-goblin/secrets"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Mint a signed grant token",
	Long: `Mint a grant token authorizing a single file operation. The token
carries the file id plus optional expiry, content-type, and size
constraints, signed with the configured secret.`,
	RunE: runSign,
}

func init() {
	signCmd.Flags().String("file-id", "", "file id the grant authorizes (required)")
	signCmd.Flags().Duration("ttl", 0, "token lifetime, e.g. 15m (0 means no expiry)")
	signCmd.Flags().String("content-type", "", "allowed content type, supports wildcards like image/*")
	signCmd.Flags().Int64("max-size", 0, "maximum upload size in bytes (0 means unlimited)")
	signCmd.Flags().StringArray("claim", nil, "extra claim as key=value (repeatable)")
	signCmd.Flags().String("secret", "", "signing secret (default: auth.upload_secret from config)")
	signCmd.Flags().Bool("download", false, "sign with the download secret instead of the upload secret")

	_ = signCmd.MarkFlagRequired("file-id")

	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFiles(cmd), nil)
	if err != nil {
		return err
	}

	secret, err := resolveSigningSecret(cmd, cfg)
	if err != nil {
		return err
	}
	if secret == "" {
		return fmt.Errorf("no signing secret configured, set --secret or auth.upload_secret")
	}

	fileID, _ := cmd.Flags().GetString("file-id")
	if !goblin.IsValidFileID(fileID) {
		return fmt.Errorf("invalid file id: %q", fileID)
	}

	payload := goblin.Payload{goblin.ClaimFileID: fileID}

	if ttl, _ := cmd.Flags().GetDuration("ttl"); ttl > 0 {
		payload[goblin.ClaimExpiresAt] = time.Now().Add(ttl).UnixMilli()
	}
	if contentType, _ := cmd.Flags().GetString("content-type"); contentType != "" {
		payload[goblin.ClaimAllowedFileType] = contentType
	}
	if maxSize, _ := cmd.Flags().GetInt64("max-size"); maxSize > 0 {
		payload[goblin.ClaimMaxFileSize] = maxSize
	}

	claims, _ := cmd.Flags().GetStringArray("claim")
	for _, claim := range claims {
		key, value, found := strings.Cut(claim, "=")
		if !found || key == "" {
			return fmt.Errorf("invalid claim %q, expected key=value", claim)
		}
		payload[key] = value
	}

	token, err := goblin.SignGrant(payload, secret)
	if err != nil {
		return fmt.Errorf("sign grant: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func resolveSigningSecret(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if secret, _ := cmd.Flags().GetString("secret"); secret != "" {
		return secret, nil
	}

	secretCfg := cfg.Auth.UploadSecret
	if forDownload, _ := cmd.Flags().GetBool("download"); forDownload {
		secretCfg = cfg.Auth.DownloadSecret
	}
	return secrets.Load(secretCfg)
}
