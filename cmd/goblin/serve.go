package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	goblin "github.com/NickBlow/upload-goblin"
	"github.com/NickBlow/upload-goblin/config"
	"github.com/NickBlow/upload-goblin/filesystem"
	goblinhttp "github.com/NickBlow/upload-goblin/http"
	"github.com/NickBlow/upload-goblin/s3"
	"github.com/NickBlow/upload-goblin/secrets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the Goblin upload gateway.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.Load(configFiles(cmd), cmd.Flags())
	if err != nil {
		return err
	}

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	service, err := goblin.NewGatewayService(store)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	uploadVerifier, err := secrets.NewVerifier(cfg.Auth.UploadSecret, cfg.Auth.RequireExpiry)
	if err != nil {
		return fmt.Errorf("load upload secret: %w", err)
	}
	downloadVerifier, err := secrets.NewVerifier(cfg.Auth.DownloadSecret, cfg.Auth.RequireExpiry)
	if err != nil {
		return fmt.Errorf("load download secret: %w", err)
	}

	if uploadVerifier == nil {
		slog.Warn("no upload secret configured, uploads are public")
	}
	if downloadVerifier == nil {
		slog.Warn("no download secret configured, downloads are public")
	}

	handlerConfig := goblinhttp.HandlerConfig{
		UploadVerifier:   uploadVerifier,
		DownloadVerifier: downloadVerifier,
		MaxUploadSize:    cfg.Server.MaxUploadSize,
		CORS:             cfg.CORS,
	}

	handler := goblinhttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "backend", cfg.Storage.Backend)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// buildStore constructs the configured storage backend. The cleanup func
// releases backend resources and is safe to call on every exit path.
func buildStore(ctx context.Context, cfg *config.Config) (goblin.FileStore, func(), error) {
	switch cfg.Storage.Backend {
	case "s3":
		store, err := s3.New(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("connect s3: %w", err)
		}
		slog.Info("connected to s3", "endpoint", cfg.Storage.S3.Endpoint, "bucket", cfg.Storage.S3.Bucket)
		return store, func() {}, nil

	default:
		if err := os.MkdirAll(cfg.Storage.Path, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}

		root, err := os.OpenRoot(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}

		store := filesystem.NewFileStore(root)
		return store, func() { _ = root.Close() }, nil
	}
}
