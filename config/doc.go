// Package config provides configuration loading and validation for the
// upload gateway.
//
// The package handles YAML configuration files, environment variables, and
// CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (GOBLIN_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with GOBLIN_ prefix:
//   - server.port → GOBLIN_SERVER_PORT
//   - storage.backend → GOBLIN_STORAGE_BACKEND
//   - auth.upload_secret.value → GOBLIN_AUTH_UPLOAD_SECRET_VALUE
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and max_upload_size
//   - Storage: backend (filesystem/s3), path, and S3 connection settings
//   - Auth: upload/download secrets and the require_expiry switch
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Backend must be filesystem or s3
//   - Path is required when backend is filesystem
//   - Log level must be debug, info, warn, or error
package config
