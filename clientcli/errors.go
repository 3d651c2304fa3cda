package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrSecretRequired = errors.New("signing secret is required")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoFileIDs   = errors.New("no file ids provided")
	ErrEmptyPath   = errors.New("path is required")
	ErrEmptyFileID = errors.New("file id is required")
)
