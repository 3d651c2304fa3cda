// Package clientcli provides a client library for interacting with Goblin
// upload gateways.
//
// It supports upload, download, and delete operations. Authorization uses
// HMAC-signed grant tokens minted locally from the configured secrets, so
// no issuer round trip is needed. The package includes profile-based
// configuration for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and upload a file:
//
//	cfg := &clientcli.Config{
//		Endpoint:     "http://localhost:8080",
//		UploadSecret: "your-upload-secret",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./file.txt",
//		FileID:    "documents/file.txt",
//	})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile("~/.goblin/config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Shareable Links
//
// PresignDownloadURL produces a URL carrying the grant token as a query
// parameter, for browsers and other clients that cannot set headers:
//
//	url, err := client.PresignDownloadURL("documents/file.txt", 15*time.Minute)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, result)
package clientcli
