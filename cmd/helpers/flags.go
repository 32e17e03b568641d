package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/transfer"
)

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to JSON file containing context data")
}

// SetupSignerFlags adds signing endpoint flags to a command
func SetupSignerFlags(cmd *cobra.Command, cfg *config.SignerConfig) {
	cmd.Flags().StringVar(&cfg.URL, "signer-url", "", "Signing endpoint URL (default: http://127.0.0.1:5000/sign_s3)")
	cmd.Flags().StringVar(&cfg.Timeout, "signer-timeout", "", "Timeout for one signing request (e.g., 10s)")
	cmd.Flags().StringVar(&cfg.Token, "token", "", "Bearer token for the signing endpoint (or DROPSIGN_TOKEN)")
	cmd.Flags().StringVar(&cfg.TokenFile, "token-file", "", "File holding the bearer token, read before every request")

	cmd.Flags().StringVar(&cfg.Config, "signer-config", "", "Signer configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "signer-config-kv", nil, "Signer config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "signer-config-file", "", "Path to JSON file containing signer configuration")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", transfer.DefaultProvider, "Upload provider type (presigned, minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON file containing upload configuration")
}

// SetupCommonFlags adds commonly used flags to a command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print configuration banners and a summary on stderr")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Resolve configuration and files without contacting any endpoint")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "Also write JSON logs to this file (rotated)")
}

// SetupControlFlags adds upload control flags to a command
func SetupControlFlags(cmd *cobra.Command, flags *config.ControlFlags) {
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", 4, "Files uploaded in parallel")
	cmd.Flags().IntVar(&flags.Retries, "retries", 0, "Transfer retries on retryable storage responses (0 = no retries)")
	cmd.Flags().StringVar(&flags.RetryDelay, "retry-delay", "1s", "Initial delay between transfer retries")
	cmd.Flags().StringVar(&flags.MaxFileSize, "max-size", "", "Reject files larger than this (e.g., 10MB)")
	cmd.Flags().IntVar(&flags.MaxFiles, "max-files", 0, "Reject files past this count (0 = unlimited)")
	cmd.Flags().StringSliceVar(&flags.Accept, "accept", nil, "Accepted MIME patterns or extensions (e.g., image/*,.pdf)")
	cmd.Flags().IntVar(&flags.ProgressStep, "progress-step", 10, "Percent between upload progress events")
	cmd.Flags().StringVarP(&flags.Timeout, "timeout", "t", "", "Timeout for the whole run (e.g., 30s, 2m)")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send status events to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")
	cmd.Flags().BoolVar(&cfg.ErrorsOnly, "webhook-errors-only", false, "Only send upload error events")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON file containing webhook configuration")
}
