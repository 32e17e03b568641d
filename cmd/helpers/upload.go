package helpers

import (
	"fmt"
	"io"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/confparse"
	"github.com/zinc-sig/dropsign/internal/transfer"
)

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	result, err := confparse.Build(confparse.Sources{
		EnvPrefix: "DROPSIGN_UPLOAD_CONFIG",
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	if result == nil {
		return make(map[string]any), nil
	}
	return result, nil
}

// SetupUploadProvider creates and configures the transfer provider. An
// empty provider name selects the presigned provider.
func SetupUploadProvider(cfg *config.UploadConfig) (transfer.Provider, map[string]any, error) {
	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := transfer.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}

// PrintUploadInfo prints upload configuration in verbose mode
func PrintUploadInfo(w io.Writer, providerName string, conf map[string]any, signerURL string) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Configuration")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Signer:         %s\n", signerURL)
	fmt.Fprintf(w, "Provider:       %s\n", providerName)

	if providerName == "minio" {
		if endpoint, ok := conf["endpoint"]; ok {
			fmt.Fprintf(w, "Endpoint:       %v\n", endpoint)
		}
		if bucket, ok := conf["bucket"]; ok {
			fmt.Fprintf(w, "Bucket:         %v\n", bucket)
		}
		if prefix, ok := conf["prefix"]; ok && prefix != "" {
			fmt.Fprintf(w, "Prefix:         %v\n", prefix)
		}
	}

	fmt.Fprintln(w, "----------------------------------------")
}
