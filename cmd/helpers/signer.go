package helpers

import (
	"fmt"
	"os"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/confparse"
	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/signer"
)

// BuildSignerConfig builds signer configuration from all sources
// Precedence: env < file < json < kv < direct flags
func BuildSignerConfig(cfg *config.SignerConfig) (map[string]any, error) {
	signerConf, err := confparse.Build(confparse.Sources{
		EnvPrefix: "DROPSIGN_SIGNER",
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build signer config: %w", err)
	}
	if signerConf == nil {
		signerConf = make(map[string]any)
	}

	if cfg.URL != "" {
		signerConf["url"] = cfg.URL
	}
	if cfg.Timeout != "" {
		signerConf["timeout"] = cfg.Timeout
	}
	if cfg.Token != "" {
		signerConf["token"] = cfg.Token
		delete(signerConf, "token_file")
	}
	if cfg.TokenFile != "" {
		signerConf["token_file"] = cfg.TokenFile
		delete(signerConf, "token")
	}

	return signerConf, nil
}

// ParseSignerConfig resolves the signing client configuration and the
// token source. A token file wins over a literal token; DROPSIGN_TOKEN is
// the fallback when neither is configured.
func ParseSignerConfig(cfg *config.SignerConfig) (*signer.Config, dropzone.TokenSource, error) {
	configMap, err := BuildSignerConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	signerConfig := &signer.Config{}
	signerConfig.URL, _ = confparse.String(configMap, "url")

	if d, ok, err := confparse.Duration(configMap, "timeout"); err != nil {
		return nil, nil, fmt.Errorf("invalid signer timeout: %w", err)
	} else if ok {
		if d <= 0 {
			return nil, nil, fmt.Errorf("signer timeout must be positive")
		}
		signerConfig.Timeout = d
	}

	var tokens dropzone.TokenSource
	if path, ok := confparse.String(configMap, "token_file"); ok && path != "" {
		tokens = dropzone.FileToken(path)
	} else if token, ok := confparse.String(configMap, "token"); ok && token != "" {
		tokens = dropzone.StaticToken(token)
	} else {
		tokens = dropzone.StaticToken(os.Getenv("DROPSIGN_TOKEN"))
	}

	return signerConfig, tokens, nil
}
