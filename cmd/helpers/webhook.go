package helpers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/confparse"
	"github.com/zinc-sig/dropsign/internal/retry"
	"github.com/zinc-sig/dropsign/internal/webhook"
)

// WebhookSettings is the resolved webhook configuration.
type WebhookSettings struct {
	Config     *webhook.Config
	Retry      *retry.Config
	ErrorsOnly bool
}

// BuildWebhookConfig builds webhook configuration from all sources
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := confparse.Build(confparse.Sources{
		EnvPrefix: "DROPSIGN_WEBHOOK",
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if webhookConf == nil {
		webhookConf = make(map[string]any)
	}

	// Flags only override when moved off their defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != http.MethodPost {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != "none" {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}
	if cfg.ErrorsOnly {
		webhookConf["errors_only"] = true
	}

	return webhookConf, nil
}

// ParseWebhookConfig resolves the webhook settings. It returns nil when no
// webhook URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*WebhookSettings, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, err
	}

	url, _ := confparse.String(configMap, "url")
	if url == "" {
		return nil, nil
	}

	timeout := 30 * time.Second
	if d, ok, err := confparse.Duration(configMap, "timeout"); err != nil {
		return nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	} else if ok {
		timeout = d
	}

	retryDelay := time.Second
	if d, ok, err := confparse.Duration(configMap, "retry_delay"); err != nil {
		return nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	} else if ok {
		retryDelay = d
	}

	maxRetries := 3
	if r, ok, err := confparse.Int(configMap, "retries"); err != nil {
		return nil, fmt.Errorf("invalid webhook retries: %w", err)
	} else if ok {
		if r < 0 {
			return nil, fmt.Errorf("webhook retries must not be negative")
		}
		maxRetries = r
	}

	method, _ := confparse.String(configMap, "method")
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodPost
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported webhook method: %s", method)
	}

	authType, _ := confparse.String(configMap, "auth_type")
	if authType == "" {
		authType = "none"
	}
	authToken, _ := confparse.String(configMap, "auth_token")

	headers, err := confparse.StringMap(configMap, "headers")
	if err != nil {
		return nil, fmt.Errorf("invalid webhook headers: %w", err)
	}

	errorsOnly, _ := configMap["errors_only"].(bool)

	return &WebhookSettings{
		Config: &webhook.Config{
			URL:       url,
			Method:    method,
			Headers:   headers,
			Timeout:   timeout,
			AuthType:  authType,
			AuthToken: authToken,
		},
		Retry: &retry.Config{
			MaxRetries:   maxRetries,
			InitialDelay: retryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
		ErrorsOnly: errorsOnly,
	}, nil
}
