package signer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// DefaultURL is the signing endpoint used when none is configured.
const DefaultURL = "http://127.0.0.1:5000/sign_s3"

const maxResponseSize = 1 << 20

// Config holds signing endpoint configuration
type Config struct {
	URL     string        // Signing endpoint URL (default: DefaultURL)
	Timeout time.Duration // Per-request timeout (default: 10s)
}

// Client requests presigned upload descriptors from the signing endpoint
type Client struct {
	httpClient *http.Client
	config     *Config
	logger     zerolog.Logger
}

// NewClient creates a new signing client
func NewClient(config *Config, logger zerolog.Logger) *Client {
	if config == nil {
		config = &Config{}
	}
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logger.With().Str("component", "signer").Logger(),
	}
}

// URL returns the configured endpoint
func (c *Client) URL() string {
	return c.config.URL
}

// FetchUploadDescriptor performs one GET round trip against the signing
// endpoint and returns the decoded body unchanged. It never retries.
func (c *Client) FetchUploadDescriptor(ctx context.Context, fileName, fileType, authToken string) (*SigningResponse, error) {
	endpoint, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid signing endpoint %q: %w", c.config.URL, err)
	}

	query := endpoint.Query()
	query.Set("file_name", fileName)
	query.Set("file_type", fileType)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build signing request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken)

	c.logger.Debug().Str("file_name", fileName).Str("file_type", fileType).Msg("requesting upload descriptor")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: c.config.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain response body to reuse connection
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &RemoteSigningError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read signing response: %w", err)
	}

	var body SigningResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode signing response: %w", err)
	}
	body.raw = raw

	c.logger.Debug().Str("file_name", fileName).Int("status", resp.StatusCode).Msg("upload descriptor received")

	return &body, nil
}
