package transfer

import (
	"context"
	"io"

	"github.com/zinc-sig/dropsign/internal/dropzone"
)

// Provider performs the byte transfer of one file to the destination named
// by its upload params.
type Provider interface {
	// Upload sends size bytes read from body to the params' target
	Upload(ctx context.Context, params dropzone.UploadParams, file dropzone.File, body io.Reader, size int64) error

	// Configure sets up the provider with the given configuration
	Configure(config map[string]any) error

	// Name returns the provider name
	Name() string
}
