package dropzone

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/dropsign/internal/signer"
)

// Fetcher obtains an upload descriptor from the signing endpoint.
type Fetcher interface {
	FetchUploadDescriptor(ctx context.Context, fileName, fileType, authToken string) (*signer.SigningResponse, error)
}

// Adapter sits between the upload control and the signing endpoint.
// It holds no per-file state and is safe for concurrent use when its sink is.
type Adapter struct {
	fetcher Fetcher
	tokens  TokenSource
	sink    Sink
	logger  zerolog.Logger
}

// NewAdapter creates an adapter. A nil sink discards status events.
func NewAdapter(fetcher Fetcher, tokens TokenSource, sink Sink, logger zerolog.Logger) *Adapter {
	if sink == nil {
		sink = NopSink{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Adapter{
		fetcher: fetcher,
		tokens:  tokens,
		sink:    sink,
		logger:  logger.With().Str("component", "dropzone").Logger(),
	}
}

// GetUploadParams fetches a descriptor for file and shapes it for the upload
// control. Any failure yields empty params so that the control reports its
// own error status; it never returns an error and never retries.
func (a *Adapter) GetUploadParams(ctx context.Context, file File) UploadParams {
	token, err := a.tokens.Token()
	if err != nil {
		a.logger.Warn().Err(err).Str("file", file.Name).Msg("no auth token, using empty upload descriptor")
		return emptyParams()
	}

	resp, err := a.fetcher.FetchUploadDescriptor(ctx, file.Name, file.BaseType(), token)
	if err != nil {
		// the control surfaces this as error_upload_params
		a.logger.Warn().Err(err).Str("file", file.Name).Msg("upload descriptor fetch failed, using empty upload descriptor")
		return emptyParams()
	}

	return paramsFromResponse(resp)
}

// OnStatusChange records a status transition of file.
func (a *Adapter) OnStatusChange(file File, status Status) {
	a.Observe(NewEvent(file, status))
}

// Observe records ev and, for upload error statuses, one failure entry.
func (a *Adapter) Observe(ev Event) {
	a.sink.Transition(ev)
	if ev.Status.IsError() {
		a.sink.Failure(ev)
	}
}
