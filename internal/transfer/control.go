// Package transfer is the upload control: it drives each file through its
// status lifecycle, asks the adapter for upload params and hands them to a
// provider for the byte transfer.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/retry"
)

// Adapter supplies upload params and observes status transitions.
type Adapter interface {
	GetUploadParams(ctx context.Context, file dropzone.File) dropzone.UploadParams
	Observe(ev dropzone.Event)
}

// Options tune the control. Zero values disable the matching check.
type Options struct {
	Concurrency  int           // parallel files (default: 4)
	MaxFiles     int           // files past this count are rejected
	MaxFileSize  int64         // bytes
	Accept       []string      // MIME patterns ("image/*") or extensions (".png")
	Retry        *retry.Config // transfer retries; the descriptor is reused
	ProgressStep int64         // percent between progress events (default: 10)
}

// Result is the outcome of one file.
type Result struct {
	File     dropzone.File
	Status   dropzone.Status
	Params   dropzone.UploadParams
	Attempts int
	Err      error
	Duration time.Duration
}

// Failed reports whether the file did not reach done.
func (r *Result) Failed() bool {
	return r.Status != dropzone.StatusDone
}

// Control runs uploads.
type Control struct {
	adapter  Adapter
	provider Provider
	opts     Options
	logger   zerolog.Logger
}

// NewControl creates a control that transfers through provider.
func NewControl(adapter Adapter, provider Provider, opts Options, logger zerolog.Logger) *Control {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Retry == nil {
		opts.Retry = retry.NoRetry()
	}
	if opts.ProgressStep <= 0 {
		opts.ProgressStep = 10
	}
	return &Control{
		adapter:  adapter,
		provider: provider,
		opts:     opts,
		logger:   logger.With().Str("component", "control").Logger(),
	}
}

// Upload transfers files independently and returns one result per file in
// input order. A failure of one file never affects another.
func (c *Control) Upload(ctx context.Context, files []dropzone.File) []Result {
	results := make([]Result, len(files))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)

	for i, file := range files {
		if c.opts.MaxFiles > 0 && i >= c.opts.MaxFiles {
			results[i] = c.finish(Result{File: file}, dropzone.StatusRejectedMaxFiles, nil, time.Now())
			continue
		}
		i, file := i, file
		g.Go(func() error {
			results[i] = c.uploadOne(ctx, file)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (c *Control) uploadOne(ctx context.Context, file dropzone.File) Result {
	start := time.Now()
	res := Result{File: file}

	c.emit(file, dropzone.StatusPreparing)

	if c.opts.MaxFileSize > 0 && file.Size > c.opts.MaxFileSize {
		err := fmt.Errorf("file is %d bytes, limit is %d", file.Size, c.opts.MaxFileSize)
		return c.finish(res, dropzone.StatusErrorFileSize, err, start)
	}
	if !Accepts(c.opts.Accept, file) {
		err := fmt.Errorf("type %s is not accepted", file.BaseType())
		return c.finish(res, dropzone.StatusRejectedFileType, err, start)
	}

	c.emit(file, dropzone.StatusReady)
	c.emit(file, dropzone.StatusStarted)
	c.emit(file, dropzone.StatusGettingUploadParams)

	res.Params = c.adapter.GetUploadParams(ctx, file)

	// torn down while the descriptor was in flight
	if ctx.Err() != nil {
		return c.finish(res, dropzone.StatusAborted, ctx.Err(), start)
	}
	if !res.Params.Available() {
		return c.finish(res, dropzone.StatusErrorUploadParams, ErrNoDestination, start)
	}

	for attempt := 0; attempt <= c.opts.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			ev := dropzone.NewEvent(file, dropzone.StatusRestarted)
			ev.Attempt = attempt
			c.adapter.Observe(ev)

			select {
			case <-time.After(retry.Backoff(attempt, c.opts.Retry)):
			case <-ctx.Done():
				return c.finish(res, dropzone.StatusAborted, ctx.Err(), start)
			}
		}

		res.Attempts = attempt + 1
		err := c.transfer(ctx, res.Params, file)
		if err == nil {
			c.emit(file, dropzone.StatusHeadersReceived)
			return c.finish(res, dropzone.StatusDone, nil, start)
		}

		if ctx.Err() != nil {
			return c.finish(res, dropzone.StatusAborted, err, start)
		}

		var transferErr *UploadTransferError
		if !errors.As(err, &transferErr) {
			return c.finish(res, dropzone.StatusExceptionUpload, err, start)
		}
		if transferErr.Exception() {
			if attempt < c.opts.Retry.MaxRetries {
				continue
			}
			return c.finish(res, dropzone.StatusExceptionUpload, err, start)
		}
		if !retry.IsRetryableStatus(transferErr.StatusCode) || attempt == c.opts.Retry.MaxRetries {
			return c.finish(res, dropzone.StatusErrorUpload, err, start)
		}

		c.logger.Debug().Str("file", file.Name).Int("status", transferErr.StatusCode).Msg("retryable upload failure")
	}

	// only reached with a negative retry count
	return c.finish(res, dropzone.StatusErrorUpload, errors.New("retries exhausted"), start)
}

func (c *Control) transfer(ctx context.Context, params dropzone.UploadParams, file dropzone.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s for upload: %w", file.Path, err)
	}
	defer func() { _ = f.Close() }()

	c.adapter.Observe(dropzone.NewEvent(file, dropzone.StatusUploading).WithPercent(decimal.Zero))

	body := newProgressReader(f, file.Size, decimal.NewFromInt(c.opts.ProgressStep), func(p decimal.Decimal) {
		c.adapter.Observe(dropzone.NewEvent(file, dropzone.StatusUploading).WithPercent(p))
	})

	return c.provider.Upload(ctx, params, file, body, file.Size)
}

func (c *Control) emit(file dropzone.File, status dropzone.Status) {
	c.adapter.Observe(dropzone.NewEvent(file, status))
}

func (c *Control) finish(res Result, status dropzone.Status, err error, start time.Time) Result {
	res.Status = status
	res.Err = err
	res.Duration = time.Since(start)
	c.adapter.Observe(dropzone.NewEvent(res.File, status).WithError(err))
	return res
}

// Accepts reports whether file matches any accept pattern. An empty list
// accepts everything.
func Accepts(patterns []string, file dropzone.File) bool {
	if len(patterns) == 0 {
		return true
	}

	mtype := strings.ToLower(file.BaseType())
	ext := strings.ToLower(filepath.Ext(file.Name))

	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
			continue
		case pattern == "*/*" || pattern == mtype:
			return true
		case strings.HasPrefix(pattern, "."):
			if ext == pattern {
				return true
			}
		case strings.HasSuffix(pattern, "/*"):
			if strings.HasPrefix(mtype, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		}
	}
	return false
}
