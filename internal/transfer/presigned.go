package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/zinc-sig/dropsign/internal/dropzone"
)

const maxErrorBody = 4 << 10

// PresignedProvider transfers files over plain HTTP to a presigned target:
// a multipart POST for form-post descriptors, a PUT for direct URLs.
type PresignedProvider struct {
	httpClient *http.Client
	fileField  string
}

// NewPresignedProvider creates a new PresignedProvider
func NewPresignedProvider() *PresignedProvider {
	return &PresignedProvider{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		fileField:  "file",
	}
}

// Name returns the provider name
func (p *PresignedProvider) Name() string {
	return "presigned"
}

// Configure accepts optional "timeout" (duration string) and "file_field".
func (p *PresignedProvider) Configure(config map[string]any) error {
	if raw, ok := getStringValue(config, "timeout"); ok {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("presigned: invalid timeout: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("presigned: timeout must be positive")
		}
		p.httpClient.Timeout = timeout
	}
	p.fileField = getStringValueWithDefault(config, "file_field", p.fileField)
	return nil
}

// Upload sends the file to the params' target
func (p *PresignedProvider) Upload(ctx context.Context, params dropzone.UploadParams, file dropzone.File, body io.Reader, size int64) error {
	var (
		req *http.Request
		err error
	)

	switch t := params.Target.(type) {
	case dropzone.FormPost:
		if t.PostURL == "" {
			return ErrNoDestination
		}
		req, err = p.formPostRequest(ctx, t, file, body, size)
	case dropzone.DirectURL:
		if t.URL == "" {
			return ErrNoDestination
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, t.URL, body)
		if err == nil {
			req.ContentLength = size
			req.Header.Set("Content-Type", file.BaseType())
		}
	default:
		return ErrNoDestination
	}
	if err != nil {
		return fmt.Errorf("presigned: failed to build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &UploadTransferError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UploadTransferError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// formPostRequest builds a multipart body of the descriptor fields followed
// by the file part. The prologue and epilogue are buffered so the request
// carries an exact Content-Length, which S3 form uploads require.
func (p *PresignedProvider) formPostRequest(ctx context.Context, target dropzone.FormPost, file dropzone.File, body io.Reader, size int64) (*http.Request, error) {
	var head bytes.Buffer
	writer := multipart.NewWriter(&head)

	keys := make([]string, 0, len(target.Fields))
	for k := range target.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, target.Fields[k]); err != nil {
			return nil, err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.fileField, file.Name))
	header.Set("Content-Type", file.BaseType())
	if _, err := writer.CreatePart(header); err != nil {
		return nil, err
	}

	prologue := head.Len()
	if err := writer.Close(); err != nil {
		return nil, err
	}
	epilogue := append([]byte(nil), head.Bytes()[prologue:]...)
	head.Truncate(prologue)

	payload := io.MultiReader(&head, body, bytes.NewReader(epilogue))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.PostURL, payload)
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(prologue) + size + int64(len(epilogue))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}
