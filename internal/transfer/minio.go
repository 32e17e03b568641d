package transfer

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/zinc-sig/dropsign/internal/dropzone"
)

// MinioProvider uploads with storage credentials instead of the presigned
// policy. The descriptor still decides the object name, so the signing
// endpoint remains the authority on where files land.
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure sets up the MinIO client with the given configuration
func (m *MinioProvider) Configure(config map[string]any) error {
	endpoint, ok := getStringValue(config, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}

	accessKey, ok := getStringValue(config, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}

	secretKey, ok := getStringValue(config, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}

	bucket, ok := getStringValue(config, "bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	secure := getBoolValue(config, "secure", true)
	region := getStringValueWithDefault(config, "region", "us-east-1")
	prefix := getStringValueWithDefault(config, "prefix", "")
	checkBucket := getBoolValue(config, "check_bucket", true)

	// An explicit scheme wins over the secure flag
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return fmt.Errorf("minio: invalid endpoint URL: %s", endpoint)
		}
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = prefix

	if !checkBucket {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", bucket)
	}

	return nil
}

// Upload puts the file at the object named by the descriptor
func (m *MinioProvider) Upload(ctx context.Context, params dropzone.UploadParams, file dropzone.File, body io.Reader, size int64) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}
	if !params.Available() {
		return ErrNoDestination
	}

	objectName := m.objectName(params.Target, file)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, body, size, minio.PutObjectOptions{
		ContentType: file.BaseType(),
	})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		return &UploadTransferError{
			StatusCode: resp.StatusCode,
			Body:       resp.Code,
			Err:        fmt.Errorf("minio: failed to upload to %s: %w", objectName, err),
		}
	}

	return nil
}

// objectName derives the object key: the form "key" field (with the S3
// ${filename} placeholder expanded) or the direct URL's path, then prefixed.
func (m *MinioProvider) objectName(target dropzone.Target, file dropzone.File) string {
	name := file.Name

	switch t := target.(type) {
	case dropzone.FormPost:
		if key, ok := t.Fields["key"]; ok && key != "" {
			name = strings.ReplaceAll(key, "${filename}", file.Name)
		}
	case dropzone.DirectURL:
		if u, err := url.Parse(t.URL); err == nil {
			p := strings.TrimPrefix(u.Path, "/")
			// path-style URLs carry the bucket as the first segment
			p = strings.TrimPrefix(p, m.bucket+"/")
			if p != "" {
				name = p
			}
		}
	}

	if m.prefix != "" {
		name = path.Join(m.prefix, name)
	}
	return name
}
