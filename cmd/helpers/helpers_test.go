package helpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/transfer"
)

func TestParseFileArg(t *testing.T) {
	tests := []struct {
		arg       string
		wantLocal string
		wantName  string
	}{
		{"report.pdf", "report.pdf", ""},
		{"report.pdf:final.pdf", "report.pdf", "final.pdf"},
		{"./out/data.csv:latest.csv", "./out/data.csv", "latest.csv"},
		{`C:\data\a.txt`, `C:\data\a.txt`, ""},
		{"trailing:", "trailing:", ""},
		{":leading", ":leading", ""},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			local, name := ParseFileArg(tt.arg)
			assert.Equal(t, tt.wantLocal, local)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("")
	assert.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseTimeout("2m")
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = ParseTimeout("-1s")
	assert.Error(t, err)
	_, err = ParseTimeout("later")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	n, err := ParseSize("")
	assert.NoError(t, err)
	assert.Zero(t, n)

	n, err = ParseSize("10MB")
	assert.NoError(t, err)
	assert.Equal(t, int64(10_000_000), n)

	n, err = ParseSize("1KiB")
	assert.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	_, err = ParseSize("huge")
	assert.Error(t, err)
}

func defaultControlFlags() config.ControlFlags {
	return config.ControlFlags{Concurrency: 4, RetryDelay: "1s", ProgressStep: 10}
}

func TestBuildControlOptions(t *testing.T) {
	flags := defaultControlFlags()
	opts, err := BuildControlOptions(&flags)
	require.NoError(t, err)
	assert.Equal(t, 4, opts.Concurrency)
	assert.Equal(t, 0, opts.Retry.MaxRetries)
	assert.Equal(t, int64(10), opts.ProgressStep)

	flags = defaultControlFlags()
	flags.Retries = 2
	flags.RetryDelay = "250ms"
	flags.MaxFileSize = "1MB"
	flags.Accept = []string{"image/*"}
	opts, err = BuildControlOptions(&flags)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, opts.Retry.InitialDelay)
	assert.Equal(t, int64(1_000_000), opts.MaxFileSize)
	assert.Equal(t, []string{"image/*"}, opts.Accept)
}

func TestBuildControlOptions_Invalid(t *testing.T) {
	mutations := map[string]func(*config.ControlFlags){
		"zero concurrency":  func(f *config.ControlFlags) { f.Concurrency = 0 },
		"negative retries":  func(f *config.ControlFlags) { f.Retries = -1 },
		"bad step":          func(f *config.ControlFlags) { f.ProgressStep = 101 },
		"bad size":          func(f *config.ControlFlags) { f.MaxFileSize = "lots" },
		"bad retry delay":   func(f *config.ControlFlags) { f.Retries = 1; f.RetryDelay = "soon" },
		"zero retry delay?": func(f *config.ControlFlags) { f.Retries = 1; f.RetryDelay = "0s" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			flags := defaultControlFlags()
			mutate(&flags)
			_, err := BuildControlOptions(&flags)
			assert.Error(t, err)
		})
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("one"), 0644))

	sub := filepath.Join(dir, "batch")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested", "b.txt"), []byte("b"), 0644))

	files, err := CollectFiles([]string{single + ":renamed.txt", sub})
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "renamed.txt", files[0].Name)
	assert.Equal(t, single, files[0].Path)
	assert.Equal(t, "a.txt", files[1].Name)
	assert.Equal(t, "b.txt", files[2].Name)
}

func TestCollectFiles_Errors(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)

	_, err = CollectFiles([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no files to upload")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	_, err = CollectFiles([]string{dir + ":renamed"})
	assert.ErrorContains(t, err, "cannot rename directory")
}

func TestParseSignerConfig(t *testing.T) {
	t.Setenv("DROPSIGN_TOKEN", "env-token")

	cfg, tokens, err := ParseSignerConfig(&config.SignerConfig{})
	require.NoError(t, err)
	assert.Empty(t, cfg.URL)
	tok, err := tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "env-token", tok)

	cfg, tokens, err = ParseSignerConfig(&config.SignerConfig{
		URL:     "http://signer.test/sign_s3",
		Timeout: "3s",
		Token:   "flag-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://signer.test/sign_s3", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, dropzone.StaticToken("flag-token"), tokens)
}

func TestParseSignerConfig_Layers(t *testing.T) {
	t.Setenv("DROPSIGN_SIGNER_URL", "http://env.test/sign_s3")
	t.Setenv("DROPSIGN_SIGNER_TOKEN", "env-config-token")

	cfg, tokens, err := ParseSignerConfig(&config.SignerConfig{
		ConfigKV: []string{"timeout=7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://env.test/sign_s3", cfg.URL)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, dropzone.StaticToken("env-config-token"), tokens)

	// a token file flag replaces any configured literal token
	_, tokens, err = ParseSignerConfig(&config.SignerConfig{TokenFile: "/run/secrets/token"})
	require.NoError(t, err)
	assert.Equal(t, dropzone.FileToken("/run/secrets/token"), tokens)
}

func TestParseSignerConfig_Invalid(t *testing.T) {
	_, _, err := ParseSignerConfig(&config.SignerConfig{Timeout: "-2s"})
	assert.Error(t, err)

	_, _, err = ParseSignerConfig(&config.SignerConfig{Config: "{bad"})
	assert.Error(t, err)
}

func defaultWebhookFlags() config.WebhookConfig {
	return config.WebhookConfig{Method: "POST", AuthType: "none", Timeout: "30s", Retries: 3, RetryDelay: "1s"}
}

func TestParseWebhookConfig(t *testing.T) {
	flags := defaultWebhookFlags()
	settings, err := ParseWebhookConfig(&flags)
	require.NoError(t, err)
	assert.Nil(t, settings, "no URL means no webhook")

	flags = defaultWebhookFlags()
	flags.URL = "http://hooks.test/events"
	flags.AuthType = "bearer"
	flags.AuthToken = "secret"
	flags.Retries = 1
	flags.ErrorsOnly = true
	flags.ConfigKV = []string{"timeout=5s"}
	flags.Config = `{"headers": {"X-Source": "dropsign"}}`

	settings, err = ParseWebhookConfig(&flags)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "http://hooks.test/events", settings.Config.URL)
	assert.Equal(t, "POST", settings.Config.Method)
	assert.Equal(t, "bearer", settings.Config.AuthType)
	assert.Equal(t, "secret", settings.Config.AuthToken)
	assert.Equal(t, 5*time.Second, settings.Config.Timeout)
	assert.Equal(t, map[string]string{"X-Source": "dropsign"}, settings.Config.Headers)
	assert.Equal(t, 1, settings.Retry.MaxRetries)
	assert.True(t, settings.ErrorsOnly)
}

func TestParseWebhookConfig_FromEnv(t *testing.T) {
	t.Setenv("DROPSIGN_WEBHOOK", `{"url": "http://env.test/hook", "method": "put", "retries": 0}`)

	flags := defaultWebhookFlags()
	settings, err := ParseWebhookConfig(&flags)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "http://env.test/hook", settings.Config.URL)
	assert.Equal(t, "PUT", settings.Config.Method)
	assert.Equal(t, 0, settings.Retry.MaxRetries)
}

func TestParseWebhookConfig_Invalid(t *testing.T) {
	cases := map[string][]string{
		"bad timeout": {"url=http://h", "timeout=soon"},
		"bad delay":   {"url=http://h", "retry_delay=soon"},
		"bad method":  {"url=http://h", "method=TRACE"},
		"bad retries": {"url=http://h", "retries=-1"},
		"bad headers": {"url=http://h", "headers=x"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			flags := defaultWebhookFlags()
			flags.ConfigKV = kv
			_, err := ParseWebhookConfig(&flags)
			assert.Error(t, err)
		})
	}
}

func TestSetupUploadProvider(t *testing.T) {
	provider, conf, err := SetupUploadProvider(&config.UploadConfig{})
	require.NoError(t, err)
	assert.Equal(t, transfer.DefaultProvider, provider.Name())
	assert.Empty(t, conf)

	_, _, err = SetupUploadProvider(&config.UploadConfig{Provider: "ftp"})
	assert.Error(t, err)

	_, _, err = SetupUploadProvider(&config.UploadConfig{Provider: "minio"})
	assert.ErrorContains(t, err, "endpoint is required")

	provider, _, err = SetupUploadProvider(&config.UploadConfig{
		Provider: "minio",
		ConfigKV: []string{
			"endpoint=http://localhost:9000",
			"access_key=k",
			"secret_key=s",
			"bucket=uploads",
			"check_bucket=false",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "minio", provider.Name())
}

func TestPrintConfigInfoRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	PrintConfigInfo(&buf, "Upload Configuration", map[string]any{
		"bucket":     "uploads",
		"secret_key": "hunter2",
	}, true)

	out := buf.String()
	assert.Contains(t, out, "Upload Configuration (DRY RUN)")
	assert.Contains(t, out, `"bucket": "uploads"`)
	assert.NotContains(t, out, "hunter2")
}
