package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/cmd/helpers"
	"github.com/zinc-sig/dropsign/internal/confparse"
	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/output"
	"github.com/zinc-sig/dropsign/internal/signer"
	"github.com/zinc-sig/dropsign/internal/transfer"
	"github.com/zinc-sig/dropsign/internal/webhook"
)

type uploadOptions struct {
	signer  config.SignerConfig
	upload  config.UploadConfig
	context config.ContextConfig
	common  config.CommonFlags
	control config.ControlFlags
	webhook config.WebhookConfig
}

func newUploadCmd() *cobra.Command {
	opts := &uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload [flags] <file[:name]|dir>...",
		Short: "Sign and upload files",
		Long: `Request a presigned descriptor for every file and transfer it to storage.

Files are handled independently: a denied signature or a failed transfer
affects only that file. One JSON result per file is printed on stdout in
argument order; the command exits non-zero when any file failed.

A file argument may carry ":name" to upload under a different name.
Directories are walked recursively and their files keep their base names.`,
		Example: `  dropsign upload --token $TOKEN report.pdf photo.png
  dropsign upload --signer-url https://api.example/sign_s3 --token-file ~/.token ./out
  dropsign upload --accept 'image/*' --max-size 10MB --retries 2 *.png
  dropsign upload --upload-provider minio --upload-config-file minio.json data.csv:latest.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, opts, args)
		},
	}

	helpers.SetupSignerFlags(cmd, &opts.signer)
	helpers.SetupUploadFlags(cmd, &opts.upload)
	helpers.SetupContextFlags(cmd, &opts.context)
	helpers.SetupCommonFlags(cmd, &opts.common)
	helpers.SetupControlFlags(cmd, &opts.control)
	helpers.SetupWebhookFlags(cmd, &opts.webhook)

	return cmd
}

func runUpload(cmd *cobra.Command, opts *uploadOptions, args []string) error {
	stderr := cmd.ErrOrStderr()

	logger, closer, err := helpers.SetupLogger(stderr, &opts.common)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	controlOpts, err := helpers.BuildControlOptions(&opts.control)
	if err != nil {
		return err
	}
	runTimeout, err := helpers.ParseTimeout(opts.control.Timeout)
	if err != nil {
		return err
	}

	signerConfig, tokens, err := helpers.ParseSignerConfig(&opts.signer)
	if err != nil {
		return err
	}

	webhookSettings, err := helpers.ParseWebhookConfig(&opts.webhook)
	if err != nil {
		return err
	}

	ctxData, err := confparse.Build(confparse.Sources{
		EnvPrefix: "DROPSIGN_CONTEXT",
		File:      opts.context.File,
		JSON:      opts.context.JSON,
		KV:        opts.context.KV,
	})
	if err != nil {
		return fmt.Errorf("failed to build context: %w", err)
	}

	files, err := helpers.CollectFiles(args)
	if err != nil {
		return err
	}

	if opts.common.DryRun {
		uploadConf, err := helpers.BuildUploadConfig(&opts.upload)
		if err != nil {
			return err
		}
		client := signer.NewClient(signerConfig, logger)
		helpers.PrintUploadInfo(stderr, providerName(opts.upload.Provider), uploadConf, client.URL())
		helpers.PrintConfigInfo(stderr, "Upload Configuration", uploadConf, true)
		if webhookSettings != nil {
			helpers.PrintConfigInfo(stderr, "Webhook Configuration", map[string]any{
				"url":         webhookSettings.Config.URL,
				"method":      webhookSettings.Config.Method,
				"errors_only": webhookSettings.ErrorsOnly,
			}, true)
		}
		if ctxData != nil {
			helpers.PrintConfigInfo(stderr, "Context Configuration", ctxData, true)
		}
		helpers.PrintFiles(stderr, files)
		return nil
	}

	provider, uploadConf, err := helpers.SetupUploadProvider(&opts.upload)
	if err != nil {
		return err
	}

	client := signer.NewClient(signerConfig, logger)
	if opts.common.Verbose {
		helpers.PrintUploadInfo(stderr, provider.Name(), uploadConf, client.URL())
		if ctxData != nil {
			helpers.PrintConfigInfo(stderr, "Context Configuration", ctxData, false)
		}
	}

	sink, webhookSink := buildSink(webhookSettings, logger)
	adapter := dropzone.NewAdapter(client, tokens, sink, logger)
	control := transfer.NewControl(adapter, provider, controlOpts, logger)

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx := sigCtx
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	results := control.Upload(ctx, files)

	if webhookSink != nil {
		// queued events get one webhook timeout to flush, even past --timeout
		flushCtx, cancel := context.WithTimeout(sigCtx, webhookSettings.Config.Timeout)
		if err := webhookSink.Close(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("webhook events not fully delivered")
		}
		cancel()
	}

	if err := helpers.OutputResults(cmd.OutOrStdout(), results, contextValue(ctxData)); err != nil {
		return err
	}
	if opts.common.Verbose {
		helpers.PrintSummary(stderr, results)
	}

	summary := output.Summarize(results)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", summary.Failed, summary.Total)
	}
	return nil
}

// buildSink returns the status sink for a run, and the webhook sink inside it
// when one is configured so the caller can flush it.
func buildSink(settings *helpers.WebhookSettings, logger zerolog.Logger) (dropzone.Sink, *dropzone.WebhookSink) {
	logSink := dropzone.NewLogSink(logger)
	if settings == nil {
		return logSink, nil
	}
	client := webhook.NewClient(settings.Config, settings.Retry, logger)
	webhookSink := dropzone.NewWebhookSink(client, settings.ErrorsOnly, logger)
	return dropzone.MultiSink{logSink, webhookSink}, webhookSink
}

func providerName(name string) string {
	if name == "" {
		return transfer.DefaultProvider
	}
	return name
}

// contextValue keeps a nil map out of the result's interface field.
func contextValue(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
