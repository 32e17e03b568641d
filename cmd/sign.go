package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/cmd/helpers"
	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/signer"
)

type signOptions struct {
	signer config.SignerConfig
	common config.CommonFlags
	params bool
}

func newSignCmd() *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign [flags] <file[:name]>",
		Short: "Fetch the presigned descriptor for one file",
		Long: `Request a presigned descriptor for a file without uploading it.

By default the signing endpoint's body is printed as returned. With --params
the descriptor is shaped into upload params the way the upload command sees
them; a failed fetch then prints the empty params instead of an error.`,
		Example: `  dropsign sign --token $TOKEN report.pdf
  dropsign sign --params --signer-url http://localhost:5000/sign_s3 photo.png:avatar.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(cmd, opts, args[0])
		},
	}

	helpers.SetupSignerFlags(cmd, &opts.signer)
	helpers.SetupCommonFlags(cmd, &opts.common)
	cmd.Flags().BoolVar(&opts.params, "params", false, "Print the shaped upload params instead of the raw descriptor")

	return cmd
}

func runSign(cmd *cobra.Command, opts *signOptions, arg string) error {
	stderr := cmd.ErrOrStderr()

	logger, closer, err := helpers.SetupLogger(stderr, &opts.common)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	signerConfig, tokens, err := helpers.ParseSignerConfig(&opts.signer)
	if err != nil {
		return err
	}

	files, err := helpers.CollectFiles([]string{arg})
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("sign takes exactly one file, %s resolved to %d", arg, len(files))
	}
	file := files[0]

	client := signer.NewClient(signerConfig, logger)

	if opts.common.Verbose || opts.common.DryRun {
		helpers.PrintConfigInfo(stderr, "Signer Configuration", map[string]any{
			"url":       client.URL(),
			"file_name": file.Name,
			"file_type": file.BaseType(),
		}, opts.common.DryRun)
	}
	if opts.common.DryRun {
		return nil
	}

	if opts.params {
		adapter := dropzone.NewAdapter(client, tokens, nil, logger)
		return helpers.OutputJSON(cmd.OutOrStdout(), adapter.GetUploadParams(cmd.Context(), file))
	}

	token, err := tokens.Token()
	if err != nil {
		return err
	}

	resp, err := client.FetchUploadDescriptor(cmd.Context(), file.Name, file.BaseType(), token)
	if err != nil {
		return fmt.Errorf("failed to sign %s: %w", file.Name, err)
	}

	return helpers.OutputJSON(cmd.OutOrStdout(), resp.Raw())
}
