package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the dropsign command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dropsign",
		Short: "Upload files through presigned storage descriptors",
		Long: `Dropsign uploads local files to object storage using presigned descriptors
issued by a signing endpoint (GET /sign_s3?file_name=&file_type=).

Every file is signed and transferred independently. Status transitions are
logged, optionally posted to a webhook, and each file's outcome is printed
as one JSON line on stdout.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newSignCmd())
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
