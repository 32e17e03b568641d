package helpers

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/zinc-sig/dropsign/cmd/config"
	"github.com/zinc-sig/dropsign/internal/dropzone"
	"github.com/zinc-sig/dropsign/internal/logging"
	"github.com/zinc-sig/dropsign/internal/retry"
	"github.com/zinc-sig/dropsign/internal/transfer"
)

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// ParseSize parses a human readable size such as "10MB" or "512KiB".
// The empty string means no limit.
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// SetupLogger builds the command logger on stderr
func SetupLogger(stderr io.Writer, flags *config.CommonFlags) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Config{
		Level:   flags.LogLevel,
		File:    flags.LogFile,
		Console: stderr,
	})
}

// BuildControlOptions converts control flags into transfer options
func BuildControlOptions(flags *config.ControlFlags) (transfer.Options, error) {
	if flags.Concurrency <= 0 {
		return transfer.Options{}, fmt.Errorf("concurrency must be positive")
	}
	if flags.Retries < 0 {
		return transfer.Options{}, fmt.Errorf("retries must not be negative")
	}
	if flags.ProgressStep <= 0 || flags.ProgressStep > 100 {
		return transfer.Options{}, fmt.Errorf("progress step must be between 1 and 100")
	}

	maxSize, err := ParseSize(flags.MaxFileSize)
	if err != nil {
		return transfer.Options{}, err
	}

	retryConfig := retry.NoRetry()
	if flags.Retries > 0 {
		delay, err := ParseTimeout(flags.RetryDelay)
		if err != nil {
			return transfer.Options{}, fmt.Errorf("invalid retry delay: %w", err)
		}
		retryConfig = retry.DefaultConfig()
		retryConfig.MaxRetries = flags.Retries
		if delay > 0 {
			retryConfig.InitialDelay = delay
		}
	}

	return transfer.Options{
		Concurrency:  flags.Concurrency,
		MaxFiles:     flags.MaxFiles,
		MaxFileSize:  maxSize,
		Accept:       flags.Accept,
		Retry:        retryConfig,
		ProgressStep: int64(flags.ProgressStep),
	}, nil
}

// CollectFiles resolves the file arguments. Directories are walked and
// every regular file below them is added. "local:name" renames the upload
// and is rejected for directories.
func CollectFiles(args []string) ([]dropzone.File, error) {
	var files []dropzone.File

	for _, arg := range args {
		local, name := ParseFileArg(arg)

		info, err := statPath(local)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			f, err := dropzone.NewFile(local)
			if err != nil {
				return nil, err
			}
			if name != "" {
				f.Name = name
			}
			files = append(files, f)
			continue
		}
		if name != "" {
			return nil, fmt.Errorf("cannot rename directory %s: the :name form applies to single files", local)
		}

		err = filepath.WalkDir(local, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			f, err := dropzone.NewFile(path)
			if err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", local, err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}
	return files, nil
}
