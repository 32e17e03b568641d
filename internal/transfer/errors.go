package transfer

import (
	"errors"
	"fmt"
)

// ErrNoDestination is reported when the upload params carry no target.
var ErrNoDestination = errors.New("no upload destination available")

// UploadTransferError is a failed byte transfer. StatusCode is zero when
// no response was received.
type UploadTransferError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UploadTransferError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("upload rejected with status %d", e.StatusCode)
}

func (e *UploadTransferError) Unwrap() error {
	return e.Err
}

// Exception reports whether the transfer failed without a response.
func (e *UploadTransferError) Exception() bool {
	return e.StatusCode == 0
}
