// Package dropzone adapts presigned upload descriptors into upload parameters
// for the transfer control and observes the control's status transitions.
package dropzone

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is a lifecycle state of one file in the upload control.
type Status string

const (
	StatusRejectedFileType    Status = "rejected_file_type"
	StatusRejectedMaxFiles    Status = "rejected_max_files"
	StatusPreparing           Status = "preparing"
	StatusErrorFileSize       Status = "error_file_size"
	StatusErrorValidation     Status = "error_validation"
	StatusReady               Status = "ready"
	StatusStarted             Status = "started"
	StatusGettingUploadParams Status = "getting_upload_params"
	StatusErrorUploadParams   Status = "error_upload_params"
	StatusUploading           Status = "uploading"
	StatusExceptionUpload     Status = "exception_upload"
	StatusAborted             Status = "aborted"
	StatusRestarted           Status = "restarted"
	StatusRemoved             Status = "removed"
	StatusErrorUpload         Status = "error_upload"
	StatusHeadersReceived     Status = "headers_received"
	StatusDone                Status = "done"
)

// errorStatuses are the transitions that get a distinguished failure entry.
var errorStatuses = map[Status]struct{}{
	StatusErrorUploadParams: {},
	StatusExceptionUpload:   {},
	StatusErrorUpload:       {},
}

// IsError reports whether s is one of the upload error statuses.
func (s Status) IsError() bool {
	_, ok := errorStatuses[s]
	return ok
}

// IsTerminal reports whether no further transitions follow s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDone, StatusAborted, StatusRemoved,
		StatusRejectedFileType, StatusRejectedMaxFiles,
		StatusErrorFileSize, StatusErrorValidation:
		return true
	}
	return s.IsError()
}

// Event is one status transition of one file.
type Event struct {
	FileID  string           `json:"file_id"`
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Status  Status           `json:"status"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
	Attempt int              `json:"attempt,omitempty"`
	Error   string           `json:"error,omitempty"`
	Time    time.Time        `json:"time"`
}

// NewEvent builds an event for file in status.
func NewEvent(file File, status Status) Event {
	return Event{
		FileID: file.ID,
		Name:   file.Name,
		Type:   file.MIMEType,
		Status: status,
		Time:   time.Now().UTC(),
	}
}

// WithPercent returns a copy of e carrying a progress percentage.
func (e Event) WithPercent(p decimal.Decimal) Event {
	e.Percent = &p
	return e
}

// WithError returns a copy of e carrying err's message.
func (e Event) WithError(err error) Event {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
