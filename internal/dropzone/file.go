package dropzone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// File describes one local file handed to the upload control.
type File struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
}

// NewFile stats path and detects its MIME type from content.
func NewFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to detect type of %s: %w", path, err)
	}

	return File{
		ID:       uuid.NewString(),
		Path:     path,
		Name:     filepath.Base(path),
		MIMEType: mtype.String(),
		Size:     info.Size(),
	}, nil
}

// BaseType returns the MIME type without parameters ("text/plain; charset=utf-8" -> "text/plain").
func (f File) BaseType() string {
	base, _, _ := strings.Cut(f.MIMEType, ";")
	return strings.TrimSpace(base)
}
