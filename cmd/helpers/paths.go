package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseFileArg parses a file argument in the format "local[:name]".
// Without a colon the upload keeps the local base name. A name containing
// a path separator is ignored, so Windows drive letters stay intact.
func ParseFileArg(arg string) (local, name string) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 || idx == len(arg)-1 {
		return strings.TrimSpace(arg), ""
	}

	name = strings.TrimSpace(arg[idx+1:])
	if strings.ContainsAny(name, `/\`) {
		return strings.TrimSpace(arg), ""
	}
	return strings.TrimSpace(arg[:idx]), name
}

func statPath(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filepath.Clean(path), err)
	}
	return info, nil
}
