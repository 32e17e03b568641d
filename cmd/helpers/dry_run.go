package helpers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/zinc-sig/dropsign/internal/dropzone"
)

// PrintConfigInfo prints a resolved configuration map in verbose/dry-run mode
func PrintConfigInfo(w io.Writer, title string, conf any, dryRun bool) {
	if conf == nil {
		return
	}

	header := title
	if dryRun {
		header = title + " (DRY RUN)"
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "========================================")

	jsonBytes, err := json.MarshalIndent(redact(conf), "", "  ")
	if err != nil {
		fmt.Fprintf(w, "  %v\n", conf)
	} else {
		fmt.Fprintf(w, "%s\n", string(jsonBytes))
	}

	fmt.Fprintln(w, "----------------------------------------")
}

// PrintFiles lists the resolved files in dry-run mode
func PrintFiles(w io.Writer, files []dropzone.File) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Files (DRY RUN)")
	fmt.Fprintln(w, "========================================")
	for _, f := range files {
		fmt.Fprintf(w, "%-30s %-28s %8s  %s\n", f.Name, f.BaseType(), humanize.Bytes(uint64(f.Size)), f.Path)
	}
	fmt.Fprintln(w, "----------------------------------------")
}

var secretKeys = map[string]struct{}{
	"token":      {},
	"auth_token": {},
	"secret_key": {},
	"access_key": {},
}

func redact(conf any) any {
	m, ok := conf.(map[string]any)
	if !ok {
		return conf
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, secret := secretKeys[k]; secret {
			out[k] = "***"
			continue
		}
		out[k] = v
	}
	return out
}
