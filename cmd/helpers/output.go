package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zinc-sig/dropsign/internal/output"
	"github.com/zinc-sig/dropsign/internal/transfer"
)

// OutputJSON marshals and prints v as one JSON line
func OutputJSON(w io.Writer, v any) error {
	jsonOutput, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// OutputResults prints one JSON line per result, in input order
func OutputResults(w io.Writer, results []transfer.Result, context any) error {
	for _, res := range results {
		if err := OutputJSON(w, output.FromTransfer(res, context)); err != nil {
			return err
		}
	}
	return nil
}

// PrintSummary prints the per-file outcome table in verbose mode
func PrintSummary(w io.Writer, results []transfer.Result) {
	summary := output.Summarize(results)

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Summary")
	fmt.Fprintln(w, "========================================")
	for _, res := range results {
		mark := "✓"
		if res.Failed() {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %-30s %-20s %8s  %s\n",
			mark, res.File.Name, res.Status, humanize.Bytes(uint64(res.File.Size)), res.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Total: %d  Done: %d  Failed: %d\n", summary.Total, summary.Done, summary.Failed)
}
