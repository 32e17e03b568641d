package output

import (
	"github.com/zinc-sig/dropsign/internal/transfer"
)

// Result is the JSON line printed for one uploaded file.
type Result struct {
	ID            string  `json:"id"`
	File          string  `json:"file"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Size          int64   `json:"size"`
	Status        string  `json:"status"`
	FileURL       *string `json:"file_url,omitempty"`
	Method        string  `json:"method,omitempty"`
	Destination   string  `json:"destination,omitempty"`
	Attempts      int     `json:"attempts"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime int64   `json:"execution_time"` // in milliseconds
	Context       any     `json:"context,omitempty"`
}

// FromTransfer converts a control result.
func FromTransfer(res transfer.Result, context any) *Result {
	out := &Result{
		ID:            res.File.ID,
		File:          res.File.Path,
		Name:          res.File.Name,
		Type:          res.File.MIMEType,
		Size:          res.File.Size,
		Status:        string(res.Status),
		FileURL:       res.Params.Meta.FileURL,
		Attempts:      res.Attempts,
		ExecutionTime: res.Duration.Milliseconds(),
		Context:       context,
	}
	if res.Params.Target != nil {
		out.Method = res.Params.Target.Method()
		out.Destination = res.Params.Target.Destination()
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// Summary counts results by outcome.
type Summary struct {
	Total  int `json:"total"`
	Done   int `json:"done"`
	Failed int `json:"failed"`
}

// Summarize counts results.
func Summarize(results []transfer.Result) Summary {
	s := Summary{Total: len(results)}
	for i := range results {
		if results[i].Failed() {
			s.Failed++
		} else {
			s.Done++
		}
	}
	return s
}
