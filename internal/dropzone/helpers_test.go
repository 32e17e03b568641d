package dropzone

import (
	"context"
	"sync"

	"github.com/zinc-sig/dropsign/internal/signer"
)

type fetchFunc func(ctx context.Context, fileName, fileType, authToken string) (*signer.SigningResponse, error)

func (f fetchFunc) FetchUploadDescriptor(ctx context.Context, fileName, fileType, authToken string) (*signer.SigningResponse, error) {
	return f(ctx, fileName, fileType, authToken)
}

type recordingSink struct {
	mu          sync.Mutex
	transitions []Event
	failures    []Event
}

func (r *recordingSink) Transition(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, ev)
}

func (r *recordingSink) Failure(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, ev)
}

func strPtr(s string) *string { return &s }
