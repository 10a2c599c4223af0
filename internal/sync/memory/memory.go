// Package memory implements the sync ports against an in-process slice,
// for tests and local development without a remote endpoint.
package memory

import (
	"context"
	"sync"

	"github.com/DaviiSA/AppControle/internal/core"
	appsync "github.com/DaviiSA/AppControle/internal/sync"
)

type Remote struct {
	mu      sync.Mutex
	records []core.TransactionRecord

	// PushErr and PullErr, when set, make the corresponding operation fail.
	PushErr error
	PullErr error
}

var (
	_ appsync.Pusher = (*Remote)(nil)
	_ appsync.Puller = (*Remote)(nil)
)

func New() *Remote {
	return &Remote{}
}

func (r *Remote) Push(_ context.Context, _ string, records []core.TransactionRecord) error {
	if r.PushErr != nil {
		return r.PushErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]core.TransactionRecord(nil), records...)
	return nil
}

func (r *Remote) Pull(_ context.Context, _ string) ([]core.TransactionRecord, error) {
	if r.PullErr != nil {
		return nil, r.PullErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.TransactionRecord(nil), r.records...), nil
}

// Stored returns what the remote currently holds.
func (r *Remote) Stored() []core.TransactionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.TransactionRecord(nil), r.records...)
}
