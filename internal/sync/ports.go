// Package sync defines the ports of the remote sync adapter: push the full
// dataset to a user-configured endpoint, pull it back. There is no partial
// sync, retry, or authentication anywhere behind these interfaces.
package sync

import (
	"context"
	"errors"

	"github.com/DaviiSA/AppControle/internal/core"
)

// Ports for outbound sync adapters.
type (
	Pusher interface {
		// Push serializes the full record collection to the endpoint.
		// Implementations treat the request as best effort: success means
		// the request was dispatched without a transport failure.
		Push(ctx context.Context, endpoint string, records []core.TransactionRecord) error
	}

	Puller interface {
		// Pull retrieves the full record collection from the endpoint and
		// returns it verbatim. Callers own the decision to replace local
		// state with the result.
		Pull(ctx context.Context, endpoint string) ([]core.TransactionRecord, error)
	}
)

// Status reflects the adapter's last known state for the presentation
// layer. The core imposes no mutual exclusion between operations.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var (
	// ErrNoEndpoint means no sync endpoint has been configured yet.
	ErrNoEndpoint = errors.New("sync endpoint not configured")

	// ErrTransport wraps network-level failures during push or pull.
	ErrTransport = errors.New("sync transport failure")

	// ErrResponse marks a non-success status on pull. Push never inspects
	// the response, so it can only fail with ErrTransport.
	ErrResponse = errors.New("sync endpoint returned a failure status")
)
