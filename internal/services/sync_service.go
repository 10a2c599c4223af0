// Package services provides orchestration over the ledger store and the
// sync adapters.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	stdsync "sync"
	"time"

	"github.com/DaviiSA/AppControle/internal/core"
	"github.com/DaviiSA/AppControle/internal/ledger"
	"github.com/DaviiSA/AppControle/internal/sync"
)

// EndpointStore persists the user-configured sync endpoint URL.
type EndpointStore interface {
	SaveEndpoint(ctx context.Context, url string) error
	LoadEndpoint(ctx context.Context) (string, error)
}

// ErrConfirmationRequired is returned when a destructive operation is
// invoked without the explicit user confirmation the contract requires.
var ErrConfirmationRequired = errors.New("confirmation required")

// SyncService drives push/pull against the configured endpoint and tracks
// the adapter status for the presentation layer. It deliberately does NOT
// serialize concurrent operations: a second push or pull issued before the
// first resolves races it, last write wins. The UI is expected to disable
// duplicate triggers while status is syncing.
type SyncService struct {
	store     *ledger.Store
	pusher    sync.Pusher
	puller    sync.Puller
	endpoints EndpointStore

	mu       stdsync.Mutex
	status   sync.Status
	lastErr  error
	lastSync time.Time
}

func NewSyncService(store *ledger.Store, pusher sync.Pusher, puller sync.Puller, endpoints EndpointStore) *SyncService {
	return &SyncService{
		store:     store,
		pusher:    pusher,
		puller:    puller,
		endpoints: endpoints,
		status:    sync.StatusIdle,
	}
}

// SyncState is a snapshot of the adapter status for the presentation
// layer.
type SyncState struct {
	Status    sync.Status
	LastError error
	LastSync  time.Time
}

// State returns the current adapter status, the last error (if status is
// error), and the time of the last successful operation.
func (s *SyncService) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncState{Status: s.status, LastError: s.lastErr, LastSync: s.lastSync}
}

// SetEndpoint validates and persists the endpoint URL.
func (s *SyncService) SetEndpoint(ctx context.Context, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid endpoint URL %q", raw)
	}
	if err := s.endpoints.SaveEndpoint(ctx, raw); err != nil {
		return fmt.Errorf("persist endpoint: %w", err)
	}
	slog.InfoContext(ctx, "Sync endpoint configured", "endpoint", raw)
	return nil
}

// Endpoint returns the persisted endpoint URL, empty when unset.
func (s *SyncService) Endpoint(ctx context.Context) (string, error) {
	return s.endpoints.LoadEndpoint(ctx)
}

// Push sends the current snapshot to the endpoint. Failures set the error
// status; the local ledger is never touched.
func (s *SyncService) Push(ctx context.Context) error {
	endpoint, err := s.endpoints.LoadEndpoint(ctx)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("load endpoint: %w", err))
	}
	if endpoint == "" {
		return s.fail(ctx, sync.ErrNoEndpoint)
	}

	s.setStatus(sync.StatusSyncing)
	snapshot := s.store.Snapshot()
	if err := s.pusher.Push(ctx, endpoint, snapshot); err != nil {
		return s.fail(ctx, err)
	}
	s.succeed()
	slog.InfoContext(ctx, "Ledger push completed", "records", len(snapshot))
	return nil
}

// Pull retrieves the remote collection and unconditionally replaces local
// state with it. It is destructive, so the caller must pass the user's
// explicit confirmation. Any failure leaves the ledger fully untouched.
func (s *SyncService) Pull(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	endpoint, err := s.endpoints.LoadEndpoint(ctx)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("load endpoint: %w", err))
	}
	if endpoint == "" {
		return s.fail(ctx, sync.ErrNoEndpoint)
	}

	s.setStatus(sync.StatusSyncing)
	records, err := s.puller.Pull(ctx, endpoint)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.store.ReplaceAll(ctx, records)
	s.succeed()
	slog.InfoContext(ctx, "Ledger pull completed", "records", len(records))
	return nil
}

// Totals is a convenience passthrough for handlers: totals of the current
// snapshot.
func (s *SyncService) Totals() core.Totals {
	return core.ComputeTotals(s.store.Snapshot())
}

func (s *SyncService) setStatus(st sync.Status) {
	s.mu.Lock()
	s.status = st
	if st != sync.StatusError {
		s.lastErr = nil
	}
	s.mu.Unlock()
}

func (s *SyncService) succeed() {
	s.mu.Lock()
	s.status = sync.StatusSuccess
	s.lastErr = nil
	s.lastSync = time.Now()
	s.mu.Unlock()
}

func (s *SyncService) fail(ctx context.Context, err error) error {
	s.mu.Lock()
	s.status = sync.StatusError
	s.lastErr = err
	s.mu.Unlock()
	slog.ErrorContext(ctx, "Sync operation failed", "error", err)
	return err
}
