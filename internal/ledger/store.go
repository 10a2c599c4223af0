// Package ledger implements the record store: an ordered in-memory
// collection of transaction records mirrored to durable storage on every
// mutation. The store exclusively owns the collection; consumers only ever
// see snapshots.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/DaviiSA/AppControle/internal/core"
)

// Persister mirrors the full collection to durable storage after each
// mutation. Failures are logged, not surfaced: persistence has no partial
// failure mode from the caller's perspective.
type Persister interface {
	SaveRecords(ctx context.Context, records []core.TransactionRecord) error
}

// AddInput is a record missing only its id. Amount and DueDate carry the
// raw user strings so the store decides whether the add is viable at all.
type AddInput struct {
	Description  string
	Amount       string
	DueDate      string // YYYY-MM-DD
	Type         core.RecordType
	CardName     string
	Installments string
}

type Store struct {
	mu      sync.Mutex
	records []core.TransactionRecord
	persist Persister
}

// New creates a store seeded with previously persisted records. A nil
// persister keeps the ledger purely in memory.
func New(persist Persister, seed []core.TransactionRecord) *Store {
	records := make([]core.TransactionRecord, len(seed))
	copy(records, seed)
	return &Store{records: records, persist: persist}
}

// Add creates a record from the input and prepends it to the collection.
// A missing description, amount, or date, an unparseable amount or date,
// or an unknown type all return core.ErrValidationSkip and leave the
// collection unchanged.
func (s *Store) Add(ctx context.Context, in AddInput) (core.TransactionRecord, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" || strings.TrimSpace(in.Amount) == "" || strings.TrimSpace(in.DueDate) == "" {
		return core.TransactionRecord{}, core.ErrValidationSkip
	}
	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.TransactionRecord{}, core.ErrValidationSkip
	}
	date, err := core.ParseDate(in.DueDate)
	if err != nil {
		return core.TransactionRecord{}, core.ErrValidationSkip
	}
	if !in.Type.IsValid() {
		return core.TransactionRecord{}, core.ErrValidationSkip
	}

	rec := core.TransactionRecord{
		ID:          uuid.NewString(),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Type:        in.Type,
		Category:    in.Type.String(),
		Paid:        in.Type == core.Income,
	}
	if in.Type == core.CardExpense {
		rec.CardName = strings.TrimSpace(in.CardName)
		rec.Installments = strings.TrimSpace(in.Installments)
	}

	s.mu.Lock()
	s.records = append([]core.TransactionRecord{rec}, s.records...)
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.save(ctx, snapshot)
	return rec, nil
}

// TogglePaid flips the payment state of the matching record. Unknown ids
// are a no-op.
func (s *Store) TogglePaid(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Paid = !s.records[i].Paid
			found = true
			break
		}
	}
	var snapshot []core.TransactionRecord
	if found {
		snapshot = s.copyLocked()
	}
	s.mu.Unlock()

	if found {
		s.save(ctx, snapshot)
	}
	return found
}

// Remove deletes the matching record. Unknown ids are a no-op. Caller is
// responsible for the user confirmation gate before invoking.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			found = true
			break
		}
	}
	var snapshot []core.TransactionRecord
	if found {
		snapshot = s.copyLocked()
	}
	s.mu.Unlock()

	if found {
		s.save(ctx, snapshot)
	}
	return found
}

// ReplaceAll substitutes the whole collection, typically after a remote
// pull. No merge or diff against existing data.
func (s *Store) ReplaceAll(ctx context.Context, records []core.TransactionRecord) {
	replacement := make([]core.TransactionRecord, len(records))
	copy(replacement, records)

	s.mu.Lock()
	s.records = replacement
	snapshot := s.copyLocked()
	s.mu.Unlock()

	s.save(ctx, snapshot)
}

// Snapshot returns a copy of the collection in insertion order
// (most recent first).
func (s *Store) Snapshot() []core.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Find returns the record with the given id, if present.
func (s *Store) Find(id string) (core.TransactionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return core.TransactionRecord{}, false
}

// Len returns the current record count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) copyLocked() []core.TransactionRecord {
	out := make([]core.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) save(ctx context.Context, snapshot []core.TransactionRecord) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveRecords(ctx, snapshot); err != nil {
		slog.WarnContext(ctx, "Failed to persist ledger", "error", err, "records", len(snapshot))
	}
}
