package ledger

import (
	"context"
	"testing"

	"github.com/DaviiSA/AppControle/internal/core"
)

type capturePersister struct {
	saves [][]core.TransactionRecord
	err   error
}

func (p *capturePersister) SaveRecords(_ context.Context, records []core.TransactionRecord) error {
	cp := make([]core.TransactionRecord, len(records))
	copy(cp, records)
	p.saves = append(p.saves, cp)
	return p.err
}

func validInput() AddInput {
	return AddInput{
		Description: "Salary",
		Amount:      "5000",
		DueDate:     "2024-01-05",
		Type:        core.Income,
	}
}

func TestAddAssignsDerivedFields(t *testing.T) {
	ctx := context.Background()
	store := New(&capturePersister{}, nil)

	rec, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("expected generated id")
	}
	if rec.Amount.Cents != 500000 {
		t.Fatalf("amount expected 500000 cents, got %d", rec.Amount.Cents)
	}
	if rec.Category != "income" {
		t.Fatalf("category must mirror type, got %q", rec.Category)
	}
	if !rec.Paid {
		t.Fatalf("income defaults to paid")
	}

	got, ok := store.Find(rec.ID)
	if !ok {
		t.Fatalf("lookup by returned id failed")
	}
	if got.Description != "Salary" || got.Type != core.Income {
		t.Fatalf("lookup mismatch: %+v", got)
	}
}

func TestAddExpenseDefaultsUnpaid(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	rec, err := store.Add(ctx, AddInput{
		Description: "Rent", Amount: "1500", DueDate: "2024-01-10", Type: core.FixedExpense,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.Paid {
		t.Fatalf("expenses default to unpaid")
	}
}

func TestAddClearsCardFieldsForNonCardTypes(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	rec, err := store.Add(ctx, AddInput{
		Description: "Groceries", Amount: "250", DueDate: "2024-01-12",
		Type: core.MiscExpense, CardName: "nubank", Installments: "2/6",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if rec.CardName != "" || rec.Installments != "" {
		t.Fatalf("card fields must be cleared for misc expenses: %+v", rec)
	}

	card, err := store.Add(ctx, AddInput{
		Description: "TV", Amount: "2000", DueDate: "2024-01-15",
		Type: core.CardExpense, CardName: "nubank", Installments: "2/6",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if card.CardName != "nubank" || card.Installments != "2/6" {
		t.Fatalf("card fields must survive for card expenses: %+v", card)
	}
}

func TestAddSkipsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	bads := []AddInput{
		{Description: "", Amount: "1", DueDate: "2024-01-01", Type: core.Income},
		{Description: "a", Amount: "", DueDate: "2024-01-01", Type: core.Income},
		{Description: "a", Amount: "1", DueDate: "", Type: core.Income},
		{Description: "a", Amount: "abc", DueDate: "2024-01-01", Type: core.Income},
		{Description: "a", Amount: "1", DueDate: "not-a-date", Type: core.Income},
		{Description: "a", Amount: "1", DueDate: "2024-01-01", Type: core.RecordType("nope")},
	}
	for i, in := range bads {
		if _, err := store.Add(ctx, in); err != core.ErrValidationSkip {
			t.Fatalf("case %d: expected ErrValidationSkip, got %v", i, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("collection must stay unchanged, got %d records", store.Len())
	}
}

func TestAddPrepends(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	in := validInput()
	in.Description = "first"
	if _, err := store.Add(ctx, in); err != nil {
		t.Fatalf("add: %v", err)
	}
	in.Description = "second"
	if _, err := store.Add(ctx, in); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := store.Snapshot()
	if snap[0].Description != "second" || snap[1].Description != "first" {
		t.Fatalf("expected most-recent-first order, got %+v", snap)
	}
}

func TestTogglePaidIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	rec, _ := store.Add(ctx, AddInput{
		Description: "Rent", Amount: "1500", DueDate: "2024-01-10", Type: core.FixedExpense,
	})

	if !store.TogglePaid(ctx, rec.ID) {
		t.Fatalf("toggle expected to find the record")
	}
	got, _ := store.Find(rec.ID)
	if !got.Paid {
		t.Fatalf("first toggle must flip to paid")
	}

	store.TogglePaid(ctx, rec.ID)
	got, _ = store.Find(rec.ID)
	if got.Paid {
		t.Fatalf("second toggle must restore the original state")
	}

	if store.TogglePaid(ctx, "missing") {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)

	rec, _ := store.Add(ctx, validInput())
	if !store.Remove(ctx, rec.ID) {
		t.Fatalf("first remove expected to succeed")
	}
	if store.Remove(ctx, rec.ID) {
		t.Fatalf("second remove must be a no-op")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty collection")
	}
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := New(nil, nil)
	store.Add(ctx, validInput())

	replacement := []core.TransactionRecord{
		{ID: "r1", Description: "remote", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 2, 2), Type: core.MiscExpense, Category: "misc"},
	}
	store.ReplaceAll(ctx, replacement)

	snap := store.Snapshot()
	if len(snap) != 1 || snap[0].ID != "r1" {
		t.Fatalf("expected wholesale substitution, got %+v", snap)
	}
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	persister := &capturePersister{}
	store := New(persister, nil)

	rec, _ := store.Add(ctx, validInput())
	store.TogglePaid(ctx, rec.ID)
	store.Remove(ctx, rec.ID)
	store.ReplaceAll(ctx, nil)

	if len(persister.saves) != 4 {
		t.Fatalf("expected 4 persisted snapshots, got %d", len(persister.saves))
	}
	if len(persister.saves[0]) != 1 || len(persister.saves[2]) != 0 {
		t.Fatalf("snapshots out of order: %+v", persister.saves)
	}

	// Skipped adds and no-op mutations persist nothing.
	store.Add(ctx, AddInput{})
	store.TogglePaid(ctx, "missing")
	store.Remove(ctx, "missing")
	if len(persister.saves) != 4 {
		t.Fatalf("no-ops must not persist, got %d snapshots", len(persister.saves))
	}
}

func TestPersistFailureDoesNotBlockMutation(t *testing.T) {
	ctx := context.Background()
	persister := &capturePersister{err: context.DeadlineExceeded}
	store := New(persister, nil)

	if _, err := store.Add(ctx, validInput()); err != nil {
		t.Fatalf("persist failure must not fail the add: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("record must be kept in memory")
	}
}
