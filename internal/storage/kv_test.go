package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DaviiSA/AppControle/internal/core"
)

func newTestStore(t *testing.T) *KVStore {
	t.Helper()
	store, err := NewKVStore(filepath.Join(t.TempDir(), "appcontrole.db"))
	if err != nil {
		t.Fatalf("open kv store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Nothing persisted yet.
	records, err := store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if records != nil {
		t.Fatalf("expected nil before first save, got %+v", records)
	}

	saved := []core.TransactionRecord{
		{ID: "1", Description: "Salary", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2024, 1, 5), Type: core.Income, Category: "income", Paid: true},
		{ID: "2", Description: "TV", Amount: core.Money{Cents: 200000}, Date: core.NewDate(2024, 1, 15), Type: core.CardExpense, Category: "card", CardName: "nubank", Installments: "1/10"},
	}
	if err := store.SaveRecords(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].ID != "1" || loaded[1].CardName != "nubank" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}

	// Every save is a full overwrite.
	if err := store.SaveRecords(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	loaded, err = store.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty collection, got %+v", loaded)
	}
}

func TestEndpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	url, err := store.LoadEndpoint(ctx)
	if err != nil {
		t.Fatalf("load unset: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty endpoint, got %q", url)
	}

	if err := store.SaveEndpoint(ctx, "https://example.com/macros/s/abc/exec"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveEndpoint(ctx, "https://example.com/other"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	url, err = store.LoadEndpoint(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if url != "https://example.com/other" {
		t.Fatalf("expected last write to win, got %q", url)
	}
}
