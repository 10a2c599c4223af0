package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/DaviiSA/AppControle/internal/core"
	"github.com/DaviiSA/AppControle/internal/events"
)

func TestCreateRecordValidationAndSuccess(t *testing.T) {
	env := newTestEnv(t, nil)

	// Wrong method
	rr := env.do(http.MethodGet, "/transactions", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = env.do(http.MethodPost, "/transactions", "description=x&amount=abc&due_date=2026-09-01&type=misc")
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Missing description
	rr = env.do(http.MethodPost, "/transactions", "description=&amount=10&due_date=2026-09-01&type=misc")
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Unknown type
	rr = env.do(http.MethodPost, "/transactions", "description=x&amount=10&due_date=2026-09-01&type=loan")
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if env.store.Len() != 0 {
		t.Fatalf("rejected adds must not touch the ledger, len=%d", env.store.Len())
	}

	// Success
	rr = env.do(http.MethodPost, "/transactions", "description=Mercado&amount=123,45&due_date=2026-09-10&type=card&card_name=nubank&installments=2/6")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Mercado") {
		t.Fatalf("expected description in body: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "record:created") {
		t.Fatalf("expected record:created trigger, got %q", rr.Header().Get("HX-Trigger"))
	}

	if env.store.Len() != 1 {
		t.Fatalf("store len=%d, want 1", env.store.Len())
	}
	rec := env.store.Snapshot()[0]
	if rec.Amount.Cents != 12345 || rec.CardName != "nubank" || rec.Installments != "2/6" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if len(env.publisher.published) != 1 || env.publisher.published[0].Action != events.ActionCreated {
		t.Fatalf("expected one created event, got %+v", env.publisher.published)
	}
}

func TestToggleRecord(t *testing.T) {
	seed := []core.TransactionRecord{
		{ID: "rec-1", Description: "Aluguel", Amount: core.Money{Cents: 150000}, Date: core.NewDate(2026, 9, 5), Type: core.FixedExpense, Category: "fixed"},
	}
	env := newTestEnv(t, seed)

	rr := env.do(http.MethodPost, "/transactions/toggle", "id=rec-1")
	if rr.Code != 200 {
		t.Fatalf("toggle status=%d", rr.Code)
	}
	if rec, _ := env.store.Find("rec-1"); !rec.Paid {
		t.Fatalf("record should be paid after toggle")
	}
	if len(env.publisher.published) != 1 || env.publisher.published[0].Action != events.ActionToggled {
		t.Fatalf("expected toggled event, got %+v", env.publisher.published)
	}

	// Unknown id
	rr = env.do(http.MethodPost, "/transactions/toggle", "id=missing")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}

	// Missing id
	rr = env.do(http.MethodPost, "/transactions/toggle", "id=")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty id, got %d", rr.Code)
	}
}

func TestDeleteRecordConfirmationGate(t *testing.T) {
	seed := []core.TransactionRecord{
		{ID: "rec-1", Description: "Aluguel", Amount: core.Money{Cents: 150000}, Date: core.NewDate(2026, 9, 5), Type: core.FixedExpense, Category: "fixed"},
	}
	env := newTestEnv(t, seed)

	// No confirmation: refused, ledger untouched
	rr := env.do(http.MethodPost, "/transactions/delete", "id=rec-1")
	if rr.Code != 422 {
		t.Fatalf("expected 422 without confirmation, got %d", rr.Code)
	}
	if env.store.Len() != 1 {
		t.Fatalf("unconfirmed delete must not remove, len=%d", env.store.Len())
	}

	// Confirmed
	rr = env.do(http.MethodPost, "/transactions/delete", "id=rec-1&confirmed=true")
	if rr.Code != 200 {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if env.store.Len() != 0 {
		t.Fatalf("record not removed, len=%d", env.store.Len())
	}
	if len(env.publisher.published) != 1 || env.publisher.published[0].Action != events.ActionDeleted {
		t.Fatalf("expected deleted event, got %+v", env.publisher.published)
	}

	// Unknown id
	rr = env.do(http.MethodPost, "/transactions/delete", "id=rec-1&confirmed=true")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for already removed id, got %d", rr.Code)
	}
}
