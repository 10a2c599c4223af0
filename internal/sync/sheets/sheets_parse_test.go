package sheets

import (
	"testing"

	"github.com/DaviiSA/AppControle/internal/core"
)

func TestParseRows(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Description", "Amount", "Date", "Type", "Category", "Paid", "Card", "Installments"},
		{"1", "Salary", "5000.00", "2024-01-05", "income", "income", "true", "", ""},
		{"2", "TV", "2000.00", "2024-01-15", "card", "card", "false", "nubank", "2/6"},
		{"", "missing id", "1.00", "2024-01-01", "misc", "misc", "false", "", ""},
		{"3", "bad amount", "abc", "2024-01-01", "misc", "misc", "false", "", ""},
		{"4", "bad type", "1.00", "2024-01-01", "salary", "salary", "false", "", ""},
	}

	records, skipped := parseRows(values)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if skipped != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", skipped)
	}
	if records[0].Amount.Cents != 500000 || !records[0].Paid {
		t.Fatalf("salary row mismatch: %+v", records[0])
	}
	if records[1].CardName != "nubank" || records[1].Installments != "2/6" {
		t.Fatalf("card row mismatch: %+v", records[1])
	}
}

func TestRecordRowRoundTrip(t *testing.T) {
	recs, skipped := parseRows(nil)
	if recs != nil || skipped != 0 {
		t.Fatalf("empty matrix expected no records")
	}

	rec := core.TransactionRecord{
		ID:           "abc",
		Description:  "Internet",
		Amount:       core.Money{Cents: 9990},
		Date:         core.NewDate(2024, 3, 10),
		Type:         core.CardExpense,
		Category:     "card",
		Paid:         false,
		CardName:     "inter",
		Installments: "1/12",
	}
	out, skipped := parseRows([][]interface{}{recordToRow(rec)})
	if skipped != 0 || len(out) != 1 {
		t.Fatalf("round trip lost the record (skipped=%d)", skipped)
	}
	got := out[0]
	if got.Description != "Internet" || got.Amount.Cents != 9990 || got.CardName != "inter" ||
		got.Installments != "1/12" || got.Date.String() != "2024-03-10" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
