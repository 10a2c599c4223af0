package core

import "testing"

func rec(desc string, cents int64, date Date, rt RecordType, paid bool) TransactionRecord {
	return TransactionRecord{
		ID:          desc,
		Description: desc,
		Amount:      Money{Cents: cents},
		Date:        date,
		Type:        rt,
		Category:    string(rt),
		Paid:        paid,
	}
}

func TestComputeTotalsScenario(t *testing.T) {
	records := []TransactionRecord{
		rec("Salary", 500000, NewDate(2024, 1, 5), Income, true),
		rec("Rent", 150000, NewDate(2024, 1, 10), FixedExpense, false),
	}
	totals := ComputeTotals(records)
	if totals.Income.Cents != 500000 {
		t.Fatalf("income expected 500000, got %d", totals.Income.Cents)
	}
	if totals.Expenses.Cents != 150000 {
		t.Fatalf("expenses expected 150000, got %d", totals.Expenses.Cents)
	}
	if totals.Balance.Cents != 350000 {
		t.Fatalf("balance expected 350000, got %d", totals.Balance.Cents)
	}
	if totals.FixedPending.Cents != 150000 {
		t.Fatalf("fixedPending expected 150000, got %d", totals.FixedPending.Cents)
	}

	// Paying the rent clears fixedPending without touching income/expenses.
	records[1].Paid = true
	totals = ComputeTotals(records)
	if totals.FixedPending.Cents != 0 {
		t.Fatalf("fixedPending expected 0 after toggle, got %d", totals.FixedPending.Cents)
	}
	if totals.Income.Cents != 500000 || totals.Expenses.Cents != 150000 {
		t.Fatalf("income/expenses changed by toggle: %+v", totals)
	}
}

func TestBalanceIdentity(t *testing.T) {
	snapshots := [][]TransactionRecord{
		nil,
		{rec("a", 100, NewDate(2024, 1, 1), Income, true)},
		{
			rec("a", 12345, NewDate(2024, 1, 1), Income, true),
			rec("b", 678, NewDate(2024, 2, 1), CardExpense, false),
			rec("c", -50, NewDate(2024, 3, 1), MiscExpense, false),
			rec("d", 999, NewDate(2024, 3, 2), FixedExpense, true),
		},
	}
	for i, snap := range snapshots {
		totals := ComputeTotals(snap)
		if totals.Balance.Cents != totals.Income.Cents-totals.Expenses.Cents {
			t.Fatalf("snapshot %d: balance identity violated: %+v", i, totals)
		}
	}
}

func TestCardsPending(t *testing.T) {
	records := []TransactionRecord{
		rec("tv", 200000, NewDate(2024, 1, 3), CardExpense, false),
		rec("shoes", 30000, NewDate(2024, 1, 4), CardExpense, true),
	}
	totals := ComputeTotals(records)
	if totals.CardsPending.Cents != 200000 {
		t.Fatalf("cardsPending expected 200000, got %d", totals.CardsPending.Cents)
	}
}

func TestGroupByTypeOrdering(t *testing.T) {
	records := []TransactionRecord{
		rec("salary feb", 1, NewDate(2024, 2, 5), Income, true),
		rec("rent jan", 1, NewDate(2024, 1, 10), FixedExpense, false),
		rec("salary jan", 1, NewDate(2024, 1, 5), Income, true),
		rec("rent feb", 1, NewDate(2024, 2, 10), FixedExpense, false),
	}
	g := GroupByType(records, nil)

	if len(g.Income) != 2 || g.Income[0].Description != "salary feb" || g.Income[1].Description != "salary jan" {
		t.Fatalf("income must be most recent first, got %+v", g.Income)
	}
	if len(g.Fixed) != 2 || g.Fixed[0].Description != "rent jan" || g.Fixed[1].Description != "rent feb" {
		t.Fatalf("fixed must stay chronological, got %+v", g.Fixed)
	}
}

func TestGroupByCardBuckets(t *testing.T) {
	records := []TransactionRecord{
		{ID: "1", Description: "a", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1), Type: CardExpense, CardName: "nubank"},
		{ID: "2", Description: "b", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 2), Type: CardExpense, CardName: "inter"},
		{ID: "3", Description: "c", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 3), Type: CardExpense, CardName: "amex"},
	}
	g := GroupByType(records, []string{"nubank", "inter"})

	if len(g.Card) != 3 {
		t.Fatalf("all card expenses belong to the card group, got %d", len(g.Card))
	}
	if len(g.ByCard["nubank"]) != 1 || len(g.ByCard["inter"]) != 1 {
		t.Fatalf("configured cards expected one record each, got %+v", g.ByCard)
	}
	// Unconfigured card names are absent from every bucket.
	if _, ok := g.ByCard["amex"]; ok {
		t.Fatalf("unconfigured card must not get a bucket")
	}
}

func TestEfficiencyScore(t *testing.T) {
	cases := []struct {
		name     string
		income   int64
		expenses int64
		want     float64
	}{
		{"empty ledger", 0, 0, 100},
		{"half spent", 500000, 250000, 50},
		{"overspent", 100000, 250000, 0},
		{"nothing spent", 100000, 0, 100},
	}
	for _, tc := range cases {
		totals := Totals{Income: Money{Cents: tc.income}, Expenses: Money{Cents: tc.expenses}}
		if got := EfficiencyScore(totals); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSortedDoesNotMutate(t *testing.T) {
	records := []TransactionRecord{
		rec("b", 1, NewDate(2024, 2, 1), MiscExpense, false),
		rec("a", 1, NewDate(2024, 1, 1), MiscExpense, false),
	}
	sorted := Sorted(records)
	if sorted[0].Description != "a" {
		t.Fatalf("expected ascending date order, got %+v", sorted)
	}
	if records[0].Description != "b" {
		t.Fatalf("input slice must not be reordered")
	}
}
