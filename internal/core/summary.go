package core

import "sort"

// Totals holds the derived sums for a ledger snapshot. All fields are exact
// cent sums; Balance is always Income minus Expenses.
type Totals struct {
	Income       Money
	Expenses     Money
	Balance      Money
	FixedPending Money
	CardsPending Money
}

// Groups partitions a snapshot by record type. Income is ordered most
// recent first; expense groups stay chronological. ByCard holds one bucket
// per configured card, in configuration order; records naming an
// unconfigured card appear in Card but in no bucket.
type Groups struct {
	Income []TransactionRecord
	Fixed  []TransactionRecord
	Card   []TransactionRecord
	Misc   []TransactionRecord

	Cards  []string
	ByCard map[string][]TransactionRecord
}

// Sorted returns a copy of records in ascending date order. The sort is
// stable, so records sharing a date keep their insertion order.
func Sorted(records []TransactionRecord) []TransactionRecord {
	out := make([]TransactionRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Truncate().Before(out[j].Date.Truncate())
	})
	return out
}

// GroupByType partitions a snapshot into the four type groups plus the
// per-card buckets for the configured card names.
func GroupByType(records []TransactionRecord, cards []string) Groups {
	g := Groups{
		Cards:  cards,
		ByCard: make(map[string][]TransactionRecord, len(cards)),
	}
	configured := make(map[string]bool, len(cards))
	for _, c := range cards {
		configured[c] = true
	}

	for _, r := range Sorted(records) {
		switch r.Type {
		case Income:
			g.Income = append(g.Income, r)
		case FixedExpense:
			g.Fixed = append(g.Fixed, r)
		case CardExpense:
			g.Card = append(g.Card, r)
			if configured[r.CardName] {
				g.ByCard[r.CardName] = append(g.ByCard[r.CardName], r)
			}
		case MiscExpense:
			g.Misc = append(g.Misc, r)
		}
	}

	// Most recent income first; expenses stay chronological.
	for i, j := 0, len(g.Income)-1; i < j; i, j = i+1, j-1 {
		g.Income[i], g.Income[j] = g.Income[j], g.Income[i]
	}

	return g
}

// ComputeTotals derives the five running totals from a snapshot.
func ComputeTotals(records []TransactionRecord) Totals {
	var t Totals
	for _, r := range records {
		switch r.Type {
		case Income:
			t.Income = t.Income.Add(r.Amount)
		case FixedExpense:
			t.Expenses = t.Expenses.Add(r.Amount)
			if !r.Paid {
				t.FixedPending = t.FixedPending.Add(r.Amount)
			}
		case CardExpense:
			t.Expenses = t.Expenses.Add(r.Amount)
			if !r.Paid {
				t.CardsPending = t.CardsPending.Add(r.Amount)
			}
		case MiscExpense:
			t.Expenses = t.Expenses.Add(r.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

// EfficiencyScore is the display heuristic
// max(0, 100 - min(100, expenses/income*100)). A zero income counts as one
// currency unit, so an empty ledger scores 100.
func EfficiencyScore(t Totals) float64 {
	income := t.Income.Reais()
	if income == 0 {
		income = 1
	}
	ratio := t.Expenses.Reais() / income * 100
	if ratio > 100 {
		ratio = 100
	}
	score := 100 - ratio
	if score < 0 {
		score = 0
	}
	return score
}
