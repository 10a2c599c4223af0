package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DaviiSA/AppControle/internal/core"
)

type recordView struct {
	ID           string
	Description  string
	Amount       string
	Date         string
	Installments string
	CardName     string
	Paid         bool
	Overdue      bool
}

type cardBucketView struct {
	Name  string
	Total string
	Rows  []recordView
}

type dashboardData struct {
	Income       string
	Expenses     string
	Balance      string
	FixedPending string
	CardsPending string
	Score        string
	Negative     bool

	IncomeRows []recordView
	FixedRows  []recordView
	MiscRows   []recordView
	CardRows   []recordView
	Cards      []cardBucketView

	Empty bool
}

// handleDashboard renders the dashboard partial: running totals, the
// efficiency score, and the grouped record lists.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	records := s.store.Snapshot()
	data := buildDashboard(records, s.cards, time.Now())

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">Saldo: ` + data.Balance + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">Erro carregando painel</div></section>`))
	}
}

// buildDashboard derives the full view model from a snapshot.
func buildDashboard(records []core.TransactionRecord, cards []string, now time.Time) dashboardData {
	totals := core.ComputeTotals(records)
	groups := core.GroupByType(records, cards)

	data := dashboardData{
		Income:       formatReais(totals.Income.Cents),
		Expenses:     formatReais(totals.Expenses.Cents),
		Balance:      formatReais(totals.Balance.Cents),
		FixedPending: formatReais(totals.FixedPending.Cents),
		CardsPending: formatReais(totals.CardsPending.Cents),
		Score:        fmt.Sprintf("%.0f", core.EfficiencyScore(totals)),
		Negative:     totals.Balance.Cents < 0,
		Empty:        len(records) == 0,
	}

	data.IncomeRows = toViews(groups.Income, now)
	data.FixedRows = toViews(groups.Fixed, now)
	data.MiscRows = toViews(groups.Misc, now)
	data.CardRows = toViews(groups.Card, now)

	for _, name := range groups.Cards {
		bucket := groups.ByCard[name]
		var total core.Money
		for _, rec := range bucket {
			total = total.Add(rec.Amount)
		}
		data.Cards = append(data.Cards, cardBucketView{
			Name:  name,
			Total: formatReais(total.Cents),
			Rows:  toViews(bucket, now),
		})
	}

	return data
}

func toViews(records []core.TransactionRecord, now time.Time) []recordView {
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, recordView{
			ID:           rec.ID,
			Description:  rec.Description,
			Amount:       formatReais(rec.Amount.Cents),
			Date:         rec.Date.Format("02/01/2006"),
			Installments: rec.Installments,
			CardName:     rec.CardName,
			Paid:         rec.Paid,
			Overdue:      rec.Overdue(now),
		})
	}
	return views
}
