package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DaviiSA/AppControle/internal/core"
	"github.com/DaviiSA/AppControle/internal/events"
	"github.com/DaviiSA/AppControle/internal/ledger"
)

// handleCreateRecord registers a new transaction record from the form.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	in := ledger.AddInput{
		Description:  sanitizeInput(r.Form.Get("description")),
		Amount:       strings.TrimSpace(r.Form.Get("amount")),
		DueDate:      strings.TrimSpace(r.Form.Get("due_date")),
		Type:         core.RecordType(strings.TrimSpace(r.Form.Get("type"))),
		CardName:     sanitizeInput(r.Form.Get("card_name")),
		Installments: sanitizeInput(r.Form.Get("installments")),
	}

	rec, err := s.store.Add(r.Context(), in)
	if err != nil {
		if errors.Is(err, core.ErrValidationSkip) {
			UnprocessableEntityError("Preencha descrição, valor e vencimento").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Record create error", "error", err, "description", in.Description)
		InternalServerError("Erro ao salvar o lançamento").Write(w)
		return
	}

	s.publishEvent(r.Context(), events.NewRecordEvent(events.ActionCreated, rec.ID, rec.Description, rec.Amount.Cents, rec.Type.String()))

	slog.InfoContext(r.Context(), "Record created",
		"record_id", rec.ID,
		"record_type", rec.Type.String(),
		"amount_cents", rec.Amount.Cents)

	NewHTMXResponse().
		TriggerRecordCreated(rec.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Lançamento registrado").
		BodyHTML(`<div class="success">Registrado: ` +
			template.HTMLEscapeString(rec.Description) +
			` — ` + formatReais(rec.Amount.Cents) + `</div>`).
		Write(w)
}

// handleToggleRecord flips the paid state of a record.
func (s *Server) handleToggleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Identificador ausente").Write(w)
		return
	}

	if !s.store.TogglePaid(r.Context(), id) {
		NotFoundError("Lançamento não encontrado").Write(w)
		return
	}

	rec, _ := s.store.Find(id)
	s.publishEvent(r.Context(), events.NewRecordEvent(events.ActionToggled, rec.ID, rec.Description, rec.Amount.Cents, rec.Type.String()))

	NewHTMXResponse().
		TriggerRecordToggled(id).
		Write(w)
}

// handleDeleteRecord removes a record. The confirmation gate lives here:
// the form must carry confirmed=true or the delete is refused.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Identificador ausente").Write(w)
		return
	}
	if r.Form.Get("confirmed") != "true" {
		UnprocessableEntityError("Confirmação necessária para excluir").Write(w)
		return
	}

	rec, found := s.store.Find(id)
	if !found || !s.store.Remove(r.Context(), id) {
		NotFoundError("Lançamento não encontrado").Write(w)
		return
	}

	s.publishEvent(r.Context(), events.NewRecordEvent(events.ActionDeleted, rec.ID, rec.Description, rec.Amount.Cents, rec.Type.String()))

	slog.InfoContext(r.Context(), "Record deleted", "record_id", id)

	NewHTMXResponse().
		TriggerRecordDeleted(id).
		TriggerSuccessNotification("Lançamento excluído").
		Write(w)
}
