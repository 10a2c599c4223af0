package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DaviiSA/AppControle/internal/services"
	appsync "github.com/DaviiSA/AppControle/internal/sync"
)

// handleSyncEndpoint stores the remote endpoint URL used by push and pull.
func (s *Server) handleSyncEndpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	endpoint := strings.TrimSpace(r.Form.Get("endpoint"))
	if err := s.syncSvc.SetEndpoint(r.Context(), endpoint); err != nil {
		slog.WarnContext(r.Context(), "Invalid sync endpoint", "error", err, "endpoint", endpoint)
		UnprocessableEntityError("URL de sincronização inválida").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSuccessNotification("Endpoint salvo").
		BodyHTML(`<div class="success">Endpoint configurado</div>`).
		Write(w)
}

// handleSyncPush sends the current snapshot to the remote endpoint.
func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if err := s.syncSvc.Push(r.Context()); err != nil {
		if errors.Is(err, appsync.ErrNoEndpoint) {
			UnprocessableEntityError("Configure o endpoint antes de sincronizar").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Sync push error", "error", err)
		NewHTMXResponse().
			Status(http.StatusBadGateway).
			TriggerErrorNotification("Falha ao enviar dados").
			BodyHTML(`<div class="error">Falha ao enviar dados</div>`).
			Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSyncCompleted("push").
		TriggerSuccessNotification("Dados enviados").
		BodyHTML(`<div class="success">Dados enviados</div>`).
		Write(w)
}

// handleSyncPull replaces the local ledger with the remote copy. The
// confirmation gate mirrors delete: confirmed=true or nothing happens.
func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	confirmed := r.Form.Get("confirmed") == "true"
	if err := s.syncSvc.Pull(r.Context(), confirmed); err != nil {
		switch {
		case errors.Is(err, services.ErrConfirmationRequired):
			UnprocessableEntityError("Confirmação necessária: a importação substitui os dados locais").Write(w)
		case errors.Is(err, appsync.ErrNoEndpoint):
			UnprocessableEntityError("Configure o endpoint antes de sincronizar").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Sync pull error", "error", err)
			NewHTMXResponse().
				Status(http.StatusBadGateway).
				TriggerErrorNotification("Falha ao importar dados").
				BodyHTML(`<div class="error">Falha ao importar dados</div>`).
				Write(w)
		}
		return
	}

	NewHTMXResponse().
		TriggerSyncCompleted("pull").
		TriggerSuccessNotification("Dados importados").
		BodyHTML(`<div class="success">Dados importados</div>`).
		Write(w)
}

// handleSyncStatus renders the sync status partial.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	state := s.syncSvc.State()
	label := statusLabel(state.Status)

	var detail string
	switch {
	case state.Status == appsync.StatusError && state.LastError != nil:
		detail = `<span class="sync-error">` + template.HTMLEscapeString(state.LastError.Error()) + `</span>`
	case !state.LastSync.IsZero():
		detail = `<span class="sync-time">` + state.LastSync.Format("02/01/2006 15:04") + `</span>`
	}

	_, _ = w.Write([]byte(`<div id="sync-status" class="sync-status sync-` + string(state.Status) + `">` + label + detail + `</div>`))
}

func statusLabel(st appsync.Status) string {
	switch st {
	case appsync.StatusSyncing:
		return "Sincronizando..."
	case appsync.StatusSuccess:
		return "Sincronizado"
	case appsync.StatusError:
		return "Erro de sincronização"
	default:
		return "Aguardando"
	}
}
