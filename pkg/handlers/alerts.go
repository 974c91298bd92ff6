package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SentryView/sentryview/pkg/backend"
	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/render"
	"github.com/SentryView/sentryview/pkg/store"
	"github.com/SentryView/sentryview/pkg/utils"
	"go.uber.org/zap"
)

// AlertsPageHandler handles GET requests to /alerts. Every page view attempts
// a refresh first; a failed refresh keeps the previous snapshot and surfaces
// the load error through the toast.
func (s *Server) AlertsPageHandler(w http.ResponseWriter, r *http.Request) {
	reqID := utils.RequestID()
	log.Debug("Processing alerts page request",
		zap.String("requestID", reqID),
		zap.String("remoteAddr", r.RemoteAddr))

	if err := s.RefreshAlerts(r.Context()); err != nil {
		s.Notifier.Notify(loadErrorMessage(err), notify.SeverityError)
	}

	state := filterStateFromQuery(r)
	snapshot := s.Alerts.Snapshot()
	filtered := store.Project(snapshot, state)

	data := struct {
		Title  string
		Stats  render.AlertStats
		Filter store.FilterState
		Alerts []render.AlertView
		Toast  render.ToastView
	}{
		Title:  "Alerts",
		Stats:  render.ComputeAlertStats(snapshot, s.now()),
		Filter: state,
		Alerts: render.NewAlertViews(filtered),
		Toast:  s.toastView(),
	}

	w.Header().Set(ContentTypeHeader, "text/html")
	if err := s.Renderer.Page(w, "alertsPage", data); err != nil {
		log.Error("Failed to render alerts page", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	log.Debug("Alerts page request completed",
		zap.String("requestID", reqID),
		zap.String("search", utils.SanitizeInput(state.Search)),
		zap.Int("total", len(snapshot)),
		zap.Int("shown", len(filtered)))
}

// AlertsJSONHandler handles GET requests to /api/alerts, exposing the current
// snapshot (optionally filtered) in the backend's envelope shape.
func (s *Server) AlertsJSONHandler(w http.ResponseWriter, r *http.Request) {
	filtered := store.Project(s.Alerts.Snapshot(), filterStateFromQuery(r))
	writeJSON(w, http.StatusOK, models.AlertsEnvelope{Success: true, Alerts: filtered})
}

// transitionAllowed enforces the monotonic alert lifecycle:
// pending -> processing -> resolved, resolved terminal.
func transitionAllowed(from, to string) bool {
	switch from {
	case models.AlertStatusPending:
		return to == models.AlertStatusProcessing || to == models.AlertStatusResolved
	case models.AlertStatusProcessing:
		return to == models.AlertStatusResolved
	default:
		return false
	}
}

// AlertUpdateHandler handles POST requests to /alerts/update/{id}. The body
// is the JSON envelope {"status": "..."}; form posts with a status field are
// accepted too.
func (s *Server) AlertUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "invalid alert id"})
		return
	}

	status := parseStatusUpdate(r)
	if status != models.AlertStatusProcessing && status != models.AlertStatusResolved {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "invalid target status"})
		return
	}

	alert, ok := s.Alerts.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ActionEnvelope{Success: false, Message: "alert not found"})
		return
	}

	if !transitionAllowed(alert.Status, status) {
		log.Debug("Refusing alert transition",
			zap.Int("id", id),
			zap.String("from", alert.Status),
			zap.String("to", status))
		writeJSON(w, http.StatusConflict, models.ActionEnvelope{Success: false, Message: "transition not allowed"})
		return
	}

	message, err := s.Backend.UpdateAlertStatus(r.Context(), id, status)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ActionEnvelope{Success: false, Message: s.actionFailed(err, "update alert status")})
		return
	}

	// Optimistic patch of the single affected record; the next full reload
	// remains the source of truth.
	resolvedAt := s.now().Format("2006-01-02 15:04:05")
	s.Alerts.Patch(id, func(a *models.Alert) {
		a.Status = status
		if status == models.AlertStatusResolved {
			a.ResolvedAt = resolvedAt
		}
	})
	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)

	if wantsHTML(r) {
		http.Redirect(w, r, "/alerts", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ActionEnvelope{Success: true, Message: message})
}

// AlertCopyHandler handles GET requests to /alerts/copy/{id}, returning the
// plain-text block the copy control puts on the clipboard.
func (s *Server) AlertCopyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid alert id", http.StatusBadRequest)
		return
	}
	alert, ok := s.Alerts.Get(id)
	if !ok {
		http.Error(w, "alert not found", http.StatusNotFound)
		return
	}
	w.Header().Set(ContentTypeHeader, "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(render.CopyText(alert))); err != nil {
		log.Error("Failed to write copy block", zap.Error(err))
	}
}

func parseStatusUpdate(r *http.Request) string {
	if r.Header.Get(ContentTypeHeader) == ApplicationJSONVal {
		var update models.StatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			log.Debug("Failed to decode status update body", zap.Error(err))
			return ""
		}
		return update.Status
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.PostForm.Get("status")
}

// loadErrorMessage prefixes the user-facing text for a failed load so it is
// distinguishable from action failures in the toast.
func loadErrorMessage(err error) string {
	return "Failed to load data: " + backend.UserMessage(err)
}
