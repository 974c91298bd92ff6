package handlers

import (
	"net/http"
	"strconv"

	"github.com/SentryView/sentryview/pkg/backend"
	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/render"
	"github.com/SentryView/sentryview/pkg/store"
	"go.uber.org/zap"
)

// RulesPageHandler handles GET requests to /white-rules.
func (s *Server) RulesPageHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.RefreshRules(r.Context()); err != nil {
		s.Notifier.Notify(loadErrorMessage(err), notify.SeverityError)
	}

	state := filterStateFromQuery(r)
	snapshot := s.Rules.Snapshot()
	filtered := store.Project(snapshot, state)

	data := struct {
		Title  string
		Stats  render.RuleStats
		Filter store.FilterState
		Rules  []render.RuleView
		Toast  render.ToastView
	}{
		Title:  "White rules",
		Stats:  render.ComputeRuleStats(snapshot),
		Filter: state,
		Rules:  render.NewRuleViews(filtered),
		Toast:  s.toastView(),
	}

	w.Header().Set(ContentTypeHeader, "text/html")
	if err := s.Renderer.Page(w, "rulesPage", data); err != nil {
		log.Error("Failed to render rules page", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// RulesJSONHandler handles GET requests to /api/white-rules.
func (s *Server) RulesJSONHandler(w http.ResponseWriter, r *http.Request) {
	filtered := store.Project(s.Rules.Snapshot(), filterStateFromQuery(r))
	writeJSON(w, http.StatusOK, models.RulesEnvelope{Success: true, Rules: filtered})
}

func ruleInputFromForm(r *http.Request) backend.RuleInput {
	return backend.RuleInput{
		Name:        r.PostForm.Get("name"),
		RuleType:    r.PostForm.Get("rule_type"),
		RuleValue:   r.PostForm.Get("rule_value"),
		Description: r.PostForm.Get("description"),
	}
}

// RuleAddHandler handles POST requests to /white-rules/add. Creation changes
// the set's membership, so the store is reloaded in full afterwards.
func (s *Server) RuleAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "invalid form data"})
		return
	}

	in := ruleInputFromForm(r)
	if in.Name == "" || in.RuleValue == "" {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "rule name and condition are required"})
		return
	}

	message, err := s.Backend.AddRule(r.Context(), in)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ActionEnvelope{Success: false, Message: s.actionFailed(err, "add rule")})
		return
	}

	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)
	if err := s.RefreshRules(r.Context()); err != nil {
		log.Warn("Rule reload after add failed", zap.Error(err))
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/white-rules", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ActionEnvelope{Success: true, Message: message})
}

// ownedRule resolves a rule id and enforces the ownership gate. A non-owned
// rule never produces a backend request; the backend remains the real
// authority, this is a courtesy check mirroring the hidden controls.
func (s *Server) ownedRule(w http.ResponseWriter, r *http.Request) (models.WhiteRule, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "invalid rule id"})
		return models.WhiteRule{}, false
	}

	rule, ok := s.Rules.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ActionEnvelope{Success: false, Message: "rule not found"})
		return models.WhiteRule{}, false
	}
	if !rule.IsOwnRule {
		log.Debug("Refusing action on non-owned rule", zap.Int("id", id))
		writeJSON(w, http.StatusForbidden, models.ActionEnvelope{Success: false, Message: "no permission to manage this rule"})
		return models.WhiteRule{}, false
	}
	return rule, true
}

// RuleEditHandler handles POST requests to /white-rules/edit/{id}.
func (s *Server) RuleEditHandler(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.ownedRule(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ActionEnvelope{Success: false, Message: "invalid form data"})
		return
	}

	message, err := s.Backend.EditRule(r.Context(), rule.ID, ruleInputFromForm(r))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ActionEnvelope{Success: false, Message: s.actionFailed(err, "edit rule")})
		return
	}

	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)
	if err := s.RefreshRules(r.Context()); err != nil {
		log.Warn("Rule reload after edit failed", zap.Error(err))
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/white-rules", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ActionEnvelope{Success: true, Message: message})
}

// RuleToggleHandler handles POST requests to /white-rules/toggle/{id}. The
// single affected record is patched with the state the backend settled on.
func (s *Server) RuleToggleHandler(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.ownedRule(w, r)
	if !ok {
		return
	}

	active, message, err := s.Backend.ToggleRule(r.Context(), rule.ID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ActionEnvelope{Success: false, Message: s.actionFailed(err, "toggle rule")})
		return
	}

	s.Rules.Patch(rule.ID, func(wr *models.WhiteRule) { wr.IsActive = active })
	metadata.ActionsTotal.Inc()
	if message == "" {
		if active {
			message = "Rule enabled"
		} else {
			message = "Rule disabled"
		}
	}
	s.Notifier.Notify(message, notify.SeveritySuccess)

	if wantsHTML(r) {
		http.Redirect(w, r, "/white-rules", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ActionEnvelope{Success: true, Message: message, IsActive: &active})
}

// RuleDeleteHandler handles POST requests to /white-rules/delete/{id}.
func (s *Server) RuleDeleteHandler(w http.ResponseWriter, r *http.Request) {
	rule, ok := s.ownedRule(w, r)
	if !ok {
		return
	}

	message, err := s.Backend.DeleteRule(r.Context(), rule.ID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.ActionEnvelope{Success: false, Message: s.actionFailed(err, "delete rule")})
		return
	}

	metadata.ActionsTotal.Inc()
	s.Notifier.Notify(message, notify.SeveritySuccess)
	if err := s.RefreshRules(r.Context()); err != nil {
		// Keep the view usable even if the reload lost the race; the record
		// is gone on the backend either way.
		s.Rules.Remove(rule.ID)
		log.Warn("Rule reload after delete failed", zap.Error(err))
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/white-rules", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, models.ActionEnvelope{Success: true, Message: message})
}
