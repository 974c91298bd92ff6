package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/SentryView/sentryview/pkg/backend"
	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/render"
	"github.com/SentryView/sentryview/pkg/store"
	"go.uber.org/zap"
)

const (
	ContentTypeHeader  = "Content-Type"
	ApplicationJSONVal = "application/json"
)

// Profile is the locally cached profile view, refreshed from the echo the
// backend returns on every successful update.
type Profile struct {
	mu        sync.RWMutex
	fields    map[string]string
	avatarURL string
}

// NewProfile seeds the profile cache with the editable field names.
func NewProfile() *Profile {
	return &Profile{
		fields: map[string]string{
			"username":   "",
			"email":      "",
			"phone":      "",
			"department": "",
		},
	}
}

// Merge folds the backend's echoed field map into the cache.
func (p *Profile) Merge(data map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range data {
		p.fields[k] = v
	}
}

// SetAvatarURL records the served avatar location.
func (p *Profile) SetAvatarURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.avatarURL = url
}

// View returns the form fields in a stable order plus the avatar URL.
func (p *Profile) View() ([]render.ProfileField, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	order := []struct{ name, label string }{
		{"username", "Username"},
		{"email", "Email"},
		{"phone", "Phone"},
		{"department", "Department"},
	}
	fields := make([]render.ProfileField, 0, len(order))
	for _, f := range order {
		fields = append(fields, render.ProfileField{Name: f.name, Label: f.label, Value: p.fields[f.name]})
	}
	return fields, p.avatarURL
}

// Server holds the dependencies for all console handlers. One instance is
// constructed per process with everything injected, so handlers are testable
// against a fake backend and clock.
type Server struct {
	Backend  *backend.Client
	Alerts   *store.Store[models.Alert]
	Rules    *store.Store[models.WhiteRule]
	Renderer *render.Renderer
	Notifier *notify.Sink
	Profile  *Profile
	Now      func() time.Time

	// OnAlertsRefreshed, when set, receives every snapshot accepted by a
	// successful refresh. The cluster replicator hooks in here.
	OnAlertsRefreshed func(alerts []models.Alert, at time.Time)
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RefreshAlerts loads the alert sequence from the backend and replaces the
// store wholesale. On any failure the store is left exactly as it was.
func (s *Server) RefreshAlerts(ctx context.Context) error {
	alerts, err := s.Backend.ListAlerts(ctx)
	if err != nil {
		metadata.RefreshFailuresTotal.Inc()
		log.Warn("Alert refresh failed, keeping current snapshot", zap.Error(err))
		return err
	}

	at := s.now()
	s.Alerts.ReplaceAt(alerts, at)
	metadata.RefreshesTotal.Inc()
	log.Debug("Alert store refreshed", zap.Int("count", len(alerts)))

	if s.OnAlertsRefreshed != nil {
		s.OnAlertsRefreshed(alerts, at)
	}
	return nil
}

// RefreshRules loads the rule sequence and replaces the rule store wholesale.
func (s *Server) RefreshRules(ctx context.Context) error {
	rules, err := s.Backend.ListRules(ctx)
	if err != nil {
		metadata.RefreshFailuresTotal.Inc()
		log.Warn("Rule refresh failed, keeping current snapshot", zap.Error(err))
		return err
	}
	s.Rules.Replace(rules)
	metadata.RefreshesTotal.Inc()
	return nil
}

// filterStateFromQuery snapshots the filter widget values from the request.
func filterStateFromQuery(r *http.Request) store.FilterState {
	q := r.URL.Query()
	return store.FilterState{
		Kind:   q.Get("type"),
		Status: q.Get("status"),
		Search: q.Get("q"),
	}
}

func (s *Server) toastView() render.ToastView {
	notice, ok := s.Notifier.Current()
	if !ok {
		return render.ToastView{}
	}
	return render.ToastView{
		Visible:  true,
		Message:  notice.Message,
		Severity: string(notice.Severity),
	}
}

// wantsHTML reports whether the request came from a browser form rather than
// an API client.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(ContentTypeHeader, ApplicationJSONVal)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}

// actionFailed records a failed dispatch: the store is untouched, the user
// message is chosen by error kind and surfaced through the sink.
func (s *Server) actionFailed(err error, op string) string {
	metadata.ActionFailuresTotal.Inc()
	message := backend.UserMessage(err)
	log.Warn("Action dispatch failed",
		zap.String("op", op),
		zap.Error(err))
	s.Notifier.Notify(message, notify.SeverityError)
	return message
}

// HealthzGetHandler handles health status requests.
func (s *Server) HealthzGetHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(ContentTypeHeader, ApplicationJSONVal)
	w.WriteHeader(http.StatusOK)
}

// ReadinessGetHandler reports ready once the backend answers.
func (s *Server) ReadinessGetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.Backend.Ping(ctx); err != nil {
		log.Error("Readiness check failed - backend unreachable", zap.Error(err))
		http.Error(w, "", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set(ContentTypeHeader, ApplicationJSONVal)
	w.WriteHeader(http.StatusOK)
}

// AssetsHandler serves static assets from the web/assets directory.
func AssetsHandler(w http.ResponseWriter, r *http.Request) {
	contentType := ""
	switch filepath.Ext(r.URL.Path) {
	case ".css":
		contentType = "text/css"
	case ".js":
		contentType = "application/javascript"
	}
	w.Header().Set(ContentTypeHeader, contentType)

	path, err := VerifyPath(strings.TrimPrefix(r.URL.Path, "/assets"))
	if err != nil {
		log.Warn("Invalid asset path specified",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, "Invalid path specified", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, path)
}

// VerifyPath resolves an asset path and rejects anything escaping the
// web/assets root.
func VerifyPath(path string) (string, error) {
	errmsg := "unsafe or invalid path specified"
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.New(errmsg)
	}
	trustedRoot := filepath.Join(wd, "web", "assets")

	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(filepath.Join(trustedRoot, cleanPath))
	if err != nil {
		return "", errors.New(errmsg)
	}
	if !strings.HasPrefix(absPath, trustedRoot) {
		log.Warn("Path traversal attempt detected",
			zap.String("requestedPath", path),
			zap.String("resolvedPath", absPath))
		return "", errors.New(errmsg)
	}
	return absPath, nil
}
