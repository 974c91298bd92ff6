// Package notify implements the transient toast channel. The sink holds a
// single slot: the newest message replaces whatever is currently shown, and
// the slot empties itself after a fixed interval.
package notify

import (
	"sync"
	"time"

	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"go.uber.org/zap"
)

// Severity classifies a notice for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

// Notice is one message in the slot.
type Notice struct {
	Message  string
	Severity Severity
	At       time.Time
}

// Sink is the single-slot notification channel. A nil Sink is safe to call:
// notices then degrade to log lines.
type Sink struct {
	mu      sync.Mutex
	current *Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewSink creates a sink. ttl <= 0 falls back to DefaultTTL, a nil clock to
// time.Now.
func NewSink(ttl time.Duration, now func() time.Time) *Sink {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Sink{ttl: ttl, now: now}
}

// Notify posts a message, replacing the current one. Never panics.
func (s *Sink) Notify(message string, severity Severity) {
	metadata.NotificationsTotal.Inc()

	if s == nil {
		log.Info("Notice (no sink attached)",
			zap.String("message", message),
			zap.String("severity", string(severity)))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Notice{
		Message:  message,
		Severity: severity,
		At:       s.now(),
	}
}

// Current returns the visible notice, if any. A notice older than the ttl has
// auto-dismissed.
func (s *Sink) Current() (Notice, bool) {
	if s == nil {
		return Notice{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Notice{}, false
	}
	if s.now().Sub(s.current.At) >= s.ttl {
		s.current = nil
		return Notice{}, false
	}
	return *s.current, true
}

// Clear drops the current notice.
func (s *Sink) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
