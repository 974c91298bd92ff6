package models

import (
	"strings"
	"time"
)

// Alert statuses as reported by the backend. Transitions are monotonic in the
// console: pending -> processing -> resolved, with resolved terminal.
const (
	AlertStatusPending    = "pending"
	AlertStatusProcessing = "processing"
	AlertStatusResolved   = "resolved"
)

// Alert types used for severity banding.
const (
	AlertTypeDanger  = "danger"
	AlertTypeWarning = "warning"
	AlertTypeInfo    = "info"
)

// Alert is one alert record as returned by GET /api/alerts.
type Alert struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	AlertType  string `json:"alert_type"`
	Status     string `json:"status"`
	SourceIP   string `json:"source_ip,omitempty"`
	DestIP     string `json:"dest_ip,omitempty"`
	CreatedAt  string `json:"created_at"`
	ResolvedAt string `json:"resolved_at,omitempty"`
}

// RecordID implements store.Record.
func (a Alert) RecordID() int { return a.ID }

// FilterKind implements store.Record. Alerts filter by type.
func (a Alert) FilterKind() string { return a.AlertType }

// FilterStatus implements store.Record.
func (a Alert) FilterStatus() string { return a.Status }

// SearchText implements store.Record. The searchable fields are fixed:
// title, message, source IP and destination IP.
func (a Alert) SearchText() string {
	return strings.Join([]string{a.Title, a.Message, a.SourceIP, a.DestIP}, " ")
}

// CreatedTime parses the backend timestamp. The zero time is returned for
// values the backend never produces in practice (empty or malformed).
func (a Alert) CreatedTime() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", a.CreatedAt, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Terminal reports whether the alert has reached its terminal UI state.
func (a Alert) Terminal() bool { return a.Status == AlertStatusResolved }

// WhiteRule is one white-traffic rule record.
type WhiteRule struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RuleType    string `json:"rule_type"`
	RuleValue   string `json:"rule_value"`
	IsActive    bool   `json:"is_active"`
	Description string `json:"description,omitempty"`
	CreatorName string `json:"creator_name,omitempty"`
	IsOwnRule   bool   `json:"is_own_rule"`
	CreatedAt   string `json:"created_at"`
}

// RecordID implements store.Record.
func (r WhiteRule) RecordID() int { return r.ID }

// FilterKind implements store.Record. Rules filter by rule type.
func (r WhiteRule) FilterKind() string { return r.RuleType }

// FilterStatus implements store.Record, mapping the boolean flag onto the
// filter widget's enabled/disabled vocabulary.
func (r WhiteRule) FilterStatus() string {
	if r.IsActive {
		return "enabled"
	}
	return "disabled"
}

// SearchText implements store.Record. Rules are searchable by name and
// match condition.
func (r WhiteRule) SearchText() string {
	return r.Name + " " + r.RuleValue
}

// FileResult is one file-analysis outcome from POST /file-drop.
type FileResult struct {
	Filename       string   `json:"filename"`
	Error          string   `json:"error,omitempty"`
	IsWhiteTraffic bool     `json:"is_white_traffic"`
	Confidence     float64  `json:"confidence"`
	RiskScore      int      `json:"risk_score"`
	RiskFactors    []string `json:"risk_factors,omitempty"`
	Type           string   `json:"type"`
	Details        string   `json:"details,omitempty"`
}

// Risk bands for analysis results.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// RiskBand classifies the result's risk score.
func (f FileResult) RiskBand() string {
	switch {
	case f.RiskScore >= 50:
		return RiskHigh
	case f.RiskScore >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AlertsEnvelope is the backend response to GET /api/alerts.
type AlertsEnvelope struct {
	Success bool    `json:"success"`
	Alerts  []Alert `json:"alerts"`
	Message string  `json:"message,omitempty"`
}

// RulesEnvelope is the backend response to GET /api/white-rules.
type RulesEnvelope struct {
	Success bool        `json:"success"`
	Rules   []WhiteRule `json:"rules"`
	Message string      `json:"message,omitempty"`
}

// ActionEnvelope is the backend response to mutating actions.
type ActionEnvelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// FileDropEnvelope is the backend response to POST /file-drop.
type FileDropEnvelope struct {
	Success bool         `json:"success"`
	Results []FileResult `json:"results"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ProfileEnvelope is the backend response to profile mutations.
type ProfileEnvelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
}

// StatusUpdate is the JSON body for POST /api/alerts/update/{id}.
type StatusUpdate struct {
	Status string `json:"status"`
}
