package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/SentryView/sentryview/pkg/extract"
	"github.com/SentryView/sentryview/pkg/models"
)

// TrafficView is the extracted traffic card for one alert.
type TrafficView struct {
	SourceIP        string
	DestIP          string
	TrafficType     string
	Verdict         string
	VerdictSeverity string
	Payload         string
	Threats         []string
}

// AlertView is one alert prepared for rendering.
type AlertView struct {
	models.Alert
	SeverityLabel string
	SeverityClass string
	StatusLabel   string
	StatusClass   string
	Unread        bool
	CanProcess    bool
	CanResolve    bool
	Traffic       *TrafficView
	Suggestions   []string
}

var severityLabels = map[string]struct{ label, class string }{
	models.AlertTypeDanger:  {"High", "danger"},
	models.AlertTypeWarning: {"Medium", "warning"},
	models.AlertTypeInfo:    {"Low", "primary"},
}

var statusLabels = map[string]struct{ label, class string }{
	models.AlertStatusPending:    {"Pending", "danger"},
	models.AlertStatusProcessing: {"Processing", "warning"},
	models.AlertStatusResolved:   {"Resolved", "success"},
}

// NewAlertView builds the view model for one alert, including the extracted
// traffic card when the message carries labeled fields. Transition controls
// are withheld once the alert is terminal, and a processing alert only keeps
// the resolve control.
func NewAlertView(a models.Alert) AlertView {
	sev, ok := severityLabels[a.AlertType]
	if !ok {
		sev = struct{ label, class string }{"Unknown", "secondary"}
	}
	st, ok := statusLabels[a.Status]
	if !ok {
		st = struct{ label, class string }{"Unknown", "secondary"}
	}

	view := AlertView{
		Alert:         a,
		SeverityLabel: sev.label,
		SeverityClass: sev.class,
		StatusLabel:   st.label,
		StatusClass:   st.class,
		Unread:        a.Status == models.AlertStatusPending,
		CanProcess:    a.Status == models.AlertStatusPending,
		CanResolve:    !a.Terminal(),
	}

	if info, found := extract.Extract(a.Message); found {
		view.Traffic = &TrafficView{
			SourceIP:        info.SourceIP,
			DestIP:          info.DestIP,
			TrafficType:     info.TrafficType,
			Verdict:         info.Verdict,
			VerdictSeverity: extract.VerdictSeverity(info.Verdict),
			Payload:         info.Payload,
			Threats:         extract.ThreatMarkers(info.Payload),
		}
	}
	if !a.Terminal() {
		view.Suggestions = suggestedActions[a.AlertType]
	}
	return view
}

// suggestedActions is the static response checklist shown for open alerts,
// keyed by severity.
var suggestedActions = map[string][]string{
	models.AlertTypeDanger: {
		"Block the source IP at the perimeter",
		"Check related hosts for the same traffic pattern",
		"Escalate to incident response",
	},
	models.AlertTypeWarning: {
		"Review the traffic detail and confirm the verdict",
		"Add a white rule if the traffic is expected",
	},
	models.AlertTypeInfo: {
		"Review when convenient; no immediate action required",
	},
}

// NewAlertViews maps a filtered alert sequence in order.
func NewAlertViews(alerts []models.Alert) []AlertView {
	views := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, NewAlertView(a))
	}
	return views
}

// AlertStats is the counters strip above the alert list.
type AlertStats struct {
	Pending    int
	Processing int
	Resolved   int
	Today      int
}

// ComputeAlertStats counts alerts per status plus those created today,
// relative to the injected clock.
func ComputeAlertStats(alerts []models.Alert, now time.Time) AlertStats {
	var stats AlertStats
	y, m, d := now.Date()
	for _, a := range alerts {
		switch a.Status {
		case models.AlertStatusPending:
			stats.Pending++
		case models.AlertStatusProcessing:
			stats.Processing++
		case models.AlertStatusResolved:
			stats.Resolved++
		}
		cy, cm, cd := a.CreatedTime().Date()
		if cy == y && cm == m && cd == d {
			stats.Today++
		}
	}
	return stats
}

// CopyText builds the plain-text block offered by the copy action.
func CopyText(a models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alert: %s\n", a.Title)
	fmt.Fprintf(&b, "Type: %s\n", a.AlertType)
	fmt.Fprintf(&b, "Status: %s\n", a.Status)
	fmt.Fprintf(&b, "Created: %s\n", a.CreatedAt)
	if a.SourceIP != "" {
		fmt.Fprintf(&b, "Source IP: %s\n", a.SourceIP)
	}
	if a.DestIP != "" {
		fmt.Fprintf(&b, "Destination IP: %s\n", a.DestIP)
	}
	fmt.Fprintf(&b, "Details: %s", a.Message)
	return b.String()
}

// RuleView is one white-traffic rule prepared for rendering. Action controls
// are only attached for rules the viewer owns; for the rest a lock hint is
// rendered instead. This is a convenience gate, not a security boundary.
type RuleView struct {
	models.WhiteRule
	TypeLabel   string
	StatusLabel string
	CanManage   bool
}

var ruleTypeLabels = map[string]string{
	"ip":       "IP address",
	"domain":   "Domain",
	"port":     "Port",
	"protocol": "Protocol",
}

// NewRuleView builds the view model for one rule.
func NewRuleView(r models.WhiteRule) RuleView {
	label, ok := ruleTypeLabels[r.RuleType]
	if !ok {
		label = r.RuleType
	}
	status := "Disabled"
	if r.IsActive {
		status = "Enabled"
	}
	return RuleView{
		WhiteRule:   r,
		TypeLabel:   label,
		StatusLabel: status,
		CanManage:   r.IsOwnRule,
	}
}

// NewRuleViews maps a filtered rule sequence in order.
func NewRuleViews(rules []models.WhiteRule) []RuleView {
	views := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		views = append(views, NewRuleView(r))
	}
	return views
}

// RuleStats is the counters strip above the rule list.
type RuleStats struct {
	Total    int
	Active   int
	Disabled int
}

// ComputeRuleStats counts rules by enabled state.
func ComputeRuleStats(rules []models.WhiteRule) RuleStats {
	stats := RuleStats{Total: len(rules)}
	for _, r := range rules {
		if r.IsActive {
			stats.Active++
		} else {
			stats.Disabled++
		}
	}
	return stats
}

// FileResultView is one analysis result card.
type FileResultView struct {
	models.FileResult
	Failed       bool
	VerdictLabel string
	BandLabel    string
	BandClass    string
}

var bandLabels = map[string]struct{ label, class string }{
	models.RiskHigh:   {"High risk", "risk-high"},
	models.RiskMedium: {"Medium risk", "risk-medium"},
	models.RiskLow:    {"Low risk", "risk-low"},
}

// NewFileResultView builds the view model for one analysis result.
func NewFileResultView(f models.FileResult) FileResultView {
	band := bandLabels[f.RiskBand()]
	verdict := "Suspicious traffic"
	if f.IsWhiteTraffic {
		verdict = "White traffic"
	}
	return FileResultView{
		FileResult:   f,
		Failed:       f.Error != "",
		VerdictLabel: verdict,
		BandLabel:    band.label,
		BandClass:    band.class,
	}
}

// ToastView is the toast slot state passed to every page.
type ToastView struct {
	Visible  bool
	Message  string
	Severity string
}

// ProfileField is one editable profile form field.
type ProfileField struct {
	Name  string
	Label string
	Value string
}

// NewFileResultViews maps analysis results in order.
func NewFileResultViews(results []models.FileResult) []FileResultView {
	views := make([]FileResultView, 0, len(results))
	for _, f := range results {
		views = append(views, NewFileResultView(f))
	}
	return views
}
