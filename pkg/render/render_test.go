package render

import (
	"strings"
	"testing"
	"time"

	"github.com/SentryView/sentryview/pkg/models"
)

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("failed to parse embedded templates: %v", err)
	}
	return r
}

func TestEmptyViewRendersEmptyState(t *testing.T) {
	r := mustRenderer(t)

	tests := []struct {
		name     string
		template string
		data     any
		marker   string
	}{
		{"alerts", "alertList", []AlertView(nil), "empty-alerts-state"},
		{"rules", "ruleList", []RuleView(nil), "empty-rules-state"},
		{"file results", "fileResults", []FileResultView(nil), "empty-file-state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Fragment(tt.template, tt.data)
			if err != nil {
				t.Fatalf("Fragment() error: %v", err)
			}
			if !strings.Contains(out, tt.marker) {
				t.Errorf("empty view must render the empty-state marker %q:\n%s", tt.marker, out)
			}
			if strings.Contains(out, "data-alert-id") || strings.Contains(out, "data-rule-id") {
				t.Error("empty view must not render record fragments")
			}
		})
	}
}

func TestUserFieldsAreEscaped(t *testing.T) {
	r := mustRenderer(t)

	alert := models.Alert{
		ID:      1,
		Title:   `<script>alert("xss")</script>`,
		Message: `<img src=x onerror=alert(1)>`,
		Status:  models.AlertStatusPending,
	}

	out, err := r.Fragment("alertList", NewAlertViews([]models.Alert{alert}))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}

	if strings.Contains(out, "<script>") {
		t.Error("script tag from a record field must render inert")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected the title to appear escaped")
	}
	if strings.Contains(out, "<img src=x") {
		t.Error("message markup must be escaped")
	}
}

func TestRuleConditionIsEscaped(t *testing.T) {
	r := mustRenderer(t)

	rule := models.WhiteRule{
		ID:        5,
		Name:      "bad name <b>bold</b>",
		RuleType:  "domain",
		RuleValue: `<script>steal()</script>`,
		IsOwnRule: true,
	}

	out, err := r.Fragment("ruleList", NewRuleViews([]models.WhiteRule{rule}))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Errorf("rule fields must be escaped:\n%s", out)
	}
}

func TestResolvedAlertHidesTransitionControls(t *testing.T) {
	r := mustRenderer(t)

	tests := []struct {
		status      string
		wantProcess bool
		wantResolve bool
	}{
		{models.AlertStatusPending, true, true},
		{models.AlertStatusProcessing, false, true},
		{models.AlertStatusResolved, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			out, err := r.Fragment("alertList", NewAlertViews([]models.Alert{{ID: 1, Title: "t", Status: tt.status}}))
			if err != nil {
				t.Fatalf("Fragment() error: %v", err)
			}
			if got := strings.Contains(out, `data-action="process"`); got != tt.wantProcess {
				t.Errorf("process control present = %v, want %v", got, tt.wantProcess)
			}
			if got := strings.Contains(out, `data-action="resolve"`); got != tt.wantResolve {
				t.Errorf("resolve control present = %v, want %v", got, tt.wantResolve)
			}
		})
	}
}

func TestNonOwnedRuleRendersNoControls(t *testing.T) {
	r := mustRenderer(t)

	rules := []models.WhiteRule{
		{ID: 1, Name: "mine", RuleType: "ip", RuleValue: "10.0.0.0/8", IsOwnRule: true},
		{ID: 2, Name: "theirs", RuleType: "ip", RuleValue: "172.16.0.0/12", IsOwnRule: false},
	}

	out, err := r.Fragment("ruleList", NewRuleViews(rules))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}

	if !strings.Contains(out, `data-action="toggle" data-rule-id="1"`) {
		t.Error("owned rule must render a toggle control")
	}
	if strings.Contains(out, `data-action="toggle" data-rule-id="2"`) {
		t.Error("non-owned rule must not render a toggle control")
	}
	if !strings.Contains(out, "No permission") {
		t.Error("non-owned rule must render the lock hint")
	}
}

func TestTrafficCardRenderedWhenExtractable(t *testing.T) {
	r := mustRenderer(t)

	alert := models.Alert{
		ID:      9,
		Title:   "Suspicious traffic blocked",
		Message: "Source IP: 10.1.2.3 • AI Verdict: malicious • Request Payload: <script>alert(1)</script>",
		Status:  models.AlertStatusPending,
	}

	out, err := r.Fragment("alertList", NewAlertViews([]models.Alert{alert}))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}
	if !strings.Contains(out, "Traffic threat detection") {
		t.Error("expected the traffic card for an extractable message")
	}
	if !strings.Contains(out, "10.1.2.3") {
		t.Error("expected the extracted source IP in the card")
	}
	if !strings.Contains(out, "XSS script injection") {
		t.Error("expected the payload threat markers in the card")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("payload must render escaped")
	}
}

func TestSuggestedActionsFollowSeverityAndStatus(t *testing.T) {
	r := mustRenderer(t)

	open := models.Alert{ID: 1, Title: "t", AlertType: models.AlertTypeDanger, Status: models.AlertStatusPending}
	out, err := r.Fragment("alertList", NewAlertViews([]models.Alert{open}))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}
	if !strings.Contains(out, "Suggested actions") {
		t.Error("open danger alert must render the suggested-actions list")
	}
	if !strings.Contains(out, "Escalate to incident response") {
		t.Error("danger alerts must suggest escalation")
	}

	closed := open
	closed.Status = models.AlertStatusResolved
	out, err = r.Fragment("alertList", NewAlertViews([]models.Alert{closed}))
	if err != nil {
		t.Fatalf("Fragment() error: %v", err)
	}
	if strings.Contains(out, "Suggested actions") {
		t.Error("resolved alerts must not render suggestions")
	}
}

func TestComputeAlertStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.Local)
	alerts := []models.Alert{
		{ID: 1, Status: models.AlertStatusPending, CreatedAt: "2025-06-01 09:30:00"},
		{ID: 2, Status: models.AlertStatusProcessing, CreatedAt: "2025-05-30 12:00:00"},
		{ID: 3, Status: models.AlertStatusResolved, CreatedAt: "2025-06-01 01:00:00"},
		{ID: 4, Status: models.AlertStatusResolved, CreatedAt: "not a timestamp"},
	}

	stats := ComputeAlertStats(alerts, now)
	if stats.Pending != 1 || stats.Processing != 1 || stats.Resolved != 2 {
		t.Errorf("status counts = %+v", stats)
	}
	if stats.Today != 2 {
		t.Errorf("Today = %d, want 2", stats.Today)
	}
}

func TestStatsScenarioSinglePendingAlert(t *testing.T) {
	stats := ComputeAlertStats([]models.Alert{{ID: 1, Status: models.AlertStatusPending}}, time.Now())
	if stats.Pending != 1 || stats.Processing != 0 || stats.Resolved != 0 {
		t.Errorf("single pending alert must yield pending=1, processing=0, resolved=0; got %+v", stats)
	}
}

func TestCopyText(t *testing.T) {
	a := models.Alert{
		ID:        3,
		Title:     "Port scan",
		AlertType: "danger",
		Status:    "pending",
		CreatedAt: "2025-06-01 10:00:00",
		SourceIP:  "10.0.0.8",
		Message:   "repeated SYN probes",
	}

	text := CopyText(a)
	for _, want := range []string{"Alert: Port scan", "Source IP: 10.0.0.8", "Details: repeated SYN probes"} {
		if !strings.Contains(text, want) {
			t.Errorf("CopyText missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Destination IP") {
		t.Error("absent fields must be omitted from the copy block")
	}
}
