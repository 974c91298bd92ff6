// Package extract mines structured traffic fields out of free-text alert
// messages. This is best-effort pattern matching, not a parser: each label is
// tried independently, order does not matter, and a message with no
// recognized labels is a perfectly valid plain-text alert.
package extract

import (
	"regexp"
	"strings"
)

// TrafficInfo holds whatever labeled fields were present in the message.
// Absent fields are empty strings.
type TrafficInfo struct {
	SourceIP    string
	DestIP      string
	TrafficType string
	Verdict     string
	Payload     string
}

// A label followed by whitespace only yields no capture, so an empty value is
// reported as absent rather than present-but-empty.
var patterns = map[string]*regexp.Regexp{
	"sourceIP":    regexp.MustCompile(`(?i)source IP[:：][ \t]*([^\s•]+)`),
	"destIP":      regexp.MustCompile(`(?i)destination IP[:：][ \t]*([^\s•]+)`),
	"trafficType": regexp.MustCompile(`(?i)traffic type[:：][ \t]*([^\s•]+)`),
	"verdict":     regexp.MustCompile(`(?i)AI verdict[:：][ \t]*([^\s•]+)`),
	"payload":     regexp.MustCompile(`(?i)request payload[:：][ \t]*([^\n]+)`),
}

// Extract applies the label patterns to a raw alert message. The second
// return value reports whether at least one field matched.
func Extract(message string) (TrafficInfo, bool) {
	var info TrafficInfo
	found := false

	for name, pattern := range patterns {
		m := pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		found = true
		switch name {
		case "sourceIP":
			info.SourceIP = value
		case "destIP":
			info.DestIP = value
		case "trafficType":
			info.TrafficType = value
		case "verdict":
			info.Verdict = value
		case "payload":
			info.Payload = value
		}
	}

	return info, found
}

// VerdictSeverity maps an AI verdict onto the console's severity vocabulary.
func VerdictSeverity(verdict string) string {
	v := strings.ToLower(verdict)
	switch {
	case strings.Contains(v, "malicious"):
		return "danger"
	case strings.Contains(v, "suspicious"):
		return "warning"
	case strings.Contains(v, "normal"):
		return "success"
	default:
		return "primary"
	}
}

// threatMarkers are substring signatures of common attack payloads.
var threatMarkers = []struct {
	marker string
	label  string
}{
	{"<script>", "XSS script injection"},
	{"alert(", "JavaScript execution"},
	{"eval(", "Code execution"},
	{"../", "Path traversal"},
}

// ThreatMarkers lists the attack signatures found in a request payload.
// SQL injection needs both keywords present, the rest are single substrings.
func ThreatMarkers(payload string) []string {
	var threats []string
	for _, t := range threatMarkers {
		if strings.Contains(payload, t.marker) {
			threats = append(threats, t.label)
		}
	}
	if strings.Contains(payload, "SELECT") && strings.Contains(payload, "FROM") {
		threats = append(threats, "SQL injection")
	}
	return threats
}
