package extract

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		want      TrafficInfo
		wantFound bool
	}{
		{
			name:    "all fields present",
			message: "Suspicious traffic blocked • Source IP: 10.1.2.3 • Destination IP: 192.168.0.5 • Traffic Type: HTTP • AI Verdict: malicious\nRequest Payload: GET /admin?id=1' OR '1'='1",
			want: TrafficInfo{
				SourceIP:    "10.1.2.3",
				DestIP:      "192.168.0.5",
				TrafficType: "HTTP",
				Verdict:     "malicious",
				Payload:     "GET /admin?id=1' OR '1'='1",
			},
			wantFound: true,
		},
		{
			name:    "labels are order-independent",
			message: "AI Verdict: suspicious Source IP: 172.16.0.9",
			want: TrafficInfo{
				SourceIP: "172.16.0.9",
				Verdict:  "suspicious",
			},
			wantFound: true,
		},
		{
			name:      "plain free-text alert has no structured fields",
			message:   "Disk usage on /data exceeded 90%",
			want:      TrafficInfo{},
			wantFound: false,
		},
		{
			name:      "label with empty value is absent",
			message:   "Source IP: \nnothing else",
			want:      TrafficInfo{},
			wantFound: false,
		},
		{
			name:      "empty message",
			message:   "",
			want:      TrafficInfo{},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Extract(tt.message)
			if found != tt.wantFound {
				t.Fatalf("Extract() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	message := "Source IP: 10.0.0.1 • AI Verdict: suspicious"

	first, foundFirst := Extract(message)
	second, foundSecond := Extract(message)

	if foundFirst != foundSecond || first != second {
		t.Errorf("two extractions of the same text differ: %+v vs %+v", first, second)
	}
}

func TestVerdictSeverity(t *testing.T) {
	tests := []struct {
		verdict string
		want    string
	}{
		{"malicious", "danger"},
		{"highly suspicious", "warning"},
		{"normal traffic", "success"},
		{"unknown classification", "primary"},
		{"", "primary"},
	}

	for _, tt := range tests {
		if got := VerdictSeverity(tt.verdict); got != tt.want {
			t.Errorf("VerdictSeverity(%q) = %q, want %q", tt.verdict, got, tt.want)
		}
	}
}

func TestThreatMarkers(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "script and js execution",
			payload: `<script>alert(document.cookie)</script>`,
			want:    []string{"XSS script injection", "JavaScript execution"},
		},
		{
			name:    "sql injection needs both keywords",
			payload: "SELECT password FROM users",
			want:    []string{"SQL injection"},
		},
		{
			name:    "select alone is not flagged",
			payload: "SELECT a file to upload",
			want:    nil,
		},
		{
			name:    "path traversal",
			payload: "GET /../../etc/passwd",
			want:    []string{"Path traversal"},
		},
		{
			name:    "clean payload",
			payload: "GET /index.html HTTP/1.1",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThreatMarkers(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ThreatMarkers() = %v, want %v", got, tt.want)
			}
		})
	}
}
