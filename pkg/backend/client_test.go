package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAlertsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/alerts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"alerts":[{"id":1,"title":"Port scan","status":"pending","alert_type":"danger"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	alerts, err := client.ListAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, alerts[0].ID)
	assert.Equal(t, "pending", alerts[0].Status)
}

func TestListAlertsLogicalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"database unavailable"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListAlerts(context.Background())
	require.Error(t, err)

	var logical *LogicalError
	require.True(t, errors.As(err, &logical), "expected LogicalError, got %T", err)
	assert.Equal(t, "database unavailable", logical.Message)
	assert.Equal(t, "database unavailable", UserMessage(err))
}

func TestListAlertsTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
		},
		{
			name: "non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>sorry</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := New(srv.URL)
			_, err := client.ListAlerts(context.Background())
			require.Error(t, err)

			var transport *TransportError
			require.True(t, errors.As(err, &transport), "expected TransportError, got %T", err)
			assert.Equal(t, GenericTransportMessage, UserMessage(err))
		})
	}
}

func TestUpdateAlertStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/alerts/update/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"alert status updated to: resolved"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	msg, err := client.UpdateAlertStatus(context.Background(), 7, "resolved")
	require.NoError(t, err)
	assert.Equal(t, "alert status updated to: resolved", msg)
}

func TestToggleRuleEchoesActiveFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/white-rules/toggle/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"rule disabled","is_active":false}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	active, msg, err := client.ToggleRule(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, "rule disabled", msg)
}

func TestAddRuleSendsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "office subnet", r.PostForm.Get("name"))
		assert.Equal(t, "ip", r.PostForm.Get("rule_type"))
		assert.Equal(t, "192.168.1.0/24", r.PostForm.Get("rule_value"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"rule created"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	msg, err := client.AddRule(context.Background(), RuleInput{
		Name:      "office subnet",
		RuleType:  "ip",
		RuleValue: "192.168.1.0/24",
	})
	require.NoError(t, err)
	assert.Equal(t, "rule created", msg)
}

func TestAnalyzeFilesMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "capture.pcap.txt", files[0].Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"2 files analyzed","results":[
			{"filename":"capture.pcap.txt","is_white_traffic":true,"confidence":0.93,"risk_score":12,"type":"text"},
			{"filename":"payload.zip","is_white_traffic":false,"confidence":0.81,"risk_score":64,"type":"archive","risk_factors":["embedded executable"]}
		]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	results, msg, err := client.AnalyzeFiles(context.Background(), []Upload{
		{Filename: "capture.pcap.txt", Content: strings.NewReader("GET / HTTP/1.1")},
		{Filename: "payload.zip", Content: strings.NewReader("PK")},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 files analyzed", msg)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[1].RiskBand())
	assert.Equal(t, "low", results[0].RiskBand())
}

func TestChangePasswordLogicalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"current password incorrect"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ChangePassword(context.Background(), "old", "new", "new")
	require.Error(t, err)
	assert.Equal(t, "current password incorrect", UserMessage(err))
}
