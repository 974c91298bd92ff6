package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/models"
	"go.uber.org/zap"
)

// Client talks to the monitoring backend. The backend is an opaque HTTP/JSON
// collaborator: success is signalled by a boolean flag in the body, so every
// call checks both the transport outcome and the logical flag.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client, mainly for tests and timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a backend client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAlerts loads the full alert sequence from GET /api/alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	const op = "list alerts"

	var envelope models.AlertsEnvelope
	if err := c.getJSON(ctx, op, "/api/alerts", &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, &LogicalError{Op: op, Message: envelope.Message}
	}

	log.Debug("Loaded alerts from backend", zap.Int("count", len(envelope.Alerts)))
	return envelope.Alerts, nil
}

// UpdateAlertStatus posts a status transition for one alert and returns the
// server's confirmation message.
func (c *Client) UpdateAlertStatus(ctx context.Context, id int, status string) (string, error) {
	const op = "update alert status"

	body, err := json.Marshal(models.StatusUpdate{Status: status})
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}

	var envelope models.ActionEnvelope
	path := fmt.Sprintf("/api/alerts/update/%d", id)
	if err := c.postJSON(ctx, op, path, body, &envelope); err != nil {
		return "", err
	}
	if !envelope.Success {
		return "", &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.Message, nil
}

// ListRules loads the white-traffic rule sequence from GET /api/white-rules.
func (c *Client) ListRules(ctx context.Context) ([]models.WhiteRule, error) {
	const op = "list rules"

	var envelope models.RulesEnvelope
	if err := c.getJSON(ctx, op, "/api/white-rules", &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.Rules, nil
}

// RuleInput is the form payload for rule creation and editing.
type RuleInput struct {
	Name        string
	RuleType    string
	RuleValue   string
	Description string
}

func (in RuleInput) values() url.Values {
	return url.Values{
		"name":        {in.Name},
		"rule_type":   {in.RuleType},
		"rule_value":  {in.RuleValue},
		"description": {in.Description},
	}
}

// AddRule creates a rule via POST /white-rules/add (form-encoded).
func (c *Client) AddRule(ctx context.Context, in RuleInput) (string, error) {
	return c.ruleAction(ctx, "add rule", "/white-rules/add", in.values())
}

// EditRule updates a rule via POST /white-rules/edit/{id} (form-encoded).
func (c *Client) EditRule(ctx context.Context, id int, in RuleInput) (string, error) {
	return c.ruleAction(ctx, "edit rule", fmt.Sprintf("/white-rules/edit/%d", id), in.values())
}

// DeleteRule removes a rule via POST /white-rules/delete/{id}.
func (c *Client) DeleteRule(ctx context.Context, id int) (string, error) {
	return c.ruleAction(ctx, "delete rule", fmt.Sprintf("/white-rules/delete/%d", id), nil)
}

func (c *Client) ruleAction(ctx context.Context, op, path string, form url.Values) (string, error) {
	var envelope models.ActionEnvelope
	if err := c.postForm(ctx, op, path, form, &envelope); err != nil {
		return "", err
	}
	if !envelope.Success {
		return "", &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.Message, nil
}

// ToggleRule flips a rule's enabled flag via POST /white-rules/toggle/{id}
// and returns the new state the backend settled on.
func (c *Client) ToggleRule(ctx context.Context, id int) (bool, string, error) {
	const op = "toggle rule"

	var envelope models.ActionEnvelope
	path := fmt.Sprintf("/white-rules/toggle/%d", id)
	if err := c.postForm(ctx, op, path, nil, &envelope); err != nil {
		return false, "", err
	}
	if !envelope.Success {
		return false, "", &LogicalError{Op: op, Message: envelope.Message}
	}

	active := false
	if envelope.IsActive != nil {
		active = *envelope.IsActive
	}
	return active, envelope.Message, nil
}

// Upload is one file forwarded for analysis.
type Upload struct {
	Filename string
	Content  io.Reader
}

// AnalyzeFiles forwards a batch of files to POST /file-drop as multipart and
// returns the per-file analysis results.
func (c *Client) AnalyzeFiles(ctx context.Context, uploads []Upload) ([]models.FileResult, string, error) {
	const op = "analyze files"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, up := range uploads {
		part, err := writer.CreateFormFile("files", up.Filename)
		if err != nil {
			return nil, "", &TransportError{Op: op, Err: err}
		}
		if _, err := io.Copy(part, up.Content); err != nil {
			return nil, "", &TransportError{Op: op, Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", &TransportError{Op: op, Err: err}
	}

	var envelope models.FileDropEnvelope
	if err := c.post(ctx, op, "/file-drop", writer.FormDataContentType(), &buf, &envelope); err != nil {
		return nil, "", err
	}
	if !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = envelope.Message
		}
		return nil, "", &LogicalError{Op: op, Message: message}
	}
	return envelope.Results, envelope.Message, nil
}

// UpdateProfile saves profile fields via POST /profile/update and returns the
// updated field map echoed by the backend.
func (c *Client) UpdateProfile(ctx context.Context, fields url.Values) (map[string]string, string, error) {
	const op = "update profile"

	var envelope models.ProfileEnvelope
	if err := c.postForm(ctx, op, "/profile/update", fields, &envelope); err != nil {
		return nil, "", err
	}
	if !envelope.Success {
		return nil, "", &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.Data, envelope.Message, nil
}

// UploadAvatar sends a new avatar via POST /profile/avatar and returns its
// served URL.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, string, error) {
	const op = "upload avatar"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return "", "", &TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", "", &TransportError{Op: op, Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", "", &TransportError{Op: op, Err: err}
	}

	var envelope models.ProfileEnvelope
	if err := c.post(ctx, op, "/profile/avatar", writer.FormDataContentType(), &buf, &envelope); err != nil {
		return "", "", err
	}
	if !envelope.Success {
		return "", "", &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.AvatarURL, envelope.Message, nil
}

// ChangePassword posts a password change via POST /profile/change-password.
func (c *Client) ChangePassword(ctx context.Context, current, next, confirm string) (string, error) {
	const op = "change password"

	form := url.Values{
		"current_password": {current},
		"new_password":     {next},
		"confirm_password": {confirm},
	}

	var envelope models.ProfileEnvelope
	if err := c.postForm(ctx, op, "/profile/change-password", form, &envelope); err != nil {
		return "", err
	}
	if !envelope.Success {
		return "", &LogicalError{Op: op, Message: envelope.Message}
	}
	return envelope.Message, nil
}

// Ping checks that the backend answers at all. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	var envelope models.AlertsEnvelope
	return c.getJSON(ctx, "ping", "/api/alerts", &envelope)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return c.decode(op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body []byte, out any) error {
	return c.post(ctx, op, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) postForm(ctx context.Context, op, path string, form url.Values, out any) error {
	return c.post(ctx, op, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), out)
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	return c.decode(op, req, out)
}

func (c *Client) decode(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Backend request failed",
			zap.String("op", op),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
