package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
	"github.com/clinica-bage/app-rx/internal/utils/httpclient"
)

// Global backend client instance
var BackendClientInstance *BackendClient

// BackendError is returned when a call to the clinic backend fails
type BackendError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s failed: %s (status %d)", e.Operation, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, msg)
}

func (e *BackendError) Unwrap() error { return e.Err }

// HTTPStatus is the status the backend answered with, 0 when none
func (e *BackendError) HTTPStatus() int { return e.StatusCode }

// NotFound reports whether the backend answered 404
func (e *BackendError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// BackendClient talks to the clinic REST API. Every call carries the
// caller's bearer token; the client itself holds no credentials.
type BackendClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewBackendClient creates a client for apiURL. The "/api" prefix is added
// here.
func NewBackendClient(apiURL string, client *http.Client, logger *zap.Logger) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(apiURL, "/") + "/api",
		client:  client,
		logger:  logger,
	}
}

// InitBackendClient initializes the global backend client instance
func InitBackendClient() {
	logger := zap.L().Named("backend_client")
	BackendClientInstance = NewBackendClient(
		config.AppConfig.APIURL,
		httpclient.New(config.AppConfig.BackendTimeout),
		logger,
	)
	logger.Info("backend client initialized",
		zap.String("base_url", BackendClientInstance.baseURL),
		zap.Duration("timeout", config.AppConfig.BackendTimeout))
}

// BaseURL returns the API root including the /api prefix
func (c *BackendClient) BaseURL() string { return c.baseURL }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// do sends one request and decodes the envelope. Non-2xx answers become
// *BackendError.
func (c *BackendClient) do(ctx context.Context, operation, method, path, token string, query url.Values, body any) (*models.APIEnvelope, error) {
	ctx, span := utils.TraceExternalService(ctx, "clinic_backend", operation)
	defer span.End()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &BackendError{Operation: operation, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &BackendError{Operation: operation, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": operation})
		if isTimeout(err) {
			observability.BackendCalls.WithLabelValues(operation, "timeout").Inc()
			c.logger.Warn("backend request timed out", zap.String("operation", operation), zap.Duration("elapsed", time.Since(start)))
			return nil, &BackendError{Operation: operation, Message: "request timed out", Err: fmt.Errorf("%w: %v", models.ErrBackendTimeout, err)}
		}
		observability.BackendCalls.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("backend request failed", zap.String("operation", operation), zap.Error(err))
		return nil, &BackendError{Operation: operation, Err: fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)}
	}
	defer resp.Body.Close()

	utils.AddSpanAttribute(span, "http.status_code", resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.BackendCalls.WithLabelValues(operation, "error").Inc()
		return nil, &BackendError{Operation: operation, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var envelope models.APIEnvelope
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := envelope.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		status := "error"
		if resp.StatusCode == http.StatusNotFound {
			status = "not_found"
		}
		observability.BackendCalls.WithLabelValues(operation, status).Inc()
		c.logger.Debug("backend returned an error status",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, &BackendError{Operation: operation, StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil && len(bytes.TrimSpace(raw)) > 0 {
		observability.BackendCalls.WithLabelValues(operation, "error").Inc()
		return nil, &BackendError{Operation: operation, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}

	observability.BackendCalls.WithLabelValues(operation, "success").Inc()
	c.logger.Debug("backend call succeeded",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return &envelope, nil
}

// notFound turns a 404 into a nil result
func notFound(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.NotFound()
}

func decodeIdentity(raw json.RawMessage) (*models.Identity, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	identity := NormalizeIdentity(record)
	return &identity, nil
}

// decodeList accepts a bare array or an object wrapping the array under
// one of keys
func decodeList(raw json.RawMessage, keys ...string) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	for _, k := range keys {
		if inner, ok := wrapper[k]; ok {
			return decodeList(inner)
		}
	}
	return nil, nil
}

func decodeIdentities(raw json.RawMessage) ([]models.Identity, error) {
	items, err := decodeList(raw, "patients", "users", "items", "results")
	if err != nil {
		return nil, err
	}
	identities := make([]models.Identity, 0, len(items))
	for _, item := range items {
		identity, err := decodeIdentity(item)
		if err != nil {
			return nil, err
		}
		if identity != nil {
			identities = append(identities, *identity)
		}
	}
	return identities, nil
}

// backendPrescription accepts the document id under either name
type backendPrescription struct {
	models.PrescriptionRequest
	MongoID string `json:"_id,omitempty"`
}

func decodePrescription(raw json.RawMessage) (*models.PrescriptionRequest, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var p backendPrescription
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode prescription: %w", err)
	}
	if p.ID == "" {
		p.ID = p.MongoID
	}
	return &p.PrescriptionRequest, nil
}

func decodePrescriptions(raw json.RawMessage) ([]models.PrescriptionRequest, error) {
	items, err := decodeList(raw, "prescriptions", "items", "results")
	if err != nil {
		return nil, err
	}
	out := make([]models.PrescriptionRequest, 0, len(items))
	for _, item := range items {
		p, err := decodePrescription(item)
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// Login exchanges credentials for a bearer token and the user snapshot
func (c *BackendClient) Login(ctx context.Context, email, password string) (string, *models.Identity, error) {
	env, err := c.do(ctx, "login", http.MethodPost, "auth/login", "", nil, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", nil, err
	}
	if env.Token == "" {
		return "", nil, &BackendError{Operation: "login", Message: "no token in response", Err: models.ErrInvalidToken}
	}
	user, err := decodeIdentity(env.Payload())
	if err != nil {
		return "", nil, &BackendError{Operation: "login", Err: err}
	}
	return env.Token, user, nil
}

// Register creates an account. The backend may or may not log the new
// user in; token is empty when it does not.
func (c *BackendClient) Register(ctx context.Context, req models.RegisterRequest) (string, *models.Identity, error) {
	req.CPF = utils.OnlyDigits(req.CPF)
	req.Phone = utils.NormalizePhone(req.Phone)
	env, err := c.do(ctx, "register", http.MethodPost, "auth/register", "", nil, req)
	if err != nil {
		return "", nil, err
	}
	user, err := decodeIdentity(env.Payload())
	if err != nil {
		return "", nil, &BackendError{Operation: "register", Err: err}
	}
	return env.Token, user, nil
}

// Me returns the user the token belongs to
func (c *BackendClient) Me(ctx context.Context, token string) (*models.Identity, error) {
	env, err := c.do(ctx, "me", http.MethodGet, "auth/me", token, nil, nil)
	if err != nil {
		return nil, err
	}
	user, err := decodeIdentity(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "me", Err: err}
	}
	return user, nil
}

// UpdateProfile patches the logged-in user's own record
func (c *BackendClient) UpdateProfile(ctx context.Context, token string, payload models.IdentityPayload) (*models.Identity, error) {
	env, err := c.do(ctx, "update_profile", http.MethodPatch, "auth/profile", token, nil, payload)
	if err != nil {
		return nil, err
	}
	user, err := decodeIdentity(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "update_profile", Err: err}
	}
	return user, nil
}

// ListPatients returns every patient visible to the token
func (c *BackendClient) ListPatients(ctx context.Context, token string) ([]models.Identity, error) {
	env, err := c.do(ctx, "list_patients", http.MethodGet, "patients", token, nil, nil)
	if err != nil {
		return nil, err
	}
	identities, err := decodeIdentities(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "list_patients", Err: err}
	}
	return identities, nil
}

// SearchPatients queries by exactly one parameter, in the order cpf,
// name, phone
func (c *BackendClient) SearchPatients(ctx context.Context, token string, q models.PatientSearchQuery) ([]models.Identity, error) {
	query := url.Values{}
	switch {
	case utils.OnlyDigits(q.CPF) != "":
		query.Set("cpf", utils.OnlyDigits(q.CPF))
	case strings.TrimSpace(q.Name) != "":
		query.Set("name", strings.TrimSpace(q.Name))
	case utils.NormalizePhone(q.Phone) != "":
		query.Set("phone", utils.NormalizePhone(q.Phone))
	default:
		return nil, models.ErrEmptySearchQuery
	}

	env, err := c.do(ctx, "search_patients", http.MethodGet, "patients/search", token, query, nil)
	if err != nil {
		if notFound(err) {
			return []models.Identity{}, nil
		}
		return nil, err
	}
	identities, err := decodeIdentities(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "search_patients", Err: err}
	}
	return identities, nil
}

// FindPatientByTaxID returns the patient holding taxID, or nil
func (c *BackendClient) FindPatientByTaxID(ctx context.Context, token, taxID string) (*models.Identity, error) {
	taxID = utils.OnlyDigits(taxID)
	matches, err := c.SearchPatients(ctx, token, models.PatientSearchQuery{CPF: taxID})
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].TaxID == utils.NormalizeCPF(taxID) {
			return &matches[i], nil
		}
	}
	return nil, nil
}

// IdentityLookup binds token to FindPatientByTaxID
func (c *BackendClient) IdentityLookup(token string) IdentityLookup {
	return IdentityLookupFunc(func(ctx context.Context, taxID string) (*models.Identity, error) {
		return c.FindPatientByTaxID(ctx, token, taxID)
	})
}

// GetPatient returns nil when the patient does not exist
func (c *BackendClient) GetPatient(ctx context.Context, token, id string) (*models.Identity, error) {
	env, err := c.do(ctx, "get_patient", http.MethodGet, "patients/"+url.PathEscape(id), token, nil, nil)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	identity, err := decodeIdentity(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "get_patient", Err: err}
	}
	return identity, nil
}

// CreatePatient implements IdentityWriter
func (c *BackendClient) CreatePatient(ctx context.Context, token string, payload models.IdentityPayload) (*models.Identity, error) {
	env, err := c.do(ctx, "create_patient", http.MethodPost, "patients", token, nil, payload)
	if err != nil {
		return nil, err
	}
	identity, err := decodeIdentity(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "create_patient", Err: err}
	}
	return identity, nil
}

// UpdatePatient implements IdentityWriter
func (c *BackendClient) UpdatePatient(ctx context.Context, token, id string, payload models.IdentityPayload) (*models.Identity, error) {
	env, err := c.do(ctx, "update_patient", http.MethodPut, "patients/"+url.PathEscape(id), token, nil, payload)
	if err != nil {
		return nil, err
	}
	identity, err := decodeIdentity(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "update_patient", Err: err}
	}
	return identity, nil
}

// ListPrescriptions forwards params (status, patientId, ...) unchanged
func (c *BackendClient) ListPrescriptions(ctx context.Context, token string, params url.Values) ([]models.PrescriptionRequest, error) {
	env, err := c.do(ctx, "list_prescriptions", http.MethodGet, "prescriptions", token, params, nil)
	if err != nil {
		return nil, err
	}
	out, err := decodePrescriptions(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "list_prescriptions", Err: err}
	}
	return out, nil
}

// GetPrescription returns nil when the prescription does not exist
func (c *BackendClient) GetPrescription(ctx context.Context, token, id string) (*models.PrescriptionRequest, error) {
	env, err := c.do(ctx, "get_prescription", http.MethodGet, "prescriptions/"+url.PathEscape(id), token, nil, nil)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	p, err := decodePrescription(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: "get_prescription", Err: err}
	}
	return p, nil
}

// CreatePrescription submits a new renewal request
func (c *BackendClient) CreatePrescription(ctx context.Context, token string, p models.PrescriptionRequest) (*models.PrescriptionRequest, error) {
	return c.writePrescription(ctx, "create_prescription", http.MethodPost, "prescriptions", token, p)
}

// UpdatePrescription replaces an existing renewal request
func (c *BackendClient) UpdatePrescription(ctx context.Context, token, id string, p models.PrescriptionRequest) (*models.PrescriptionRequest, error) {
	return c.writePrescription(ctx, "update_prescription", http.MethodPut, "prescriptions/"+url.PathEscape(id), token, p)
}

func (c *BackendClient) writePrescription(ctx context.Context, operation, method, path, token string, p models.PrescriptionRequest) (*models.PrescriptionRequest, error) {
	env, err := c.do(ctx, operation, method, path, token, nil, p)
	if err != nil {
		return nil, err
	}
	saved, err := decodePrescription(env.Payload())
	if err != nil {
		return nil, &BackendError{Operation: operation, Err: err}
	}
	if saved == nil {
		// some endpoints answer with only {success:true}
		saved = &p
	}
	return saved, nil
}

// DeletePrescription removes a renewal request
func (c *BackendClient) DeletePrescription(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, "delete_prescription", http.MethodDelete, "prescriptions/"+url.PathEscape(id), token, nil, nil)
	return err
}

// UpdatePrescriptionStatus moves a request through the workflow. The
// backend's message (e.g. that the patient was emailed) is returned.
func (c *BackendClient) UpdatePrescriptionStatus(ctx context.Context, token, id string, update models.PrescriptionStatusUpdate) (*models.PrescriptionRequest, string, error) {
	env, err := c.do(ctx, "update_prescription_status", http.MethodPatch, "prescriptions/"+url.PathEscape(id)+"/status", token, nil, update)
	if err != nil {
		return nil, "", err
	}
	p, err := decodePrescription(env.Payload())
	if err != nil {
		return nil, "", &BackendError{Operation: "update_prescription_status", Err: err}
	}
	return p, env.Message, nil
}

// ListNotes returns the notes attached to a prescription, or all notes
// when prescriptionID is empty
func (c *BackendClient) ListNotes(ctx context.Context, token, prescriptionID string) ([]models.Note, error) {
	var query url.Values
	if prescriptionID != "" {
		query = url.Values{"prescriptionId": {prescriptionID}}
	}
	env, err := c.do(ctx, "list_notes", http.MethodGet, "notes", token, query, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(env.Payload(), "notes", "items")
	if err != nil {
		return nil, &BackendError{Operation: "list_notes", Err: err}
	}
	notes := make([]models.Note, 0, len(items))
	for _, item := range items {
		var n models.Note
		if err := json.Unmarshal(item, &n); err != nil {
			return nil, &BackendError{Operation: "list_notes", Err: fmt.Errorf("decode note: %w", err)}
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// CreateNote stores an administrator note
func (c *BackendClient) CreateNote(ctx context.Context, token string, note models.Note) (*models.Note, error) {
	env, err := c.do(ctx, "create_note", http.MethodPost, "notes", token, nil, note)
	if err != nil {
		return nil, err
	}
	payload := env.Payload()
	if payload == nil {
		return &note, nil
	}
	var saved models.Note
	if err := json.Unmarshal(payload, &saved); err != nil {
		return nil, &BackendError{Operation: "create_note", Err: fmt.Errorf("decode note: %w", err)}
	}
	return &saved, nil
}

// GetReport fetches a named report. Reports are passed through undecoded.
func (c *BackendClient) GetReport(ctx context.Context, token, name string, params url.Values) (json.RawMessage, error) {
	env, err := c.do(ctx, "get_report", http.MethodGet, "reports/"+url.PathEscape(name), token, params, nil)
	if err != nil {
		return nil, err
	}
	return env.Payload(), nil
}

// GetSettings returns the clinic settings document
func (c *BackendClient) GetSettings(ctx context.Context, token string) (map[string]any, error) {
	return c.settings(ctx, "get_settings", http.MethodGet, token, nil)
}

// UpdateSettings replaces the clinic settings document
func (c *BackendClient) UpdateSettings(ctx context.Context, token string, settings map[string]any) (map[string]any, error) {
	return c.settings(ctx, "update_settings", http.MethodPut, token, settings)
}

func (c *BackendClient) settings(ctx context.Context, operation, method, token string, body map[string]any) (map[string]any, error) {
	var payload any
	if body != nil {
		payload = body
	}
	env, err := c.do(ctx, operation, method, "settings", token, nil, payload)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if raw := env.Payload(); raw != nil {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, &BackendError{Operation: operation, Err: fmt.Errorf("decode settings: %w", err)}
		}
	}
	return out, nil
}
