package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
)

// recordedRequest is what the fake backend saw
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   map[string]any
}

type fakeBackend struct {
	server   *httptest.Server
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Auth:   r.Header.Get("Authorization"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		fb.requests = append(fb.requests, rec)

		h, ok := fb.routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"route not found"}`))
			return
		}
		h(w, r)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) on(method, path string, status int, body string) {
	fb.routes[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (fb *fakeBackend) last() recordedRequest {
	return fb.requests[len(fb.requests)-1]
}

func newTestBackendClient(fb *fakeBackend) *BackendClient {
	return NewBackendClient(fb.server.URL+"/", fb.server.Client(), zap.NewNop())
}

func TestBackendClient_Login(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/auth/login", http.StatusOK,
		`{"success":true,"token":"tok-1","user":{"_id":"u1","nome":"Maria","email":"maria@example.com","cpf":"52998224725","tipo":"admin"}}`)
	c := newTestBackendClient(fb)

	token, user, err := c.Login(context.Background(), "maria@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Maria", user.FullName)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "maria@example.com", fb.last().Body["email"])
	assert.Empty(t, fb.last().Auth)
}

func TestBackendClient_LoginRejected(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, `{"success":false,"message":"Credenciais inválidas"}`)
	c := newTestBackendClient(fb)

	_, _, err := c.Login(context.Background(), "x@example.com", "bad")

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "login", be.Operation)
	assert.Equal(t, http.StatusUnauthorized, be.StatusCode)
	assert.Equal(t, "Credenciais inválidas", be.Message)
	assert.Contains(t, err.Error(), "login failed")
}

func TestBackendClient_LoginWithoutToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/auth/login", http.StatusOK, `{"success":true}`)
	c := newTestBackendClient(fb)

	_, _, err := c.Login(context.Background(), "x@example.com", "pw")

	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestBackendClient_MeSendsToken(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/auth/me", http.StatusOK, `{"success":true,"data":{"id":"u1","name":"João","Cpf":"123"}}`)
	c := newTestBackendClient(fb)

	user, err := c.Me(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", fb.last().Auth)
	assert.Equal(t, "00000000123", user.TaxID)
}

func TestBackendClient_Register(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/auth/register", http.StatusCreated, `{"success":true,"user":{"id":"u2","name":"Ana"}}`)
	c := newTestBackendClient(fb)

	token, user, err := c.Register(context.Background(), models.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "pw", CPF: "529.982.247-25", Phone: "(53) 99999-9999",
	})

	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "52998224725", fb.last().Body["cpf"])
	assert.Equal(t, "53999999999", fb.last().Body["phone"])
}

func TestBackendClient_UpdateProfile(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPatch, "/api/auth/profile", http.StatusOK, `{"success":true,"user":{"id":"u1","telefone":"53999999999"}}`)
	c := newTestBackendClient(fb)

	user, err := c.UpdateProfile(context.Background(), "tok", models.IdentityPayload{Phone: "53999999999"})

	require.NoError(t, err)
	assert.Equal(t, "53999999999", user.Phone)
}

func TestBackendClient_SearchPatients(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/patients/search", http.StatusOK,
		`{"success":true,"data":[{"_id":"p1","nome":"Maria","cpf":"52998224725"},{"_id":"p2","name":"Mário","cpf":"11144477735"}]}`)
	c := newTestBackendClient(fb)

	tests := []struct {
		name  string
		query models.PatientSearchQuery
		param string
		value string
	}{
		{"cpf wins", models.PatientSearchQuery{CPF: "529.982.247-25", Name: "Maria"}, "cpf", "52998224725"},
		{"name", models.PatientSearchQuery{Name: " Maria "}, "name", "Maria"},
		{"phone", models.PatientSearchQuery{Phone: "(53) 99999-9999"}, "phone", "53999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.SearchPatients(context.Background(), "tok", tt.query)

			require.NoError(t, err)
			assert.Len(t, got, 2)
			q := fb.last().Query
			assert.Len(t, q, 1)
			assert.Equal(t, tt.value, q.Get(tt.param))
		})
	}

	_, err := c.SearchPatients(context.Background(), "tok", models.PatientSearchQuery{})
	assert.ErrorIs(t, err, models.ErrEmptySearchQuery)
}

func TestBackendClient_SearchPatientsWrappedList(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/patients/search", http.StatusOK, `{"success":true,"data":{"patients":[{"_id":"p1"}],"total":1}}`)
	c := newTestBackendClient(fb)

	got, err := c.SearchPatients(context.Background(), "tok", models.PatientSearchQuery{Name: "x"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestBackendClient_FindPatientByTaxID(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/patients/search", http.StatusOK,
		`{"success":true,"data":[{"_id":"p9","cpf":"99999999999"},{"_id":"p1","cpf":"529.982.247-25"}]}`)
	c := newTestBackendClient(fb)

	got, err := c.IdentityLookup("tok").FindByTaxID(context.Background(), "52998224725")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)

	got, err = c.FindPatientByTaxID(context.Background(), "tok", "11111111111")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBackendClient_NotFoundIsNotAnError(t *testing.T) {
	fb := newFakeBackend(t)
	c := newTestBackendClient(fb)

	patient, err := c.GetPatient(context.Background(), "tok", "missing")
	assert.NoError(t, err)
	assert.Nil(t, patient)

	p, err := c.GetPrescription(context.Background(), "tok", "missing")
	assert.NoError(t, err)
	assert.Nil(t, p)

	results, err := c.SearchPatients(context.Background(), "tok", models.PatientSearchQuery{Name: "nobody"})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestBackendClient_PatientWrites(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/patients", http.StatusCreated, `{"success":true,"data":{"_id":"p1","cpf":"52998224725"}}`)
	fb.on(http.MethodPut, "/api/patients/p1", http.StatusOK, `{"success":true,"data":{"_id":"p1","phone":"53999999999"}}`)
	c := newTestBackendClient(fb)

	created, err := c.CreatePatient(context.Background(), "tok", models.IdentityPayload{CPF: "52998224725", Phone: "53999999999"})
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)

	updated, err := c.UpdatePatient(context.Background(), "tok", "p1", models.IdentityPayload{Phone: "53999999999"})
	require.NoError(t, err)
	assert.Equal(t, "53999999999", updated.Phone)
	assert.Equal(t, map[string]any{"phone": "53999999999"}, fb.last().Body)
}

func TestBackendClient_Prescriptions(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/prescriptions", http.StatusOK,
		`{"success":true,"data":{"prescriptions":[{"_id":"rx1","medicationName":"Losartana","status":"pending"}]}}`)
	fb.on(http.MethodGet, "/api/prescriptions/rx1", http.StatusOK,
		`{"success":true,"data":{"id":"rx1","medicationName":"Losartana","numberOfBoxes":2}}`)
	fb.on(http.MethodPost, "/api/prescriptions", http.StatusCreated, `{"success":true}`)
	fb.on(http.MethodPut, "/api/prescriptions/rx1", http.StatusOK, `{"success":true,"data":{"_id":"rx1","dosage":"50mg"}}`)
	fb.on(http.MethodDelete, "/api/prescriptions/rx1", http.StatusOK, `{"success":true}`)
	fb.on(http.MethodPatch, "/api/prescriptions/rx1/status", http.StatusOK,
		`{"success":true,"message":"Status atualizado e e-mail enviado","data":{"_id":"rx1","status":"approved"}}`)
	c := newTestBackendClient(fb)
	ctx := context.Background()

	list, err := c.ListPrescriptions(ctx, "tok", url.Values{"status": {"pending"}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "rx1", list[0].ID)
	assert.Equal(t, "pending", fb.last().Query.Get("status"))

	one, err := c.GetPrescription(ctx, "tok", "rx1")
	require.NoError(t, err)
	assert.Equal(t, 2, one.NumberOfBoxes)

	draft := models.PrescriptionRequest{MedicationName: "Losartana", Dosage: "50mg", NumberOfBoxes: 1, DeliveryMethod: models.DeliveryClinic}
	created, err := c.CreatePrescription(ctx, "tok", draft)
	require.NoError(t, err)
	assert.Equal(t, draft, *created, "bare success echoes the request")

	updated, err := c.UpdatePrescription(ctx, "tok", "rx1", draft)
	require.NoError(t, err)
	assert.Equal(t, "rx1", updated.ID)

	require.NoError(t, c.DeletePrescription(ctx, "tok", "rx1"))

	p, message, err := c.UpdatePrescriptionStatus(ctx, "tok", "rx1", models.PrescriptionStatusUpdate{Status: models.PrescriptionApproved})
	require.NoError(t, err)
	assert.Equal(t, models.PrescriptionApproved, p.Status)
	assert.Equal(t, "Status atualizado e e-mail enviado", message)
	assert.Equal(t, "approved", fb.last().Body["status"])
}

func TestBackendClient_NotesReportsSettings(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/notes", http.StatusOK, `{"success":true,"data":[{"id":"n1","content":"ligar amanhã"}]}`)
	fb.on(http.MethodPost, "/api/notes", http.StatusCreated, `{"success":true,"data":{"id":"n2","content":"ok"}}`)
	fb.on(http.MethodGet, "/api/reports/monthly", http.StatusOK, `{"success":true,"data":{"total":12}}`)
	fb.on(http.MethodGet, "/api/settings", http.StatusOK, `{"success":true,"data":{"clinicName":"Bagé"}}`)
	fb.on(http.MethodPut, "/api/settings", http.StatusOK, `{"success":true,"data":{"clinicName":"Nova"}}`)
	c := newTestBackendClient(fb)
	ctx := context.Background()

	notes, err := c.ListNotes(ctx, "tok", "rx1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "rx1", fb.last().Query.Get("prescriptionId"))

	note, err := c.CreateNote(ctx, "tok", models.Note{Content: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "n2", note.ID)

	report, err := c.GetReport(ctx, "tok", "monthly", url.Values{"month": {"2024-05"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":12}`, string(report))

	settings, err := c.GetSettings(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Bagé", settings["clinicName"])

	settings, err = c.UpdateSettings(ctx, "tok", map[string]any{"clinicName": "Nova"})
	require.NoError(t, err)
	assert.Equal(t, "Nova", settings["clinicName"])
}

func TestBackendClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	c := NewBackendClient(srv.URL, client, zap.NewNop())

	_, err := c.Me(context.Background(), "tok")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBackendTimeout)
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "me", be.Operation)
}

func TestBackendClient_Unavailable(t *testing.T) {
	c := NewBackendClient("http://127.0.0.1:1", &http.Client{Timeout: time.Second}, zap.NewNop())

	_, err := c.ListPatients(context.Background(), "tok")

	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
	assert.False(t, errors.Is(err, models.ErrBackendTimeout))
}

func TestBackendClient_MalformedBody(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/patients", http.StatusOK, `<html>oops</html>`)
	c := newTestBackendClient(fb)

	_, err := c.ListPatients(context.Background(), "tok")

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusOK, be.StatusCode)
	assert.Contains(t, err.Error(), "decode response")
}

func TestBackendError_Error(t *testing.T) {
	assert.Equal(t, "get_patient failed: Not Found (status 404)",
		(&BackendError{Operation: "get_patient", StatusCode: 404, Message: "Not Found"}).Error())
	assert.Equal(t, "me failed: boom",
		(&BackendError{Operation: "me", Err: errors.New("boom")}).Error())
}
