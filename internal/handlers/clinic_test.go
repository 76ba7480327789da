package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinica-bage/app-rx/internal/middleware"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
)

type fakeClinicBackend struct {
	notes    []models.Note
	report   json.RawMessage
	settings map[string]any
	err      error

	tokens        []string
	noteFilter    []string
	created       []models.Note
	reportName    string
	reportParams  url.Values
	savedSettings map[string]any
}

func (f *fakeClinicBackend) ListNotes(ctx context.Context, token, prescriptionID string) ([]models.Note, error) {
	f.tokens = append(f.tokens, token)
	f.noteFilter = append(f.noteFilter, prescriptionID)
	return f.notes, f.err
}

func (f *fakeClinicBackend) CreateNote(ctx context.Context, token string, note models.Note) (*models.Note, error) {
	f.tokens = append(f.tokens, token)
	f.created = append(f.created, note)
	if f.err != nil {
		return nil, f.err
	}
	note.ID = "note-1"
	return &note, nil
}

func (f *fakeClinicBackend) GetReport(ctx context.Context, token, name string, params url.Values) (json.RawMessage, error) {
	f.reportName = name
	f.reportParams = params
	return f.report, f.err
}

func (f *fakeClinicBackend) GetSettings(ctx context.Context, token string) (map[string]any, error) {
	return f.settings, f.err
}

func (f *fakeClinicBackend) UpdateSettings(ctx context.Context, token string, settings map[string]any) (map[string]any, error) {
	f.savedSettings = settings
	if f.err != nil {
		return nil, f.err
	}
	return settings, nil
}

func newClinicRouter(backend *fakeClinicBackend, session *models.Session) *gin.Engine {
	h := NewClinicHandlers(backend)
	r := gin.New()
	admin := r.Group("/v1", withSession(session), middleware.RequireAdmin())
	admin.GET("/prescriptions/:id/notes", h.ListNotes)
	admin.POST("/prescriptions/:id/notes", h.CreateNote)
	admin.GET("/reports/:name", h.GetReport)
	admin.GET("/settings", h.GetSettings)
	admin.PUT("/settings", h.UpdateSettings)
	return r
}

func TestListNotes(t *testing.T) {
	backend := &fakeClinicBackend{notes: []models.Note{{ID: "n-1", Content: "ligar amanhã"}}}
	r := newClinicRouter(backend, adminSession)

	w := performRequest(r, http.MethodGet, "/v1/prescriptions/rx-1/notes", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp NoteListResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "ligar amanhã", resp.Notes[0].Content)
	assert.Equal(t, []string{"rx-1"}, backend.noteFilter)
	assert.Equal(t, []string{"tok-admin"}, backend.tokens)
}

func TestClinicRoutes_AdminOnly(t *testing.T) {
	backend := &fakeClinicBackend{}
	r := newClinicRouter(backend, patientSession)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/v1/prescriptions/rx-1/notes", ""},
		{http.MethodPost, "/v1/prescriptions/rx-1/notes", `{"content":"x"}`},
		{http.MethodGet, "/v1/reports/monthly", ""},
		{http.MethodGet, "/v1/settings", ""},
		{http.MethodPut, "/v1/settings", `{"x":1}`},
	} {
		w := performRequest(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tc.method+" "+tc.path)
	}
	assert.Empty(t, backend.tokens)
	assert.Nil(t, backend.savedSettings)
}

func TestCreateNote(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		backend := &fakeClinicBackend{}
		r := newClinicRouter(backend, adminSession)

		w := performRequest(r, http.MethodPost, "/v1/prescriptions/rx-1/notes", `{"content":"  paciente avisado  ","patientId":"p-1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp models.Note
		decodeBody(t, w, &resp)
		assert.Equal(t, "note-1", resp.ID)
		require.Len(t, backend.created, 1)
		assert.Equal(t, models.Note{PrescriptionID: "rx-1", PatientID: "p-1", Content: "paciente avisado"}, backend.created[0])
	})

	t.Run("blank content", func(t *testing.T) {
		backend := &fakeClinicBackend{}
		r := newClinicRouter(backend, adminSession)

		w := performRequest(r, http.MethodPost, "/v1/prescriptions/rx-1/notes", `{"content":"   "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, backend.created)
	})
}

func TestGetReport(t *testing.T) {
	backend := &fakeClinicBackend{report: json.RawMessage(`{"total":12,"approved":9}`)}
	r := newClinicRouter(backend, adminSession)

	w := performRequest(r, http.MethodGet, "/v1/reports/monthly?month=2026-09", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":12,"approved":9}`, w.Body.String())
	assert.Equal(t, "monthly", backend.reportName)
	assert.Equal(t, "2026-09", backend.reportParams.Get("month"))
}

func TestGetReport_Unknown(t *testing.T) {
	backend := &fakeClinicBackend{err: &services.BackendError{Operation: "get_report", StatusCode: http.StatusNotFound, Message: "not found"}}
	r := newClinicRouter(backend, adminSession)

	w := performRequest(r, http.MethodGet, "/v1/reports/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettings(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		backend := &fakeClinicBackend{settings: map[string]any{"clinicName": "Clínica Bagé"}}
		r := newClinicRouter(backend, adminSession)

		w := performRequest(r, http.MethodGet, "/v1/settings", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"clinicName":"Clínica Bagé"}`, w.Body.String())
	})

	t.Run("update", func(t *testing.T) {
		backend := &fakeClinicBackend{}
		r := newClinicRouter(backend, adminSession)

		w := performRequest(r, http.MethodPut, "/v1/settings", `{"clinicName":"Nova","deliveryEnabled":true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Nova", backend.savedSettings["clinicName"])
		assert.Equal(t, true, backend.savedSettings["deliveryEnabled"])
	})

	t.Run("update with null", func(t *testing.T) {
		backend := &fakeClinicBackend{}
		r := newClinicRouter(backend, adminSession)

		w := performRequest(r, http.MethodPut, "/v1/settings", `null`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, backend.savedSettings)
	})
}
