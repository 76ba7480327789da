package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinica-bage/app-rx/internal/middleware"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
	"github.com/clinica-bage/app-rx/internal/utils"
)

type savedCall struct {
	session *models.Session
	request models.PrescriptionRequest
	form    models.IdentityForm
}

type fakeWorkflow struct {
	outcome  *models.SaveOutcome
	err      error
	saves    []savedCall
	statuses []models.PrescriptionStatusUpdate
	ids      []string

	list    []models.PrescriptionRequest
	found   *models.PrescriptionRequest
	queries []url.Values
	deleted []string
}

func (f *fakeWorkflow) Save(ctx context.Context, session *models.Session, request models.PrescriptionRequest, form models.IdentityForm) (*models.SaveOutcome, error) {
	f.saves = append(f.saves, savedCall{session: session, request: request, form: form})
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeWorkflow) UpdateStatus(ctx context.Context, session *models.Session, id string, status models.PrescriptionStatus, reason string) (*models.SaveOutcome, error) {
	f.ids = append(f.ids, id)
	f.statuses = append(f.statuses, models.PrescriptionStatusUpdate{Status: status, RejectionReason: reason})
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeWorkflow) List(ctx context.Context, session *models.Session, params url.Values) ([]models.PrescriptionRequest, error) {
	f.queries = append(f.queries, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeWorkflow) Get(ctx context.Context, session *models.Session, id string) (*models.PrescriptionRequest, error) {
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}
	return f.found, nil
}

func (f *fakeWorkflow) Delete(ctx context.Context, session *models.Session, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func newPrescriptionRouter(workflow *fakeWorkflow, session *models.Session) *gin.Engine {
	h := NewPrescriptionHandlers(workflow)
	r := gin.New()
	authed := r.Group("/v1", withSession(session))
	authed.GET("/prescriptions", h.ListPrescriptions)
	authed.POST("/prescriptions", h.SavePrescription)
	authed.GET("/prescriptions/:id", h.GetPrescription)
	authed.DELETE("/prescriptions/:id", middleware.RequireAdmin(), h.DeletePrescription)
	authed.PATCH("/prescriptions/:id/status", middleware.RequireAdmin(), h.UpdatePrescriptionStatus)
	return r
}

const savePayload = `{
	"prescription": {"medicationName":"Losartana","dosage":"50mg","numberOfBoxes":2,"deliveryMethod":"clinic"},
	"patient": {"fullName":"Maria da Silva","phone":"53999999999"}
}`

func TestSavePrescription_Created(t *testing.T) {
	workflow := &fakeWorkflow{outcome: &models.SaveOutcome{
		Prescription: models.PrescriptionRequest{ID: "rx-1", MedicationName: "Losartana", Status: models.PrescriptionPending},
	}}
	r := newPrescriptionRouter(workflow, patientSession)

	w := performRequest(r, http.MethodPost, "/v1/prescriptions", savePayload)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.SaveOutcome
	decodeBody(t, w, &resp)
	assert.Equal(t, "rx-1", resp.Prescription.ID)

	require.Len(t, workflow.saves, 1)
	call := workflow.saves[0]
	assert.Same(t, patientSession, call.session)
	assert.Equal(t, 2, call.request.NumberOfBoxes)
	assert.Equal(t, "53999999999", call.form.Phone)
}

func TestSavePrescription_UpdatedWithWarning(t *testing.T) {
	workflow := &fakeWorkflow{outcome: &models.SaveOutcome{
		Prescription: models.PrescriptionRequest{ID: "rx-9"},
		Warnings:     []string{"Prescription saved, but the patient record update failed"},
	}}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodPost, "/v1/prescriptions",
		`{"prescription":{"id":"rx-9","medicationName":"Losartana","dosage":"50mg","numberOfBoxes":1,"deliveryMethod":"email"}}`)

	assert.Equal(t, http.StatusOK, w.Code, "secondary failures never fail the save")
	var resp models.SaveOutcome
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Warnings, 1)
}

func TestSavePrescription_Errors(t *testing.T) {
	invalid := utils.NewValidationResult()
	invalid.AddError("dosage", "Dosage is required")

	tests := []struct {
		name     string
		session  *models.Session
		body     string
		err      error
		wantCode int
	}{
		{"no session", nil, savePayload, nil, http.StatusUnauthorized},
		{"malformed body", patientSession, `{"prescription":`, nil, http.StatusBadRequest},
		{"validation", patientSession, savePayload, invalid, http.StatusBadRequest},
		{"backend timeout", patientSession, savePayload, &services.BackendError{Operation: "create_prescription", Err: models.ErrBackendTimeout}, http.StatusGatewayTimeout},
		{"backend failure", patientSession, savePayload, &services.BackendError{Operation: "create_prescription", StatusCode: 500, Message: "oops"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newPrescriptionRouter(&fakeWorkflow{err: tt.err}, tt.session)

			w := performRequest(r, http.MethodPost, "/v1/prescriptions", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestUpdatePrescriptionStatus(t *testing.T) {
	workflow := &fakeWorkflow{outcome: &models.SaveOutcome{
		Prescription: models.PrescriptionRequest{ID: "rx-1", Status: models.PrescriptionRejected, RejectionReason: "receita vencida"},
		Message:      "Paciente notificado por e-mail",
	}}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodPatch, "/v1/prescriptions/rx-1/status",
		`{"status":"rejected","rejectionReason":"receita vencida"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.SaveOutcome
	decodeBody(t, w, &resp)
	assert.Equal(t, "Paciente notificado por e-mail", resp.Message)
	assert.Equal(t, []string{"rx-1"}, workflow.ids)
	assert.Equal(t, models.PrescriptionRejected, workflow.statuses[0].Status)
	assert.Equal(t, "receita vencida", workflow.statuses[0].RejectionReason)
}

func TestUpdatePrescriptionStatus_AdminOnly(t *testing.T) {
	workflow := &fakeWorkflow{}
	r := newPrescriptionRouter(workflow, patientSession)

	w := performRequest(r, http.MethodPatch, "/v1/prescriptions/rx-1/status", `{"status":"approved"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, workflow.ids)
}

func TestUpdatePrescriptionStatus_MissingStatus(t *testing.T) {
	workflow := &fakeWorkflow{}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodPatch, "/v1/prescriptions/rx-1/status", `{"rejectionReason":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, workflow.ids)
}

func TestUpdatePrescriptionStatus_NotFound(t *testing.T) {
	workflow := &fakeWorkflow{err: &services.BackendError{Operation: "update_prescription_status", StatusCode: http.StatusNotFound, Message: "Pedido não encontrado"}}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodPatch, "/v1/prescriptions/rx-404/status", `{"status":"approved"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPrescriptions(t *testing.T) {
	workflow := &fakeWorkflow{list: []models.PrescriptionRequest{
		{ID: "rx-1", Status: models.PrescriptionPending},
		{ID: "rx-2", Status: models.PrescriptionApproved},
	}}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodGet, "/v1/prescriptions?status=pending&patientId=p-3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PrescriptionListResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "rx-2", resp.Prescriptions[1].ID)
	require.Len(t, workflow.queries, 1)
	assert.Equal(t, "pending", workflow.queries[0].Get("status"))
	assert.Equal(t, "p-3", workflow.queries[0].Get("patientId"))
}

func TestListPrescriptions_Empty(t *testing.T) {
	r := newPrescriptionRouter(&fakeWorkflow{}, patientSession)

	w := performRequest(r, http.MethodGet, "/v1/prescriptions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prescriptions":[],"count":0}`, w.Body.String())
}

func TestGetPrescription(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		workflow := &fakeWorkflow{found: &models.PrescriptionRequest{ID: "rx-1", MedicationName: "Losartana"}}
		r := newPrescriptionRouter(workflow, patientSession)

		w := performRequest(r, http.MethodGet, "/v1/prescriptions/rx-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.PrescriptionRequest
		decodeBody(t, w, &resp)
		assert.Equal(t, "Losartana", resp.MedicationName)
		assert.Equal(t, []string{"rx-1"}, workflow.ids)
	})

	t.Run("missing or not the caller's", func(t *testing.T) {
		r := newPrescriptionRouter(&fakeWorkflow{}, patientSession)

		w := performRequest(r, http.MethodGet, "/v1/prescriptions/rx-9", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeletePrescription(t *testing.T) {
	workflow := &fakeWorkflow{}
	r := newPrescriptionRouter(workflow, adminSession)

	w := performRequest(r, http.MethodDelete, "/v1/prescriptions/rx-1", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"rx-1"}, workflow.deleted)
}

func TestDeletePrescription_AdminOnly(t *testing.T) {
	workflow := &fakeWorkflow{}
	r := newPrescriptionRouter(workflow, patientSession)

	w := performRequest(r, http.MethodDelete, "/v1/prescriptions/rx-1", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, workflow.deleted)
}
