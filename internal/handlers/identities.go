package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// UpsertPlanner decides what an identity form would do to the directory
type UpsertPlanner interface {
	Decide(ctx context.Context, form models.IdentityForm, lookup services.IdentityLookup) (models.UpsertDecision, error)
}

// PatientDirectory is the patient side of the backend client
type PatientDirectory interface {
	ListPatients(ctx context.Context, token string) ([]models.Identity, error)
	GetPatient(ctx context.Context, token, id string) (*models.Identity, error)
	SearchPatients(ctx context.Context, token string, q models.PatientSearchQuery) ([]models.Identity, error)
	IdentityLookup(token string) services.IdentityLookup
}

// PatientSearchResponse lists the normalized patients found, each with
// its display form
type PatientSearchResponse struct {
	Patients []models.PatientView `json:"patients"`
	Count    int                  `json:"count"`
}

// IdentityHandlers serves the admin views over patient records
type IdentityHandlers struct {
	planner   UpsertPlanner
	directory PatientDirectory
}

// NewIdentityHandlers creates a new IdentityHandlers instance
func NewIdentityHandlers(planner UpsertPlanner, directory PatientDirectory) *IdentityHandlers {
	return &IdentityHandlers{planner: planner, directory: directory}
}

// PreviewUpsert godoc
// @Summary Simular atualização do cadastro do paciente
// @Description Mostra se os dados enviados criariam, atualizariam ou ignorariam um cadastro, sem gravar nada
// @Tags identities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form body models.IdentityForm true "Dados do paciente"
// @Success 200 {object} models.UpsertDecision
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /identities/preview [post]
func (h *IdentityHandlers) PreviewUpsert(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var form models.IdentityForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}
	if v := utils.ValidateIdentityForm(form); !v.IsValid {
		respondError(c, "identity preview", v)
		return
	}

	decision, err := h.planner.Decide(c.Request.Context(), form, h.directory.IdentityLookup(session.Token))
	if err != nil {
		respondError(c, "identity preview", err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// SearchPatients godoc
// @Summary Buscar pacientes
// @Description Busca por um único parâmetro, na ordem cpf, name, phone. Os registros voltam normalizados
// @Tags identities
// @Produce json
// @Security BearerAuth
// @Param cpf query string false "CPF"
// @Param name query string false "Nome"
// @Param phone query string false "Telefone"
// @Success 200 {object} PatientSearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /patients/search [get]
func (h *IdentityHandlers) SearchPatients(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var q models.PatientSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.IsEmpty() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: models.ErrEmptySearchQuery.Error()})
		return
	}

	patients, err := h.directory.SearchPatients(c.Request.Context(), session.Token, q)
	if err != nil {
		respondError(c, "patient search", err)
		return
	}
	c.JSON(http.StatusOK, PatientSearchResponse{Patients: utils.PatientViews(patients), Count: len(patients)})
}

// ListPatients godoc
// @Summary Listar pacientes
// @Description Todos os pacientes, normalizados e com campos formatados para exibição
// @Tags identities
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PatientSearchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /patients [get]
func (h *IdentityHandlers) ListPatients(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	patients, err := h.directory.ListPatients(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, "list patients", err)
		return
	}
	c.JSON(http.StatusOK, PatientSearchResponse{Patients: utils.PatientViews(patients), Count: len(patients)})
}

// GetPatient godoc
// @Summary Obter paciente
// @Tags identities
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do paciente"
// @Success 200 {object} models.PatientView
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /patients/{id} [get]
func (h *IdentityHandlers) GetPatient(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	patient, err := h.directory.GetPatient(c.Request.Context(), session.Token, c.Param("id"))
	if err != nil {
		respondError(c, "get patient", err)
		return
	}
	if patient == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Patient not found"})
		return
	}
	c.JSON(http.StatusOK, models.PatientView{Identity: *patient, Display: utils.DisplayIdentity(*patient)})
}
