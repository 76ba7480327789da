package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
)

// ClinicBackend is the administrative side of the backend client
type ClinicBackend interface {
	ListNotes(ctx context.Context, token, prescriptionID string) ([]models.Note, error)
	CreateNote(ctx context.Context, token string, note models.Note) (*models.Note, error)
	GetReport(ctx context.Context, token, name string, params url.Values) (json.RawMessage, error)
	GetSettings(ctx context.Context, token string) (map[string]any, error)
	UpdateSettings(ctx context.Context, token string, settings map[string]any) (map[string]any, error)
}

// NoteListResponse lists administrator notes
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Count int           `json:"count"`
}

// ClinicHandlers serves notes, reports and clinic settings
type ClinicHandlers struct {
	backend ClinicBackend
	logger  *zap.Logger
}

// NewClinicHandlers creates a new ClinicHandlers instance
func NewClinicHandlers(backend ClinicBackend) *ClinicHandlers {
	return &ClinicHandlers{
		backend: backend,
		logger:  observability.Logger().Named("clinic_handlers"),
	}
}

// ListNotes godoc
// @Summary Listar anotações
// @Description Anotações de um pedido (rota com id) ou todas as anotações
// @Tags clinic
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Success 200 {object} NoteListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions/{id}/notes [get]
func (h *ClinicHandlers) ListNotes(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	notes, err := h.backend.ListNotes(c.Request.Context(), session.Token, c.Param("id"))
	if err != nil {
		respondError(c, "list notes", err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	c.JSON(http.StatusOK, NoteListResponse{Notes: notes, Count: len(notes)})
}

// CreateNote godoc
// @Summary Criar anotação
// @Tags clinic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param note body models.NoteRequest true "Anotação"
// @Success 201 {object} models.Note
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions/{id}/notes [post]
func (h *ClinicHandlers) CreateNote(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req models.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note content is required"})
		return
	}

	note, err := h.backend.CreateNote(c.Request.Context(), session.Token, models.Note{
		PrescriptionID: c.Param("id"),
		PatientID:      req.PatientID,
		Content:        content,
	})
	if err != nil {
		respondError(c, "create note", err)
		return
	}
	h.logger.Info("note created",
		zap.String("prescription_id", c.Param("id")),
		zap.String("by", session.User.ID))
	c.JSON(http.StatusCreated, note)
}

// GetReport godoc
// @Summary Obter relatório
// @Description Relatório nomeado do backend, repassado sem alteração. Parâmetros de consulta são encaminhados
// @Tags clinic
// @Produce json
// @Security BearerAuth
// @Param name path string true "Nome do relatório"
// @Success 200 {object} object
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /reports/{name} [get]
func (h *ClinicHandlers) GetReport(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	report, err := h.backend.GetReport(c.Request.Context(), session.Token, c.Param("name"), c.Request.URL.Query())
	if err != nil {
		respondError(c, "get report", err)
		return
	}
	if report == nil {
		report = json.RawMessage("null")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", report)
}

// GetSettings godoc
// @Summary Obter configurações da clínica
// @Tags clinic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /settings [get]
func (h *ClinicHandlers) GetSettings(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	settings, err := h.backend.GetSettings(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, "get settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Atualizar configurações da clínica
// @Description Substitui o documento de configurações
// @Tags clinic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param settings body object true "Configurações"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 502 {object} ErrorResponse
// @Router /settings [put]
func (h *ClinicHandlers) UpdateSettings(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var settings map[string]any
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}
	if settings == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Settings must be a JSON object"})
		return
	}

	updated, err := h.backend.UpdateSettings(c.Request.Context(), session.Token, settings)
	if err != nil {
		respondError(c, "update settings", err)
		return
	}
	h.logger.Info("clinic settings updated", zap.String("by", session.User.ID), zap.Int("keys", len(settings)))
	c.JSON(http.StatusOK, updated)
}
