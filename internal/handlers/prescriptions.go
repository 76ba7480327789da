package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// PrescriptionWorkflow is satisfied by *services.PrescriptionService
type PrescriptionWorkflow interface {
	Save(ctx context.Context, session *models.Session, request models.PrescriptionRequest, form models.IdentityForm) (*models.SaveOutcome, error)
	UpdateStatus(ctx context.Context, session *models.Session, id string, status models.PrescriptionStatus, reason string) (*models.SaveOutcome, error)
	List(ctx context.Context, session *models.Session, params url.Values) ([]models.PrescriptionRequest, error)
	Get(ctx context.Context, session *models.Session, id string) (*models.PrescriptionRequest, error)
	Delete(ctx context.Context, session *models.Session, id string) error
}

// PrescriptionListResponse lists renewal requests
type PrescriptionListResponse struct {
	Prescriptions []models.PrescriptionRequest `json:"prescriptions"`
	Count         int                          `json:"count"`
}

// PrescriptionHandlers serves renewal requests
type PrescriptionHandlers struct {
	workflow PrescriptionWorkflow
	logger   *zap.Logger
}

// NewPrescriptionHandlers creates a new PrescriptionHandlers instance
func NewPrescriptionHandlers(workflow PrescriptionWorkflow) *PrescriptionHandlers {
	return &PrescriptionHandlers{
		workflow: workflow,
		logger:   observability.Logger().Named("prescription_handlers"),
	}
}

// SavePrescription godoc
// @Summary Salvar pedido de renovação de receita
// @Description Cria (sem id) ou atualiza (com id) o pedido. Pacientes só enviam pedidos pendentes. Para administradores, o cadastro do paciente é criado ou atualizado em seguida; uma falha nesse passo volta como aviso e não desfaz o pedido
// @Tags prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SavePrescriptionRequest true "Pedido e dados do paciente"
// @Success 200 {object} models.SaveOutcome "Pedido atualizado"
// @Success 201 {object} models.SaveOutcome "Pedido criado"
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /prescriptions [post]
func (h *PrescriptionHandlers) SavePrescription(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "SavePrescription")
	defer span.End()

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req models.SavePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	creating := req.Prescription.ID == ""
	span.SetAttributes(
		attribute.Bool("prescription.create", creating),
		attribute.String("user.role", string(session.User.Role)),
	)

	outcome, err := h.workflow.Save(ctx, session, req.Prescription, req.Patient)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		respondError(c, "save prescription", err)
		return
	}

	if len(outcome.Warnings) > 0 {
		h.logger.Warn("prescription saved with warnings",
			zap.String("prescription_id", outcome.Prescription.ID),
			zap.Strings("warnings", outcome.Warnings))
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}

// UpdatePrescriptionStatus godoc
// @Summary Alterar status do pedido
// @Description Move o pedido no fluxo de aprovação. Rejeição exige motivo. A mensagem do backend, quando houver, é repassada
// @Tags prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param update body models.PrescriptionStatusUpdate true "Novo status"
// @Success 200 {object} models.SaveOutcome
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions/{id}/status [patch]
func (h *PrescriptionHandlers) UpdatePrescriptionStatus(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req models.PrescriptionStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	outcome, err := h.workflow.UpdateStatus(c.Request.Context(), session, c.Param("id"), req.Status, req.RejectionReason)
	if err != nil {
		respondError(c, "update prescription status", err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ListPrescriptions godoc
// @Summary Listar pedidos
// @Description Filtros são repassados ao backend. Pacientes veem apenas os próprios pedidos
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param patientId query string false "ID do paciente (apenas administradores)"
// @Success 200 {object} PrescriptionListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions [get]
func (h *PrescriptionHandlers) ListPrescriptions(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	list, err := h.workflow.List(c.Request.Context(), session, c.Request.URL.Query())
	if err != nil {
		respondError(c, "list prescriptions", err)
		return
	}
	if list == nil {
		list = []models.PrescriptionRequest{}
	}
	c.JSON(http.StatusOK, PrescriptionListResponse{Prescriptions: list, Count: len(list)})
}

// GetPrescription godoc
// @Summary Obter pedido
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Success 200 {object} models.PrescriptionRequest
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions/{id} [get]
func (h *PrescriptionHandlers) GetPrescription(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	p, err := h.workflow.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "get prescription", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Prescription not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePrescription godoc
// @Summary Excluir pedido
// @Tags prescriptions
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Acesso negado"
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /prescriptions/{id} [delete]
func (h *PrescriptionHandlers) DeletePrescription(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.workflow.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, "delete prescription", err)
		return
	}
	c.Status(http.StatusNoContent)
}
