package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/middleware"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// SessionManager is the part of the session service used by the handlers
type SessionManager interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, *models.Identity, error)
	UpdateProfile(ctx context.Context, session *models.Session, payload models.IdentityPayload) (*models.Identity, error)
	Teardown(ctx context.Context, token string) error
}

// SessionHandlers serves login, registration, the current user and logout
type SessionHandlers struct {
	sessions SessionManager
	logger   *zap.Logger
}

// NewSessionHandlers creates a new SessionHandlers instance
func NewSessionHandlers(sessions SessionManager) *SessionHandlers {
	return &SessionHandlers{
		sessions: sessions,
		logger:   observability.Logger().Named("session_handlers"),
	}
}

// Login godoc
// @Summary Abrir sessão
// @Description Autentica no backend da clínica e abre uma sessão para o token devolvido
// @Tags session
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credenciais"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Credenciais inválidas"
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /session [post]
func (h *SessionHandlers) Login(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	span.SetAttributes(attribute.String("user.email", utils.MaskEmail(req.Email)))

	session, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		respondError(c, "login", err)
		return
	}

	h.logger.Info("session opened",
		zap.String("user_id", session.User.ID),
		zap.String("role", string(session.User.Role)))

	c.JSON(http.StatusOK, models.SessionResponse{
		Token:     session.Token,
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	})
}

// Register godoc
// @Summary Criar conta de paciente
// @Description Cadastra a conta no backend. Quando o backend já autentica a nova conta, a sessão é aberta e devolvida
// @Tags session
// @Accept json
// @Produce json
// @Param account body models.RegisterRequest true "Dados da conta"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse "Conta já existe"
// @Failure 502 {object} ErrorResponse
// @Router /register [post]
func (h *SessionHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, user, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil && user == nil {
		respondError(c, "register", err)
		return
	}
	if err != nil {
		// the account exists; the client can still log in
		h.logger.Warn("account registered without session", zap.Error(err))
	}

	resp := models.RegisterResponse{User: *user}
	if session != nil {
		resp.Session = &models.SessionResponse{
			Token:     session.Token,
			User:      session.User,
			ExpiresAt: session.ExpiresAt,
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateProfile godoc
// @Summary Atualizar o próprio cadastro
// @Description Altera os dados do usuário da sessão. O papel (role) nunca é alterado por aqui
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.IdentityPayload true "Campos a alterar"
// @Success 200 {object} models.PatientView
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /session/profile [patch]
func (h *SessionHandlers) UpdateProfile(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var payload models.IdentityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.sessions.UpdateProfile(c.Request.Context(), session, payload)
	if err != nil {
		respondError(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, models.PatientView{Identity: *user, Display: utils.DisplayIdentity(*user)})
}

// Current godoc
// @Summary Sessão atual
// @Description Retorna o usuário da sessão aberta para o token enviado
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /session [get]
func (h *SessionHandlers) Current(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{
		User:      session.User,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout godoc
// @Summary Encerrar sessão
// @Tags session
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /session [delete]
func (h *SessionHandlers) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid authorization header format"})
		return
	}
	if err := h.sessions.Teardown(c.Request.Context(), token); err != nil {
		respondError(c, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
