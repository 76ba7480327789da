package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// ImageResolver is the part of *services.ImageResolver the handlers use
type ImageResolver interface {
	Resolve(ref models.ImageReference) models.ImageResolution
	OnLoadError(current string, ref models.ImageReference, tried []string, onExhausted func()) (string, bool)
	ResolveAvailable(ctx context.Context, ref models.ImageReference) (string, error)
}

// ImageHandlers serves profile image URL resolution
type ImageHandlers struct {
	resolver ImageResolver
	logger   *zap.Logger
}

// NewImageHandlers creates a new ImageHandlers instance
func NewImageHandlers(resolver ImageResolver) *ImageHandlers {
	return &ImageHandlers{
		resolver: resolver,
		logger:   observability.Logger().Named("image_handlers"),
	}
}

// ResolveImage godoc
// @Summary Resolver URL da foto de perfil
// @Description Retorna a URL principal e as alternativas, em ordem. URLs absolutas são devolvidas sem alteração e sem alternativas
// @Tags images
// @Produce json
// @Param ref query string true "Referência da imagem"
// @Success 200 {object} models.ImageResolution
// @Router /images/resolve [get]
func (h *ImageHandlers) ResolveImage(c *gin.Context) {
	ref := models.ImageReference(c.Query("ref"))
	c.JSON(http.StatusOK, h.resolver.Resolve(ref))
}

// NextImage godoc
// @Summary Próxima URL após falha de carregamento
// @Description Recebe a URL que falhou e as já tentadas e devolve a próxima alternativa. Quando não há mais alternativas, exhausted é true e initials traz o texto do avatar
// @Tags images
// @Accept json
// @Produce json
// @Param request body models.ImageNextRequest true "Falha de carregamento"
// @Success 200 {object} models.ImageNextResponse
// @Failure 400 {object} ErrorResponse
// @Router /images/next [post]
func (h *ImageHandlers) NextImage(c *gin.Context) {
	var req models.ImageNextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var resp models.ImageNextResponse
	next, ok := h.resolver.OnLoadError(req.Current, req.Ref, req.Tried, func() {
		resp.Exhausted = true
		resp.Initials = utils.Initials(req.FullName)
	})
	if ok {
		resp.Next = next
	}
	c.JSON(http.StatusOK, resp)
}

// ImageAvailable godoc
// @Summary Verificar qual URL da foto carrega
// @Description Testa as candidatas no servidor, na ordem, e devolve a primeira disponível
// @Tags images
// @Produce json
// @Param ref query string true "Referência da imagem"
// @Param name query string false "Nome completo, para as iniciais do avatar"
// @Success 200 {object} models.ImageAvailabilityResponse
// @Failure 502 {object} ErrorResponse
// @Router /images/available [get]
func (h *ImageHandlers) ImageAvailable(c *gin.Context) {
	ref := models.ImageReference(c.Query("ref"))
	resp := models.ImageAvailabilityResponse{Ref: ref}

	url, err := h.resolver.ResolveAvailable(c.Request.Context(), ref)
	switch {
	case err == nil:
		resp.URL = url
		resp.Available = true
	case errors.Is(err, models.ErrImageUnavailable):
		resp.Initials = utils.Initials(c.Query("name"))
	default:
		respondError(c, "image probe", err)
		return
	}

	h.logger.Debug("image probe",
		zap.String("ref", string(ref)),
		zap.Bool("available", resp.Available))
	c.JSON(http.StatusOK, resp)
}
