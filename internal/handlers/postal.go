package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinica-bage/app-rx/internal/models"
)

// PostalLookup resolves postal codes; *services.PostalLookupService satisfies it
type PostalLookup interface {
	Lookup(ctx context.Context, postalCode string) models.PostalLookupResult
}

// PostalHandlers serves postal code lookups
type PostalHandlers struct {
	lookup PostalLookup
}

// NewPostalHandlers creates a new PostalHandlers instance
func NewPostalHandlers(lookup PostalLookup) *PostalHandlers {
	return &PostalHandlers{lookup: lookup}
}

// GetPostalCode godoc
// @Summary Consultar CEP
// @Description Consulta o CEP no ViaCEP. Só CEPs com 8 dígitos geram consulta; CEP inexistente e falhas de rede são informados no campo status, nunca como erro
// @Tags address
// @Produce json
// @Param cep path string true "CEP, com ou sem máscara"
// @Success 200 {object} models.PostalLookupResult
// @Router /postal-codes/{cep} [get]
func (h *PostalHandlers) GetPostalCode(c *gin.Context) {
	c.JSON(http.StatusOK, h.lookup.Lookup(c.Request.Context(), c.Param("cep")))
}
