package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/services"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// NormalizeIdentity godoc
// @Summary Normalizar registro de paciente
// @Description Converte um registro do backend, com nomes de campo em português ou inglês, para a identidade canônica
// @Tags normalize
// @Accept json
// @Produce json
// @Param record body object true "Registro bruto"
// @Success 200 {object} models.Identity
// @Failure 400 {object} ErrorResponse
// @Router /normalize/identity [post]
func NormalizeIdentity(c *gin.Context) {
	var record services.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		badRequest(c, err)
		return
	}

	observability.Logger().Debug("normalizing identity record",
		zap.Any("record", observability.MaskSensitiveData(record)))

	c.JSON(http.StatusOK, services.NormalizeIdentity(record))
}

// ComposeAddress godoc
// @Summary Montar endereço
// @Description Junta os campos do endereço em uma linha de exibição, omitindo os vazios
// @Tags address
// @Accept json
// @Produce json
// @Param address body models.AddressComposeRequest true "Endereço"
// @Success 200 {object} models.AddressComposeResponse
// @Failure 400 {object} ErrorResponse
// @Router /address/compose [post]
func ComposeAddress(c *gin.Context) {
	var req models.AddressComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AddressComposeResponse{Display: utils.ComposeAddress(req.Address)})
}

// DecomposeAddress godoc
// @Summary Separar endereço
// @Description Divide uma linha de endereço em campos. A divisão depende da ordem dos segmentos e pode perder informação
// @Tags address
// @Accept json
// @Produce json
// @Param address body models.AddressDecomposeRequest true "Linha de endereço"
// @Success 200 {object} models.AddressDecomposeResponse
// @Failure 400 {object} ErrorResponse
// @Router /address/decompose [post]
func DecomposeAddress(c *gin.Context) {
	var req models.AddressDecomposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	address := utils.DecomposeAddress(req.Display)
	c.JSON(http.StatusOK, models.AddressDecomposeResponse{
		Address: address,
		// lossy when composing the parts back does not give the input,
		// spacing aside
		Lossy: utils.ComposeAddress(address) != utils.NormalizeAddressLine(req.Display),
	})
}
