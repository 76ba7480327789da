package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Pinger is satisfied by the traced Redis client
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthCheck godoc
// @Summary Verificar saúde da API
// @Description Liveness da API e estado da conexão com o Redis, que guarda as sessões
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
		defer span.End()

		health := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Services:  map[string]string{"api": "healthy"},
		}

		_, redisSpan := utils.TraceExternalService(ctx, "redis", "ping")
		switch {
		case store == nil:
			health.Status = "unhealthy"
			health.Services["redis"] = "not configured"
		default:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err := store.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				utils.RecordErrorInSpan(redisSpan, err, nil)
				observability.Logger().Error("redis health check failed", zap.Error(err))
				health.Status = "unhealthy"
				health.Services["redis"] = "unhealthy"
			} else {
				health.Services["redis"] = "healthy"
			}
		}
		redisSpan.End()

		if health.Status != "healthy" {
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		c.JSON(http.StatusOK, health)
	}
}
