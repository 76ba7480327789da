package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantCode   int
		wantStatus string
		wantRedis  string
	}{
		{"redis up", fakePinger{}, http.StatusOK, "healthy", "healthy"},
		{"redis down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unhealthy", "unhealthy"},
		{"no redis", nil, http.StatusServiceUnavailable, "unhealthy", "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/v1/health", HealthCheck(tt.store))

			w := performRequest(r, http.MethodGet, "/v1/health", "")

			assert.Equal(t, tt.wantCode, w.Code)
			var resp HealthResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantRedis, resp.Services["redis"])
			assert.Equal(t, "healthy", resp.Services["api"])
		})
	}
}
