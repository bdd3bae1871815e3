package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
)

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

type SystemHandler struct {
	checks  map[string]HealthCheck
	metrics http.Handler
}

func NewSystemHandler(checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{checks: checks, metrics: promhttp.Handler()}
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	status := gin.H{}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logutil.GetLogger(ctx).Error("health check failed", zap.String("check", name), zap.Error(err))
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, errcode.ErrInternal, "service unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok", "checks": status})
}

func (h *SystemHandler) Metrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
