package controller

import (
	"context"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StorePinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store     StorePinger
	StoreName string
}

func NewHealthController(store StorePinger, storeName string) *HealthController {
	return &HealthController{Store: store, StoreName: storeName}
}

// @Summary 健康检查
// @Description 检查服务和持久化后端状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		logger.Log.Warn("Store health check failed", zap.String("store", c.StoreName), zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store":  "up",
			"driver": c.StoreName,
		},
	})
}
