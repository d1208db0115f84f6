package controller

import (
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountController struct {
	ProgressService *service.ProgressService
	JWT             config.JWTConfig
}

func NewAccountController(progressService *service.ProgressService, jwtCfg config.JWTConfig) *AccountController {
	return &AccountController{ProgressService: progressService, JWT: jwtCfg}
}

// @Summary 获取完整状态
// @Tags 账户
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/state [get]
func (c *AccountController) GetState(ctx *gin.Context) {
	util.Success(ctx, c.ProgressService.Snapshot())
}

type OnboardingRequest struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Email     string   `json:"email" binding:"required,email"`
	Interests []string `json:"interests"`
}

// @Summary 完成引导
// @Description 创建新用户并替换已有用户；启用会话令牌时一并返回 token
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body OnboardingRequest true "用户信息"
// @Success 201 {object} util.Response
// @Router /api/onboarding [post]
func (c *AccountController) CompleteOnboarding(ctx *gin.Context) {
	var req OnboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := c.ProgressService.CompleteOnboarding(ctx.Request.Context(), req.Name, req.Email, req.Interests)

	resp := gin.H{"user": user}
	if c.JWT.Enabled {
		token, err := util.GenerateJWT(user.ID, user.Email, c.JWT.Secret, c.JWT.ExpireTime)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		resp["token"] = token
	}

	logger.Log.Info("User onboarded", zap.String("userID", user.ID))
	util.Created(ctx, resp)
}

// @Summary 个人统计
// @Tags 账户
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *AccountController) GetProfile(ctx *gin.Context) {
	stats, err := c.ProgressService.Profile()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"user":  c.ProgressService.CurrentUser(),
		"stats": stats,
	})
}

// @Summary 删除账户
// @Description 清空所有持久化数据并恢复默认内容
// @Tags 账户
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/account [delete]
func (c *AccountController) DeleteAccount(ctx *gin.Context) {
	c.ProgressService.DeleteAccount(ctx.Request.Context())
	util.Success(ctx, gin.H{"deleted": true})
}
