package controller

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	ProgressService *service.ProgressService
}

func NewFeedbackController(progressService *service.ProgressService) *FeedbackController {
	return &FeedbackController{ProgressService: progressService}
}

type FeedbackRequest struct {
	Input string `json:"input"`
	Type  string `json:"type"`
}

// @Summary 生成AI反馈
// @Description type 为空时按发音反馈处理
// @Tags 反馈
// @Accept json
// @Param id path string true "课程ID"
// @Param request body FeedbackRequest true "用户输入"
// @Success 201 {object} util.Response
// @Router /api/lessons/{id}/feedback [post]
func (c *FeedbackController) GenerateFeedback(ctx *gin.Context) {
	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedbackType := model.FeedbackPronunciation
	if req.Type != "" {
		t, ok := model.ParseFeedbackType(req.Type)
		if !ok {
			util.BadRequest(ctx, "unknown feedback type: "+req.Type)
			return
		}
		feedbackType = t
	}

	fb := c.ProgressService.GenerateFeedback(ctx.Request.Context(), ctx.Param("id"), req.Input, feedbackType)
	util.Created(ctx, fb)
}

// @Summary 反馈历史
// @Description 按时间倒序
// @Tags 反馈
// @Success 200 {object} util.Response
// @Router /api/feedback [get]
func (c *FeedbackController) ListFeedback(ctx *gin.Context) {
	util.Success(ctx, c.ProgressService.FeedbackHistory())
}
