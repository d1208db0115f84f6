package controller

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	ProgressService *service.ProgressService
}

func NewLessonController(progressService *service.ProgressService) *LessonController {
	return &LessonController{ProgressService: progressService}
}

// @Summary 课程列表
// @Description 按分类和关键字筛选课程
// @Tags 课程
// @Produce json
// @Param category query string false "分类"
// @Param q query string false "关键字"
// @Success 200 {object} util.Response
// @Router /api/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	filter := service.LessonFilter{Query: ctx.Query("q")}
	if raw := ctx.Query("category"); raw != "" {
		category, ok := model.ParseLessonCategory(raw)
		if !ok {
			util.BadRequest(ctx, "unknown category: "+raw)
			return
		}
		filter.Category = category
	}

	util.Success(ctx, c.ProgressService.Lessons(filter))
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lesson, err := c.ProgressService.Lesson(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

type ProgressRequest struct {
	Progress *float64 `json:"progress" binding:"required"`
}

// @Summary 更新课程进度
// @Tags 课程
// @Accept json
// @Param id path string true "课程ID"
// @Param request body ProgressRequest true "进度"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/progress [put]
func (c *LessonController) UpdateProgress(ctx *gin.Context) {
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ProgressService.UpdateLessonProgress(ctx.Request.Context(), ctx.Param("id"), *req.Progress)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

type StepRequest struct {
	Step *int `json:"step" binding:"required"`
}

// @Summary 记录学习到的内容块
// @Tags 课程
// @Accept json
// @Param id path string true "课程ID"
// @Param request body StepRequest true "内容块序号，从0开始"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/step [put]
func (c *LessonController) RecordStep(ctx *gin.Context) {
	var req StepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ProgressService.RecordContentStep(ctx.Request.Context(), ctx.Param("id"), *req.Step)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

type QuizRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}

// @Summary 提交测验
// @Description 正确率不低于70%时自动完成课程
// @Tags 课程
// @Accept json
// @Param id path string true "课程ID"
// @Param request body QuizRequest true "题目ID到选项序号"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/quiz [post]
func (c *LessonController) SubmitQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitQuiz(ctx.Request.Context(), ctx.Param("id"), req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 完成课程
// @Tags 课程
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) CompleteLesson(ctx *gin.Context) {
	result, err := c.ProgressService.CompleteLesson(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
