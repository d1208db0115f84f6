package controller

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	ProgressService *service.ProgressService
}

func NewGroupController(progressService *service.ProgressService) *GroupController {
	return &GroupController{ProgressService: progressService}
}

// @Summary 学习小组列表
// @Tags 学习小组
// @Param category query string false "分类"
// @Success 200 {object} util.Response
// @Router /api/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	var category model.LessonCategory
	if raw := ctx.Query("category"); raw != "" {
		cat, ok := model.ParseLessonCategory(raw)
		if !ok {
			util.BadRequest(ctx, "unknown category: "+raw)
			return
		}
		category = cat
	}

	groups := c.ProgressService.Groups(category)
	items := make([]groupView, len(groups))
	for i, g := range groups {
		items[i] = newGroupView(g)
	}
	util.Success(ctx, items)
}

// @Summary 小组详情
// @Tags 学习小组
// @Param id path string true "小组ID"
// @Success 200 {object} util.Response
// @Router /api/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	g, err := c.ProgressService.Group(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, newGroupView(*g))
}

// @Summary 加入小组
// @Tags 学习小组
// @Param id path string true "小组ID"
// @Success 200 {object} util.Response
// @Router /api/groups/{id}/join [post]
func (c *GroupController) JoinGroup(ctx *gin.Context) {
	g, err := c.ProgressService.JoinGroup(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, newGroupView(*g))
}

type MessageRequest struct {
	Content string `json:"content"`
}

// @Summary 发送小组消息
// @Tags 学习小组
// @Param id path string true "小组ID"
// @Param request body MessageRequest true "消息内容"
// @Success 201 {object} util.Response
// @Router /api/groups/{id}/messages [post]
func (c *GroupController) SendMessage(ctx *gin.Context) {
	var req MessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.ProgressService.SendMessage(ctx.Request.Context(), ctx.Param("id"), req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

type groupView struct {
	model.CollaborationGroup
	IsFull bool `json:"isFull"`
}

func newGroupView(g model.CollaborationGroup) groupView {
	return groupView{CollaborationGroup: g, IsFull: g.IsFull()}
}
