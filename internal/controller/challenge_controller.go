package controller

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ProgressService *service.ProgressService
}

func NewChallengeController(progressService *service.ProgressService) *ChallengeController {
	return &ChallengeController{ProgressService: progressService}
}

// @Summary 挑战列表
// @Tags 挑战
// @Param type query string false "Daily / Weekly / Special"
// @Success 200 {object} util.Response
// @Router /api/challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	var typ model.ChallengeType
	if raw := ctx.Query("type"); raw != "" {
		t, ok := model.ParseChallengeType(raw)
		if !ok {
			util.BadRequest(ctx, "unknown challenge type: "+raw)
			return
		}
		typ = t
	}

	challenges := c.ProgressService.Challenges(typ)
	items := make([]challengeView, len(challenges))
	for i, ch := range challenges {
		items[i] = newChallengeView(ch)
	}
	util.Success(ctx, items)
}

// @Summary 挑战详情
// @Tags 挑战
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	ch, err := c.ProgressService.Challenge(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, newChallengeView(*ch))
}

// @Summary 完成挑战
// @Tags 挑战
// @Param id path string true "挑战ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id}/complete [post]
func (c *ChallengeController) CompleteChallenge(ctx *gin.Context) {
	result, err := c.ProgressService.CompleteChallenge(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"challenge":     newChallengeView(result.Challenge),
		"user":          result.User,
		"pointsAwarded": result.PointsAwarded,
	})
}

// @Summary 完成挑战任务
// @Description 最后一个任务完成时自动完成挑战
// @Tags 挑战
// @Param id path string true "挑战ID"
// @Param taskId path string true "任务ID"
// @Success 200 {object} util.Response
// @Router /api/challenges/{id}/tasks/{taskId}/complete [post]
func (c *ChallengeController) CompleteTask(ctx *gin.Context) {
	result, err := c.ProgressService.CompleteTask(ctx.Request.Context(), ctx.Param("id"), ctx.Param("taskId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"challenge":        newChallengeView(result.Challenge),
		"alreadyCompleted": result.AlreadyCompleted,
		"cascaded":         result.Cascaded,
		"user":             result.User,
	})
}

// challengeView 附带推导出的进度
type challengeView struct {
	model.Challenge
	Progress float64 `json:"progress"`
}

func newChallengeView(c model.Challenge) challengeView {
	return challengeView{Challenge: c, Progress: c.Progress()}
}
