package app

import (
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/middleware"
	"edusphere_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// 1. 只读路由
	a.registerPublicRoutes(api, c)

	// 2. 修改进度的路由，启用会话令牌时需要当前用户的 token
	mutating := api.Group("")
	if cfg.JWT.Enabled {
		mutating.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.SessionMiddleware(a.services.progress))
	}
	a.registerProgressRoutes(mutating, c)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	api.GET("/state", c.account.GetState)
	api.POST("/onboarding", c.account.CompleteOnboarding)
	api.GET("/profile", c.account.GetProfile)

	api.GET("/lessons", c.lesson.ListLessons)
	api.GET("/lessons/:id", c.lesson.GetLesson)
	api.GET("/feedback", c.feedback.ListFeedback)

	api.GET("/challenges", c.challenge.ListChallenges)
	api.GET("/challenges/:id", c.challenge.GetChallenge)

	api.GET("/groups", c.group.ListGroups)
	api.GET("/groups/:id", c.group.GetGroup)
}

func (a *App) registerProgressRoutes(api *gin.RouterGroup, c *controllers) {
	api.DELETE("/account", c.account.DeleteAccount)

	lessons := api.Group("/lessons/:id")
	{
		lessons.PUT("/progress", c.lesson.UpdateProgress)
		lessons.PUT("/step", c.lesson.RecordStep)
		lessons.POST("/quiz", c.lesson.SubmitQuiz)
		lessons.POST("/complete", c.lesson.CompleteLesson)
		lessons.POST("/feedback", c.feedback.GenerateFeedback)
	}

	challenges := api.Group("/challenges/:id")
	{
		challenges.POST("/complete", c.challenge.CompleteChallenge)
		challenges.POST("/tasks/:taskId/complete", c.challenge.CompleteTask)
	}

	groups := api.Group("/groups/:id")
	{
		groups.POST("/join", c.group.JoinGroup)
		groups.POST("/messages", c.group.SendMessage)
	}
}
