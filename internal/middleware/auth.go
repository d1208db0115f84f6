package middleware

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

type ActiveUserProvider interface {
	CurrentUser() *model.User
}

// SessionMiddleware 令牌中的用户必须是当前活跃用户；账户删除或重新引导后旧令牌失效
func SessionMiddleware(users ActiveUserProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		active := users.CurrentUser()
		if active == nil || active.ID != claims.UserID {
			util.HandleError(c, util.ErrSessionUser)
			c.Abort()
			return
		}

		c.Next()
	}
}
