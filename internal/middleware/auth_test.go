package middleware

import (
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type activeUser struct{ user *model.User }

func (a *activeUser) CurrentUser() *model.User { return a.user }

func newRouter(users ActiveUserProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", AuthMiddleware(testSecret), SessionMiddleware(users), func(c *gin.Context) {
		util.Success(c, gin.H{"user": util.GetUserFromContext(c).UserID})
	})
	return r
}

func request(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	users := &activeUser{user: &model.User{ID: "u1"}}
	r := newRouter(users)

	assert.Equal(t, http.StatusUnauthorized, request(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(r, "garbage").Code)

	wrongKey, err := util.GenerateJWT("u1", "a@b.c", "another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, wrongKey).Code)

	expired, err := util.GenerateJWT("u1", "a@b.c", testSecret, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, expired).Code)

	valid, err := util.GenerateJWT("u1", "a@b.c", testSecret, time.Hour)
	require.NoError(t, err)
	w := request(r, valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"u1"`)
}

func TestSessionMiddlewareRejectsStaleUser(t *testing.T) {
	users := &activeUser{user: &model.User{ID: "u2"}}
	r := newRouter(users)

	token, err := util.GenerateJWT("u1", "a@b.c", testSecret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, token).Code)

	users.user = nil
	assert.Equal(t, http.StatusUnauthorized, request(r, token).Code)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	users := &activeUser{user: &model.User{ID: "u1"}}
	r := newRouter(users)

	token, err := util.GenerateJWT("u1", "a@b.c", testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
