package util

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("u-1", "ada@example.com", "0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "u-1", claims.Subject)

	_, err = ParseJWT(token, "another-secret-another-secret-xx")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("u-1", "ada@example.com", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[error]int{
		ErrLessonNotFound:       http.StatusNotFound,
		ErrTaskNotFound:         http.StatusNotFound,
		ErrNoActiveUser:         http.StatusPreconditionFailed,
		ErrGroupFull:            http.StatusConflict,
		ErrInvalidStep:          http.StatusBadRequest,
		ErrSessionUser:          http.StatusUnauthorized,
		errors.New("disk full"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleError(c, err)
		assert.Equal(t, want, w.Code, err.Error())
	}
}
