package app

import (
	"bytes"
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/repository"
	"edusphere_backend/internal/service"
	"edusphere_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.RateLimit.MaxRequests = 1000
	cfg.RateLimit.WindowMinutes = 1
	cfg.Progress.EnforceGroupCapacity = true
	return cfg
}

func call(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var resp util.Response
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestAppServesStateAndHealth(t *testing.T) {
	a := New(testConfig(), repository.NewMemoryStore())
	defer a.Close()

	w, _ := call(t, a, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := call(t, a, http.MethodGet, "/api/state", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := resp.Data.(map[string]interface{})
	assert.Equal(t, false, state["onboardingComplete"])
	assert.Len(t, state["lessons"], 6)

	w, _ = call(t, a, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppSessionFlow(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.Enabled = true
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireTime = time.Hour

	a := New(cfg, repository.NewMemoryStore())
	defer a.Close()

	lessonID := a.services.progress.Lessons(service.LessonFilter{})[0].ID

	w, _ := call(t, a, http.MethodPost, "/api/lessons/"+lessonID+"/complete", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := call(t, a, http.MethodPost, "/api/onboarding", "", gin.H{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := resp.Data.(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	w, _ = call(t, a, http.MethodPost, "/api/lessons/"+lessonID+"/complete", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 重新引导后旧令牌失效
	w, _ = call(t, a, http.MethodPost, "/api/onboarding", "", gin.H{"name": "Grace", "email": "grace@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = call(t, a, http.MethodDelete, "/api/account", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppConfigCallbackUpdatesPolicy(t *testing.T) {
	a := New(testConfig(), repository.NewMemoryStore())
	defer a.Close()
	require.True(t, a.services.progress.Policy().EnforceGroupCapacity)

	next := testConfig()
	next.Progress.EnforceGroupCapacity = false
	next.Progress.DedupeLessonCompletion = true
	a.applyConfig(next)

	p := a.services.progress.Policy()
	assert.False(t, p.EnforceGroupCapacity)
	assert.True(t, p.DedupeLessonCompletion)
}

func TestAppSeed(t *testing.T) {
	store := repository.NewMemoryStore()
	a := New(testConfig(), store)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, a.Seed(ctx))
	assert.Equal(t, 3, store.Len())

	_, ok := a.State.LoadGroups(ctx)
	assert.True(t, ok)
	_, ok = a.State.LoadUser(ctx)
	assert.False(t, ok)
}

func TestAppPersistsAcrossRestart(t *testing.T) {
	store := repository.NewMemoryStore()
	a := New(testConfig(), store)

	w, _ := call(t, a, http.MethodPost, "/api/onboarding", "", gin.H{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	group := a.services.progress.Groups(model.CategoryLanguage)[0]
	w, _ = call(t, a, http.MethodPost, "/api/groups/"+group.ID+"/join", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	a.Close()

	restarted := New(testConfig(), store)
	defer restarted.Close()

	require.NotNil(t, restarted.services.progress.CurrentUser())
	g, err := restarted.services.progress.Group(group.ID)
	require.NoError(t, err)
	assert.Len(t, g.Members, len(group.Members)+1)
}
