package repository

import (
	"context"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract 所有后端共用的行为检查
func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, util.KeyUser)
	assert.ErrorIs(t, err, util.ErrKeyNotFound)
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, store.Put(ctx, util.KeyUser, []byte(`{"name":"a"}`)))
	require.NoError(t, store.Put(ctx, util.KeyUser, []byte(`{"name":"b"}`)))
	got, err := store.Get(ctx, util.KeyUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(got))

	require.NoError(t, store.Put(ctx, util.KeyLessons, []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, util.StateKeys...))
	for _, key := range util.StateKeys {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, util.ErrKeyNotFound, key)
	}

	// 删除不存在的键不报错
	assert.NoError(t, store.Delete(ctx, util.KeyFeedback))
	assert.NoError(t, store.Ping(ctx))
	assert.NotEmpty(t, store.Name())
}

func TestMemoryStoreContract(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte(`"abc"`)
	require.NoError(t, s.Put(ctx, "k", value))
	value[1] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(got))
}

func sampleUser() *model.User {
	joined := time.Date(2025, 11, 2, 8, 15, 0, 0, time.UTC)
	u := model.NewUser("Ada", "ada@example.com", []string{"Programming", "Science", "Programming"}, "#fbd600", joined)
	u.TotalPoints = 270
	u.CurrentStreak = 2
	u.CompletedLessons = []string{"l1", "l1", "l2"}
	u.CompletedChallenges = []string{"c1"}
	return u
}

func TestStateRepositoryUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(NewMemoryStore())

	_, ok := repo.LoadUser(ctx)
	assert.False(t, ok)

	user := sampleUser()
	require.NoError(t, repo.SaveUser(ctx, user))

	loaded, ok := repo.LoadUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, loaded)
	assert.True(t, loaded.JoinedDate.Equal(user.JoinedDate))
}

func TestStateRepositoryCollectionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository(NewMemoryStore())
	expiry := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	lessons := []model.Lesson{{
		ID: "l1", Title: "Spanish", Category: model.CategoryLanguage, Difficulty: model.Beginner,
		Points: 100, Progress: 0.5,
		Content:       []model.LessonContent{{ID: "c1", Type: model.ContentText, Text: "Hola"}},
		QuizQuestions: []model.QuizQuestion{{ID: "q1", Question: "?", Options: []string{"a", "b"}, CorrectAnswer: 1}},
	}}
	challenges := []model.Challenge{{
		ID: "c1", Type: model.ChallengeDaily, Points: 50, ExpiryDate: expiry,
		Tasks:          []model.ChallengeTask{{ID: "t1", Description: "do", RequiredCount: 1}},
		CompletedTasks: []string{"t1"},
	}}
	groups := []model.CollaborationGroup{{
		ID: "g1", Name: "G", MaxMembers: 2, CreatedDate: expiry,
		Members:  []model.GroupMember{{ID: "m1", Name: "A", JoinedDate: expiry}},
		Messages: []model.GroupMessage{{ID: "x", Content: "hi", Timestamp: expiry, IsModerated: true}},
	}}
	feedback := []model.AIFeedback{{
		ID: "f1", LessonID: "l1", FeedbackType: model.FeedbackProblemSolving, Score: 0.92, Timestamp: expiry,
		Suggestions: []string{"s"}, Strengths: []string{"t"}, AreasToImprove: []string{"u"},
	}}

	require.NoError(t, repo.SaveLessons(ctx, lessons))
	require.NoError(t, repo.SaveChallenges(ctx, challenges))
	require.NoError(t, repo.SaveGroups(ctx, groups))
	require.NoError(t, repo.SaveFeedback(ctx, feedback))

	gotLessons, ok := repo.LoadLessons(ctx)
	require.True(t, ok)
	assert.Equal(t, lessons, gotLessons)

	gotChallenges, ok := repo.LoadChallenges(ctx)
	require.True(t, ok)
	assert.Equal(t, challenges, gotChallenges)

	gotGroups, ok := repo.LoadGroups(ctx)
	require.True(t, ok)
	assert.Equal(t, groups, gotGroups)

	gotFeedback, ok := repo.LoadFeedback(ctx)
	require.True(t, ok)
	assert.Equal(t, feedback, gotFeedback)
}

func TestStateRepositoryEnumsUseDisplayNames(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	repo := NewStateRepository(mem)

	require.NoError(t, repo.SaveFeedback(ctx, []model.AIFeedback{{ID: "f", FeedbackType: model.FeedbackProblemSolving}}))
	raw, err := mem.Get(ctx, util.KeyFeedback)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"feedbackType":"Problem Solving"`)
}

func TestStateRepositorySwallowsDecodeErrors(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	repo := NewStateRepository(mem)

	require.NoError(t, mem.Put(ctx, util.KeyUser, []byte(`{"id": 42`)))
	require.NoError(t, mem.Put(ctx, util.KeyChallenges, []byte(`"not a list"`)))

	_, ok := repo.LoadUser(ctx)
	assert.False(t, ok)
	_, ok = repo.LoadChallenges(ctx)
	assert.False(t, ok)
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestStateRepositoryTreatsReadErrorsAsAbsent(t *testing.T) {
	repo := NewStateRepository(brokenStore{NewMemoryStore()})
	_, ok := repo.LoadGroups(context.Background())
	assert.False(t, ok)
}

func TestStateRepositoryReset(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	repo := NewStateRepository(mem)

	require.NoError(t, repo.SaveUser(ctx, sampleUser()))
	require.NoError(t, repo.SaveFeedback(ctx, []model.AIFeedback{}))
	require.NoError(t, mem.Put(ctx, "unrelated", []byte(`1`)))

	require.NoError(t, repo.Reset(ctx))

	_, ok := repo.LoadUser(ctx)
	assert.False(t, ok)
	_, ok = repo.LoadFeedback(ctx)
	assert.False(t, ok)
	assert.Equal(t, 1, mem.Len())
}
