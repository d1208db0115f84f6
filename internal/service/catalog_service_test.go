package service

import (
	"context"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/repository"
	"edusphere_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestCatalogLessons(t *testing.T) {
	lessons := NewCatalogService(fixedClock).DefaultLessons()
	require.Len(t, lessons, 6)

	points := make([]int, len(lessons))
	for i, l := range lessons {
		points[i] = l.Points
		assert.NotEmpty(t, l.Content, l.Title)
		assert.NotEmpty(t, l.QuizQuestions, l.Title)
		assert.False(t, l.IsCompleted)
		assert.Zero(t, l.Progress)
		for _, q := range l.QuizQuestions {
			assert.True(t, q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options), q.Question)
		}
	}
	assert.Equal(t, []int{100, 150, 120, 140, 180, 110}, points)
	assert.Equal(t, model.CategoryLanguage, lessons[0].Category)
	assert.Equal(t, model.CategoryArts, lessons[5].Category)
}

func TestCatalogIsDeterministic(t *testing.T) {
	a := NewCatalogService(fixedClock)
	b := NewCatalogService(fixedClock)

	assert.Equal(t, a.DefaultLessons(), b.DefaultLessons())
	assert.Equal(t, a.DefaultChallenges(), b.DefaultChallenges())
	assert.Equal(t, a.DefaultGroups(), b.DefaultGroups())

	seen := map[string]bool{}
	for _, l := range a.DefaultLessons() {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
	for _, c := range a.DefaultChallenges() {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestCatalogChallengeExpiry(t *testing.T) {
	challenges := NewCatalogService(fixedClock).DefaultChallenges()
	require.Len(t, challenges, 4)

	for _, c := range challenges {
		switch c.Type {
		case model.ChallengeDaily:
			assert.Equal(t, fixedNow.AddDate(0, 0, 1), c.ExpiryDate, c.Title)
		default:
			assert.Equal(t, fixedNow.AddDate(0, 0, 7), c.ExpiryDate, c.Title)
		}
		assert.NotNil(t, c.CompletedTasks)
		assert.Empty(t, c.CompletedTasks)
		for _, task := range c.Tasks {
			assert.Positive(t, task.RequiredCount)
			assert.Zero(t, task.CurrentCount)
		}
	}

	assert.Equal(t, 50, challenges[0].Points)
	assert.Len(t, challenges[0].Tasks, 3)
	assert.Equal(t, 300, challenges[2].Points)
	assert.Len(t, challenges[2].Tasks, 2)
}

func TestCatalogGroups(t *testing.T) {
	groups := NewCatalogService(fixedClock).DefaultGroups()
	require.Len(t, groups, 4)

	for _, g := range groups {
		assert.Equal(t, fixedNow, g.CreatedDate)
		assert.False(t, g.IsFull(), g.Name)
		require.Len(t, g.Messages, 1)
		assert.True(t, g.Messages[0].IsModerated)
		assert.Equal(t, g.Members[0].ID, g.Messages[0].SenderID)
	}
	assert.Equal(t, []int{10, 8, 12, 6}, []int{
		groups[0].MaxMembers, groups[1].MaxMembers, groups[2].MaxMembers, groups[3].MaxMembers,
	})
}

func TestCatalogSeedOnlyFillsMissingCollections(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStateRepository(repository.NewMemoryStore())
	custom := []model.Lesson{{ID: "custom", Title: "Custom"}}
	require.NoError(t, repo.SaveLessons(ctx, custom))

	catalog := NewCatalogService(fixedClock)
	seeded, err := catalog.Seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, []string{util.KeyChallenges, util.KeyGroups}, seeded)

	lessons, ok := repo.LoadLessons(ctx)
	require.True(t, ok)
	assert.Equal(t, custom, lessons)
	challenges, ok := repo.LoadChallenges(ctx)
	require.True(t, ok)
	assert.Equal(t, catalog.DefaultChallenges(), challenges)

	seeded, err = catalog.Seed(ctx, repo)
	require.NoError(t, err)
	assert.Empty(t, seeded)
}
