package model

import (
	"time"
)

var AvatarColors = []string{"#fbd600", "#ffffff"}

type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	AvatarColor         string    `json:"avatarColor"`
	Interests           []string  `json:"interests"`
	JoinedDate          time.Time `json:"joinedDate"`
	TotalPoints         int       `json:"totalPoints"`
	CurrentStreak       int       `json:"currentStreak"`
	CompletedLessons    []string  `json:"completedLessons"`
	CompletedChallenges []string  `json:"completedChallenges"`
}

// NewUser 创建一个积分、连续天数和学习记录均为零的新用户
func NewUser(name, email string, interests []string, avatarColor string, now time.Time) *User {
	return &User{
		ID:                  GenerateUUID(),
		Name:                name,
		Email:               email,
		AvatarColor:         avatarColor,
		Interests:           uniqueStrings(interests),
		JoinedDate:          now,
		CompletedLessons:    []string{},
		CompletedChallenges: []string{},
	}
}

func (u *User) HasCompletedLesson(lessonID string) bool {
	return containsString(u.CompletedLessons, lessonID)
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Interests = append([]string(nil), u.Interests...)
	c.CompletedLessons = append([]string{}, u.CompletedLessons...)
	c.CompletedChallenges = append([]string{}, u.CompletedChallenges...)
	return &c
}

// ProfileStats 个人主页统计
type ProfileStats struct {
	TotalPoints         int `json:"totalPoints"`
	CurrentStreak       int `json:"currentStreak"`
	LessonsCompleted    int `json:"lessonsCompleted"`
	ChallengesCompleted int `json:"challengesCompleted"`
	FeedbackCount       int `json:"feedbackCount"`
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
