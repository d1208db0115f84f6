package model

import (
	"strings"
	"time"
)

type ChallengeType string

const (
	ChallengeDaily   ChallengeType = "Daily"
	ChallengeWeekly  ChallengeType = "Weekly"
	ChallengeSpecial ChallengeType = "Special"
)

func ParseChallengeType(s string) (ChallengeType, bool) {
	for _, t := range []ChallengeType{ChallengeDaily, ChallengeWeekly, ChallengeSpecial} {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

type ChallengeTask struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	RequiredCount int    `json:"requiredCount"`
	CurrentCount  int    `json:"currentCount"`
}

// IsCompleted 由计数推导；进度控制器标记任务完成时不修改计数
func (t ChallengeTask) IsCompleted() bool {
	return t.CurrentCount >= t.RequiredCount
}

type Challenge struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Type           ChallengeType   `json:"type"`
	Category       LessonCategory  `json:"category"`
	Points         int             `json:"points"`
	Tasks          []ChallengeTask `json:"tasks"`
	ExpiryDate     time.Time       `json:"expiryDate"`
	IsCompleted    bool            `json:"isCompleted"`
	CompletedTasks []string        `json:"completedTasks"`
}

// Progress 已完成任务数 / 任务总数，没有任务时为 0
func (c *Challenge) Progress() float64 {
	if len(c.Tasks) == 0 {
		return 0
	}
	return float64(len(c.CompletedTasks)) / float64(len(c.Tasks))
}

func (c *Challenge) HasTask(taskID string) bool {
	for _, t := range c.Tasks {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

func (c *Challenge) IsTaskCompleted(taskID string) bool {
	return containsString(c.CompletedTasks, taskID)
}

func (c Challenge) Clone() Challenge {
	c.Tasks = append([]ChallengeTask(nil), c.Tasks...)
	c.CompletedTasks = append([]string{}, c.CompletedTasks...)
	return c
}
