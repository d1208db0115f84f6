package model

import (
	"strings"
	"time"
)

type FeedbackType string

const (
	FeedbackPronunciation  FeedbackType = "Pronunciation"
	FeedbackGrammar        FeedbackType = "Grammar"
	FeedbackVocabulary     FeedbackType = "Vocabulary"
	FeedbackWriting        FeedbackType = "Writing"
	FeedbackProblemSolving FeedbackType = "Problem Solving"
)

var FeedbackTypes = []FeedbackType{
	FeedbackPronunciation,
	FeedbackGrammar,
	FeedbackVocabulary,
	FeedbackWriting,
	FeedbackProblemSolving,
}

// ParseFeedbackType 接受显示名（"Problem Solving"）或驼峰写法（"problemSolving"）
func ParseFeedbackType(s string) (FeedbackType, bool) {
	norm := strings.ReplaceAll(strings.ToLower(s), " ", "")
	for _, t := range FeedbackTypes {
		if strings.ReplaceAll(strings.ToLower(string(t)), " ", "") == norm {
			return t, true
		}
	}
	return "", false
}

type AIFeedback struct {
	ID             string       `json:"id"`
	LessonID       string       `json:"lessonId"`
	UserInput      string       `json:"userInput"`
	FeedbackType   FeedbackType `json:"feedbackType"`
	Score          float64      `json:"score"`
	Suggestions    []string     `json:"suggestions"`
	Strengths      []string     `json:"strengths"`
	AreasToImprove []string     `json:"areasToImprove"`
	Timestamp      time.Time    `json:"timestamp"`
}

func (f AIFeedback) Clone() AIFeedback {
	f.Suggestions = append([]string(nil), f.Suggestions...)
	f.Strengths = append([]string(nil), f.Strengths...)
	f.AreasToImprove = append([]string(nil), f.AreasToImprove...)
	return f
}

// AppState 进度控制器的只读快照
type AppState struct {
	User               *User                `json:"user"`
	OnboardingComplete bool                 `json:"onboardingComplete"`
	Lessons            []Lesson             `json:"lessons"`
	Challenges         []Challenge          `json:"challenges"`
	Groups             []CollaborationGroup `json:"groups"`
	FeedbackHistory    []AIFeedback         `json:"feedbackHistory"`
}
