package service

import (
	"edusphere_backend/internal/model"
	"math/rand"
	"sync"
	"time"
)

type feedbackTemplate struct {
	score          float64
	suggestions    []string
	strengths      []string
	areasToImprove []string
}

var feedbackTemplates = []feedbackTemplate{
	{
		score:          0.85,
		suggestions:    []string{"Practice the 'r' sound more", "Try listening to native speakers", "Record yourself and compare"},
		strengths:      []string{"Clear vowel pronunciation", "Good rhythm and pace", "Natural intonation"},
		areasToImprove: []string{"Rolling 'r' sounds", "Consonant clusters", "Accent consistency"},
	},
	{
		score:          0.92,
		suggestions:    []string{"Keep up the excellent work", "Try more complex sentences", "Practice with conversation partners"},
		strengths:      []string{"Perfect grammar structure", "Rich vocabulary usage", "Natural flow"},
		areasToImprove: []string{"Advanced vocabulary", "Idiomatic expressions"},
	},
	{
		score:          0.78,
		suggestions:    []string{"Review verb conjugations", "Practice with flashcards", "Focus on irregular verbs"},
		strengths:      []string{"Good understanding of basics", "Clear pronunciation", "Consistent effort"},
		areasToImprove: []string{"Verb tenses", "Plural forms", "Gender agreement"},
	},
}

// FeedbackService 从固定模板中随机挑选一条反馈
type FeedbackService struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewFeedbackService rnd 或 now 为 nil 时使用时间种子和系统时钟
func NewFeedbackService(rnd *rand.Rand, now func() time.Time) *FeedbackService {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &FeedbackService{rnd: rnd, now: now}
}

// Generate 不校验用户输入
func (s *FeedbackService) Generate(lessonID, userInput string, feedbackType model.FeedbackType) model.AIFeedback {
	s.mu.Lock()
	t := feedbackTemplates[s.rnd.Intn(len(feedbackTemplates))]
	s.mu.Unlock()

	return model.AIFeedback{
		ID:             model.GenerateUUID(),
		LessonID:       lessonID,
		UserInput:      userInput,
		FeedbackType:   feedbackType,
		Score:          t.score,
		Suggestions:    append([]string(nil), t.suggestions...),
		Strengths:      append([]string(nil), t.strengths...),
		AreasToImprove: append([]string(nil), t.areasToImprove...),
		Timestamp:      s.now(),
	}
}
