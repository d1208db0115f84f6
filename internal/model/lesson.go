package model

import "strings"

type LessonCategory string

const (
	CategoryLanguage    LessonCategory = "Language"
	CategoryMathematics LessonCategory = "Mathematics"
	CategoryScience     LessonCategory = "Science"
	CategoryArts        LessonCategory = "Arts"
	CategoryProgramming LessonCategory = "Programming"
	CategoryBusiness    LessonCategory = "Business"
)

var LessonCategories = []LessonCategory{
	CategoryLanguage,
	CategoryMathematics,
	CategoryScience,
	CategoryArts,
	CategoryProgramming,
	CategoryBusiness,
}

// ParseLessonCategory 大小写不敏感地解析分类，空字符串表示不筛选
func ParseLessonCategory(s string) (LessonCategory, bool) {
	for _, c := range LessonCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

type DifficultyLevel string

const (
	Beginner     DifficultyLevel = "Beginner"
	Intermediate DifficultyLevel = "Intermediate"
	Advanced     DifficultyLevel = "Advanced"
)

type ContentType string

const (
	ContentText        ContentType = "text"
	ContentVideo       ContentType = "video"
	ContentImage       ContentType = "image"
	ContentInteractive ContentType = "interactive"
)

type LessonContent struct {
	ID       string      `json:"id"`
	Type     ContentType `json:"type"`
	Text     string      `json:"text"`
	MediaURL *string     `json:"mediaURL,omitempty"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Lesson struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      LessonCategory  `json:"category"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	Duration      int             `json:"duration"` // 分钟
	Points        int             `json:"points"`
	QuizQuestions []QuizQuestion  `json:"quizQuestions"`
	Content       []LessonContent `json:"content"`
	IsCompleted   bool            `json:"isCompleted"`
	Progress      float64         `json:"progress"`
}

// Clone 复制内容和题目，选项切片也不与原课程共享
func (l Lesson) Clone() Lesson {
	if l.Content != nil {
		l.Content = append(make([]LessonContent, 0, len(l.Content)), l.Content...)
	}
	if l.QuizQuestions != nil {
		questions := make([]QuizQuestion, len(l.QuizQuestions))
		for i, q := range l.QuizQuestions {
			q.Options = append([]string(nil), q.Options...)
			questions[i] = q
		}
		l.QuizQuestions = questions
	}
	return l
}

// Matches 按分类和关键字（标题或描述，忽略大小写）筛选
func (l *Lesson) Matches(category LessonCategory, query string) bool {
	if category != "" && l.Category != category {
		return false
	}
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Description), q)
}

// QuizResult 测验评分结果
type QuizResult struct {
	LessonID      string   `json:"lessonId"`
	Correct       int      `json:"correct"`
	Total         int      `json:"total"`
	Percentage    float64  `json:"percentage"`
	Passed        bool     `json:"passed"`
	PointsAwarded int      `json:"pointsAwarded"`
	Explanations  []string `json:"explanations,omitempty"`
}

// PassingPercentage 测验及格线
const PassingPercentage = 70.0
