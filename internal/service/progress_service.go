package service

import (
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/logger"
	"edusphere_backend/pkg/monitoring"
	"edusphere_backend/pkg/tracing"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StateStore 进度状态的持久化能力，由 repository.StateRepository 实现。
// Load 系列在数据不存在或无法解码时返回 false。
type StateStore interface {
	LoadUser(ctx context.Context) (*model.User, bool)
	SaveUser(ctx context.Context, user *model.User) error
	LoadLessons(ctx context.Context) ([]model.Lesson, bool)
	SaveLessons(ctx context.Context, lessons []model.Lesson) error
	LoadChallenges(ctx context.Context) ([]model.Challenge, bool)
	SaveChallenges(ctx context.Context, challenges []model.Challenge) error
	LoadGroups(ctx context.Context) ([]model.CollaborationGroup, bool)
	SaveGroups(ctx context.Context, groups []model.CollaborationGroup) error
	LoadFeedback(ctx context.Context) ([]model.AIFeedback, bool)
	SaveFeedback(ctx context.Context, feedback []model.AIFeedback) error
	Reset(ctx context.Context) error
}

// Policy 进度规则开关
type Policy struct {
	// DedupeLessonCompletion 为 true 时重复完成同一课程不再记录和加分
	DedupeLessonCompletion bool
	// EnforceGroupCapacity 为 true 时小组满员拒绝加入
	EnforceGroupCapacity bool
}

func DefaultPolicy() Policy {
	return Policy{EnforceGroupCapacity: true}
}

func PolicyFromConfig(cfg config.ProgressConfig) Policy {
	return Policy{
		DedupeLessonCompletion: cfg.DedupeLessonCompletion,
		EnforceGroupCapacity:   cfg.EnforceGroupCapacity,
	}
}

type LessonFilter struct {
	Category model.LessonCategory
	Query    string
}

type LessonCompletion struct {
	Lesson           model.Lesson `json:"lesson"`
	User             *model.User  `json:"user"`
	PointsAwarded    int          `json:"pointsAwarded"`
	AlreadyCompleted bool         `json:"alreadyCompleted"`
}

type ChallengeCompletion struct {
	Challenge     model.Challenge `json:"challenge"`
	User          *model.User     `json:"user"`
	PointsAwarded int             `json:"pointsAwarded"`
}

type TaskCompletion struct {
	Challenge        model.Challenge `json:"challenge"`
	AlreadyCompleted bool            `json:"alreadyCompleted"`
	// Cascaded 本次完成了最后一个任务并触发挑战完成
	Cascaded bool        `json:"cascaded"`
	User     *model.User `json:"user,omitempty"`
}

type ProgressOption func(*ProgressService)

func WithClock(now func() time.Time) ProgressOption {
	return func(s *ProgressService) { s.now = now }
}

func WithPolicy(p Policy) ProgressOption {
	return func(s *ProgressService) { s.policy = p }
}

// WithAvatarPicker 替换头像颜色的随机选择
func WithAvatarPicker(pick func() string) ProgressOption {
	return func(s *ProgressService) { s.pickAvatar = pick }
}

// ProgressService 持有当前用户和全部学习进度，所有读写都在同一把锁下进行。
// 每次修改后同步写回存储；写入失败只记录日志，不影响内存状态。
type ProgressService struct {
	mu sync.Mutex

	store    StateStore
	catalog  *CatalogService
	feedback *FeedbackService

	policy     Policy
	now        func() time.Time
	pickAvatar func() string

	user               *model.User
	onboardingComplete bool
	lessons            []model.Lesson
	challenges         []model.Challenge
	groups             []model.CollaborationGroup
	feedbackHistory    []model.AIFeedback
}

func NewProgressService(store StateStore, catalog *CatalogService, feedback *FeedbackService, opts ...ProgressOption) *ProgressService {
	s := &ProgressService{
		store:    store,
		catalog:  catalog,
		feedback: feedback,
		policy:   DefaultPolicy(),
		now:      time.Now,
		pickAvatar: func() string {
			return model.AvatarColors[rand.Intn(len(model.AvatarColors))]
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetToDefaults()
	return s
}

func (s *ProgressService) UpdatePolicy(p Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
	logger.Log.Info("Progress policy updated",
		zap.Bool("dedupeLessonCompletion", p.DedupeLessonCompletion),
		zap.Bool("enforceGroupCapacity", p.EnforceGroupCapacity))
}

func (s *ProgressService) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// LoadInitialState 从存储加载各集合，缺失的集合整体替换为内置默认值
func (s *ProgressService) LoadInitialState(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "progress.LoadInitialState")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user, s.onboardingComplete = s.store.LoadUser(ctx)

	if lessons, ok := s.store.LoadLessons(ctx); ok {
		s.lessons = lessons
	} else {
		s.lessons = s.catalog.DefaultLessons()
	}
	if challenges, ok := s.store.LoadChallenges(ctx); ok {
		s.challenges = challenges
	} else {
		s.challenges = s.catalog.DefaultChallenges()
	}
	if groups, ok := s.store.LoadGroups(ctx); ok {
		s.groups = groups
	} else {
		s.groups = s.catalog.DefaultGroups()
	}
	if feedback, ok := s.store.LoadFeedback(ctx); ok {
		s.feedbackHistory = feedback
	} else {
		s.feedbackHistory = []model.AIFeedback{}
	}

	monitoring.ObserveProgress("load_initial_state", nil)
	logger.Log.Info("Progress state loaded",
		zap.Bool("onboardingComplete", s.onboardingComplete),
		zap.Int("lessons", len(s.lessons)),
		zap.Int("challenges", len(s.challenges)),
		zap.Int("groups", len(s.groups)),
		zap.Int("feedback", len(s.feedbackHistory)))
}

// CompleteOnboarding 创建新用户并替换已有用户
func (s *ProgressService) CompleteOnboarding(ctx context.Context, name, email string, interests []string) *model.User {
	ctx, span := tracing.StartSpan(ctx, "progress.CompleteOnboarding")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = model.NewUser(name, email, interests, s.pickAvatar(), s.now())
	s.onboardingComplete = true
	s.persist(ctx, util.KeyUser, func() error { return s.store.SaveUser(ctx, s.user) })

	monitoring.ObserveProgress("complete_onboarding", nil)
	return s.user.Clone()
}

func (s *ProgressService) CompleteLesson(ctx context.Context, lessonID string) (result *LessonCompletion, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.CompleteLesson", attribute.String("lesson.id", lessonID))
	defer finish(span, "complete_lesson", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	idx := s.lessonIndex(lessonID)
	if idx < 0 {
		return nil, util.ErrLessonNotFound
	}
	return s.completeLessonLocked(ctx, idx)
}

// UpdateLessonProgress 不要求已登录，不截断进度值，也不改变完成状态
func (s *ProgressService) UpdateLessonProgress(ctx context.Context, lessonID string, progress float64) (lesson *model.Lesson, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.UpdateLessonProgress", attribute.String("lesson.id", lessonID))
	defer finish(span, "update_lesson_progress", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLessonProgressLocked(ctx, lessonID, progress)
}

func (s *ProgressService) updateLessonProgressLocked(ctx context.Context, lessonID string, progress float64) (*model.Lesson, error) {
	idx := s.lessonIndex(lessonID)
	if idx < 0 {
		return nil, util.ErrLessonNotFound
	}
	s.lessons[idx].Progress = progress
	s.persist(ctx, util.KeyLessons, func() error { return s.store.SaveLessons(ctx, s.lessons) })

	l := s.lessons[idx].Clone()
	return &l, nil
}

// RecordContentStep 学习到第 step 个内容块（从 0 开始）时进度为 (step+1)/内容总数
func (s *ProgressService) RecordContentStep(ctx context.Context, lessonID string, step int) (lesson *model.Lesson, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.RecordContentStep",
		attribute.String("lesson.id", lessonID), attribute.Int("step", step))
	defer finish(span, "record_content_step", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lessonIndex(lessonID)
	if idx < 0 {
		return nil, util.ErrLessonNotFound
	}
	total := len(s.lessons[idx].Content)
	if step < 0 || step >= total {
		return nil, util.ErrInvalidStep
	}
	return s.updateLessonProgressLocked(ctx, lessonID, float64(step+1)/float64(total))
}

// SubmitQuiz 按题目ID评分，答对比例不低于及格线时完成课程；未及格不改变任何状态
func (s *ProgressService) SubmitQuiz(ctx context.Context, lessonID string, answers map[string]int) (result *model.QuizResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.SubmitQuiz", attribute.String("lesson.id", lessonID))
	defer finish(span, "submit_quiz", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lessonIndex(lessonID)
	if idx < 0 {
		return nil, util.ErrLessonNotFound
	}
	lesson := s.lessons[idx]

	result = &model.QuizResult{LessonID: lessonID, Total: len(lesson.QuizQuestions)}
	for _, q := range lesson.QuizQuestions {
		if answer, ok := answers[q.ID]; ok && answer == q.CorrectAnswer {
			result.Correct++
			continue
		}
		result.Explanations = append(result.Explanations, q.Explanation)
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Correct) / float64(result.Total) * 100
	}
	result.Passed = result.Percentage >= model.PassingPercentage
	if !result.Passed {
		return result, nil
	}

	completion, err := s.completeLessonLocked(ctx, idx)
	if err != nil {
		return nil, err
	}
	result.PointsAwarded = completion.PointsAwarded
	return result, nil
}

// completeLessonLocked 未开启去重时重复完成会重复记录并再次加分
func (s *ProgressService) completeLessonLocked(ctx context.Context, idx int) (*LessonCompletion, error) {
	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	lesson := &s.lessons[idx]
	if s.policy.DedupeLessonCompletion && lesson.IsCompleted {
		return &LessonCompletion{Lesson: lesson.Clone(), User: s.user.Clone(), AlreadyCompleted: true}, nil
	}

	lesson.IsCompleted = true
	lesson.Progress = 1.0
	s.user.CompletedLessons = append(s.user.CompletedLessons, lesson.ID)
	s.user.TotalPoints += lesson.Points

	s.persist(ctx, util.KeyUser, func() error { return s.store.SaveUser(ctx, s.user) })
	s.persist(ctx, util.KeyLessons, func() error { return s.store.SaveLessons(ctx, s.lessons) })

	return &LessonCompletion{Lesson: lesson.Clone(), User: s.user.Clone(), PointsAwarded: lesson.Points}, nil
}

// CompleteChallenge 连续天数每次完成加 1，与日期无关
func (s *ProgressService) CompleteChallenge(ctx context.Context, challengeID string) (result *ChallengeCompletion, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.CompleteChallenge", attribute.String("challenge.id", challengeID))
	defer finish(span, "complete_challenge", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	idx := s.challengeIndex(challengeID)
	if idx < 0 {
		return nil, util.ErrChallengeNotFound
	}
	return s.completeChallengeLocked(ctx, idx), nil
}

func (s *ProgressService) completeChallengeLocked(ctx context.Context, idx int) *ChallengeCompletion {
	challenge := &s.challenges[idx]
	challenge.IsCompleted = true
	s.user.CompletedChallenges = append(s.user.CompletedChallenges, challenge.ID)
	s.user.TotalPoints += challenge.Points
	s.user.CurrentStreak++

	s.persist(ctx, util.KeyUser, func() error { return s.store.SaveUser(ctx, s.user) })
	s.persist(ctx, util.KeyChallenges, func() error { return s.store.SaveChallenges(ctx, s.challenges) })

	return &ChallengeCompletion{Challenge: challenge.Clone(), User: s.user.Clone(), PointsAwarded: challenge.Points}
}

// CompleteTask 标记挑战中的一个任务；最后一个任务完成时连带完成挑战。
// 已完成的任务再次提交直接返回成功，不写存储。
func (s *ProgressService) CompleteTask(ctx context.Context, challengeID, taskID string) (result *TaskCompletion, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.CompleteTask",
		attribute.String("challenge.id", challengeID), attribute.String("task.id", taskID))
	defer finish(span, "complete_task", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.challengeIndex(challengeID)
	if idx < 0 {
		return nil, util.ErrChallengeNotFound
	}
	challenge := &s.challenges[idx]
	if !challenge.HasTask(taskID) {
		return nil, util.ErrTaskNotFound
	}
	if challenge.IsTaskCompleted(taskID) {
		return &TaskCompletion{Challenge: challenge.Clone(), AlreadyCompleted: true}, nil
	}

	// 最后一个任务会连带完成挑战，需要先有当前用户
	cascades := len(challenge.CompletedTasks)+1 == len(challenge.Tasks)
	if cascades && s.user == nil {
		return nil, util.ErrNoActiveUser
	}

	challenge.CompletedTasks = append(challenge.CompletedTasks, taskID)
	if cascades {
		completion := s.completeChallengeLocked(ctx, idx)
		return &TaskCompletion{Challenge: completion.Challenge, Cascaded: true, User: completion.User}, nil
	}

	s.persist(ctx, util.KeyChallenges, func() error { return s.store.SaveChallenges(ctx, s.challenges) })
	return &TaskCompletion{Challenge: challenge.Clone()}, nil
}

// JoinGroup 以当前用户的名字和头像颜色加入小组，不去重
func (s *ProgressService) JoinGroup(ctx context.Context, groupID string) (group *model.CollaborationGroup, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.JoinGroup", attribute.String("group.id", groupID))
	defer finish(span, "join_group", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	idx := s.groupIndex(groupID)
	if idx < 0 {
		return nil, util.ErrGroupNotFound
	}
	g := &s.groups[idx]
	if s.policy.EnforceGroupCapacity && g.IsFull() {
		return nil, util.ErrGroupFull
	}

	g.Members = append(g.Members, model.GroupMember{
		ID:          model.GenerateUUID(),
		Name:        s.user.Name,
		AvatarColor: s.user.AvatarColor,
		JoinedDate:  s.now(),
	})
	s.persist(ctx, util.KeyGroups, func() error { return s.store.SaveGroups(ctx, s.groups) })

	cloned := g.Clone()
	return &cloned, nil
}

// SendMessage 不校验内容，消息一律标记为已审核
func (s *ProgressService) SendMessage(ctx context.Context, groupID, content string) (message *model.GroupMessage, err error) {
	ctx, span := tracing.StartSpan(ctx, "progress.SendMessage", attribute.String("group.id", groupID))
	defer finish(span, "send_message", &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	idx := s.groupIndex(groupID)
	if idx < 0 {
		return nil, util.ErrGroupNotFound
	}

	msg := model.GroupMessage{
		ID:          model.GenerateUUID(),
		SenderID:    s.user.ID,
		SenderName:  s.user.Name,
		Content:     content,
		Timestamp:   s.now(),
		IsModerated: true,
	}
	s.groups[idx].Messages = append(s.groups[idx].Messages, msg)
	s.persist(ctx, util.KeyGroups, func() error { return s.store.SaveGroups(ctx, s.groups) })

	return &msg, nil
}

// GenerateFeedback 反馈历史只追加，不淘汰
func (s *ProgressService) GenerateFeedback(ctx context.Context, lessonID, input string, feedbackType model.FeedbackType) model.AIFeedback {
	ctx, span := tracing.StartSpan(ctx, "progress.GenerateFeedback",
		attribute.String("lesson.id", lessonID), attribute.String("feedback.type", string(feedbackType)))
	defer span.End()

	fb := s.feedback.Generate(lessonID, input, feedbackType)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedbackHistory = append(s.feedbackHistory, fb)
	s.persist(ctx, util.KeyFeedback, func() error { return s.store.SaveFeedback(ctx, s.feedbackHistory) })

	monitoring.ObserveProgress("generate_feedback", nil)
	return fb.Clone()
}

// DeleteAccount 清空存储并回到未登录状态，内容恢复为内置默认值
func (s *ProgressService) DeleteAccount(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "progress.DeleteAccount")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Reset(ctx)
	if err != nil {
		logger.Log.Warn("Failed to reset persisted state", zap.Error(err))
	}
	s.resetToDefaults()

	monitoring.ObserveProgress("delete_account", err)
	logger.Log.Info("Account deleted")
}

func (s *ProgressService) resetToDefaults() {
	s.user = nil
	s.onboardingComplete = false
	s.lessons = s.catalog.DefaultLessons()
	s.challenges = s.catalog.DefaultChallenges()
	s.groups = s.catalog.DefaultGroups()
	s.feedbackHistory = []model.AIFeedback{}
}

func (s *ProgressService) Snapshot() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.AppState{
		User:               s.user.Clone(),
		OnboardingComplete: s.onboardingComplete,
		Lessons:            cloneLessons(s.lessons),
		Challenges:         cloneChallenges(s.challenges),
		Groups:             cloneGroups(s.groups),
		FeedbackHistory:    cloneFeedback(s.feedbackHistory),
	}
}

// CurrentUser 未完成引导时返回 nil
func (s *ProgressService) CurrentUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

func (s *ProgressService) OnboardingComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboardingComplete
}

func (s *ProgressService) Profile() (*model.ProfileStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, util.ErrNoActiveUser
	}
	return &model.ProfileStats{
		TotalPoints:         s.user.TotalPoints,
		CurrentStreak:       s.user.CurrentStreak,
		LessonsCompleted:    len(s.user.CompletedLessons),
		ChallengesCompleted: len(s.user.CompletedChallenges),
		FeedbackCount:       len(s.feedbackHistory),
	}, nil
}

func (s *ProgressService) Lessons(filter LessonFilter) []model.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Lesson, 0, len(s.lessons))
	for i := range s.lessons {
		if s.lessons[i].Matches(filter.Category, filter.Query) {
			out = append(out, s.lessons[i].Clone())
		}
	}
	return out
}

func (s *ProgressService) Lesson(id string) (*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.lessonIndex(id)
	if idx < 0 {
		return nil, util.ErrLessonNotFound
	}
	l := s.lessons[idx].Clone()
	return &l, nil
}

// Challenges typ 为空时返回全部
func (s *ProgressService) Challenges(typ model.ChallengeType) []model.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		if typ == "" || c.Type == typ {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (s *ProgressService) Challenge(id string) (*model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.challengeIndex(id)
	if idx < 0 {
		return nil, util.ErrChallengeNotFound
	}
	c := s.challenges[idx].Clone()
	return &c, nil
}

func (s *ProgressService) Groups(category model.LessonCategory) []model.CollaborationGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CollaborationGroup, 0, len(s.groups))
	for _, g := range s.groups {
		if category == "" || g.Category == category {
			out = append(out, g.Clone())
		}
	}
	return out
}

func (s *ProgressService) Group(id string) (*model.CollaborationGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.groupIndex(id)
	if idx < 0 {
		return nil, util.ErrGroupNotFound
	}
	g := s.groups[idx].Clone()
	return &g, nil
}

// FeedbackHistory 按时间倒序
func (s *ProgressService) FeedbackHistory() []model.AIFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := cloneFeedback(s.feedbackHistory)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// persist 写入失败只记录日志，进度修改照常生效
func (s *ProgressService) persist(ctx context.Context, key string, save func() error) {
	if err := save(); err != nil {
		logger.Log.Warn("Failed to persist progress state",
			zap.String("key", key), zap.Error(err))
		trace.SpanFromContext(ctx).AddEvent("persist_failed", trace.WithAttributes(attribute.String("key", key)))
	}
}

func (s *ProgressService) lessonIndex(id string) int {
	for i := range s.lessons {
		if s.lessons[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ProgressService) challengeIndex(id string) int {
	for i := range s.challenges {
		if s.challenges[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ProgressService) groupIndex(id string) int {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneLessons(in []model.Lesson) []model.Lesson {
	out := make([]model.Lesson, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}

func cloneFeedback(in []model.AIFeedback) []model.AIFeedback {
	out := make([]model.AIFeedback, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

func cloneChallenges(in []model.Challenge) []model.Challenge {
	out := make([]model.Challenge, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneGroups(in []model.CollaborationGroup) []model.CollaborationGroup {
	out := make([]model.CollaborationGroup, len(in))
	for i, g := range in {
		out[i] = g.Clone()
	}
	return out
}

func finish(span trace.Span, operation string, err *error) {
	tracing.EndSpan(span, *err)
	monitoring.ObserveProgress(operation, *err)
}
