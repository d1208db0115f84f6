package service

import (
	"context"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"fmt"
	"time"
)

// CatalogService 生成内置的课程、挑战和学习小组。
// 除挑战过期时间和小组创建时间取自注入的时钟外，输出是固定的。
type CatalogService struct {
	now func() time.Time
}

func NewCatalogService(now func() time.Time) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{now: now}
}

func text(s string) contentSeed        { return contentSeed{typ: model.ContentText, text: s} }
func interactive(s string) contentSeed { return contentSeed{typ: model.ContentInteractive, text: s} }

type contentSeed struct {
	typ  model.ContentType
	text string
}

type quizSeed struct {
	question    string
	options     []string
	correct     int
	explanation string
}

type lessonSeed struct {
	slug        string
	title       string
	description string
	category    model.LessonCategory
	difficulty  model.DifficultyLevel
	duration    int
	points      int
	quiz        []quizSeed
	content     []contentSeed
}

func (s lessonSeed) build() model.Lesson {
	base := "lesson/" + s.slug
	questions := make([]model.QuizQuestion, len(s.quiz))
	for i, q := range s.quiz {
		questions[i] = model.QuizQuestion{
			ID:            model.CatalogID(fmt.Sprintf("%s/quiz/%d", base, i)),
			Question:      q.question,
			Options:       q.options,
			CorrectAnswer: q.correct,
			Explanation:   q.explanation,
		}
	}
	content := make([]model.LessonContent, len(s.content))
	for i, c := range s.content {
		content[i] = model.LessonContent{
			ID:   model.CatalogID(fmt.Sprintf("%s/content/%d", base, i)),
			Type: c.typ,
			Text: c.text,
		}
	}
	return model.Lesson{
		ID:            model.CatalogID(base),
		Title:         s.title,
		Description:   s.description,
		Category:      s.category,
		Difficulty:    s.difficulty,
		Duration:      s.duration,
		Points:        s.points,
		QuizQuestions: questions,
		Content:       content,
	}
}

var lessonSeeds = []lessonSeed{
	{
		slug:        "spanish-basics",
		title:       "Spanish Basics: Greetings & Introductions",
		description: "Learn essential Spanish greetings and how to introduce yourself in Spanish-speaking countries.",
		category:    model.CategoryLanguage,
		difficulty:  model.Beginner,
		duration:    15,
		points:      100,
		quiz: []quizSeed{
			{"How do you say 'Hello' in Spanish?", []string{"Adiós", "Hola", "Gracias", "Por favor"}, 1,
				"'Hola' is the most common way to say hello in Spanish."},
			{"What does 'Me llamo' mean?", []string{"Goodbye", "My name is", "Thank you", "Please"}, 1,
				"'Me llamo' literally translates to 'I call myself' and is used to introduce your name."},
			{"How do you ask 'How are you?' in Spanish?", []string{"¿Cómo estás?", "¿Qué tal?", "Both answers", "¿Dónde está?"}, 2,
				"Both '¿Cómo estás?' and '¿Qué tal?' are commonly used to ask how someone is doing."},
		},
		content: []contentSeed{
			text("Welcome to Spanish Basics! In this lesson, you'll learn the fundamental greetings that will help you start conversations in Spanish."),
			text("Common Greetings:\n• Hola - Hello\n• Buenos días - Good morning\n• Buenas tardes - Good afternoon\n• Buenas noches - Good evening/night"),
			text("Introducing Yourself:\n• Me llamo... - My name is...\n• Soy... - I am...\n• Mucho gusto - Nice to meet you\n• Encantado/a - Pleased to meet you"),
			interactive("Practice: Try saying 'Hello, my name is [your name]. Nice to meet you!' in Spanish."),
		},
	},
	{
		slug:        "french-pronunciation",
		title:       "French Pronunciation: Vowels & Accents",
		description: "Master French vowel sounds and understand how accents change pronunciation.",
		category:    model.CategoryLanguage,
		difficulty:  model.Intermediate,
		duration:    20,
		points:      150,
		quiz: []quizSeed{
			{"What sound does 'é' make in French?", []string{"eh", "ay", "ee", "ah"}, 1,
				"The accent aigu (é) produces an 'ay' sound, like in 'café'."},
			{"Which accent makes a vowel sound more open?", []string{"Accent aigu (é)", "Accent grave (è)", "Accent circonflexe (ê)", "Tréma (ë)"}, 1,
				"The accent grave (è) creates a more open 'eh' sound."},
		},
		content: []contentSeed{
			text("French pronunciation can be challenging, but mastering vowels and accents is key to sounding natural."),
			text("French Accents:\n• Accent aigu (é) - closed 'ay' sound\n• Accent grave (è) - open 'eh' sound\n• Accent circonflexe (ê) - slightly elongated vowel\n• Tréma (ë) - separate pronunciation"),
			interactive("Listen and repeat: été (summer), père (father), fête (party), Noël (Christmas)"),
		},
	},
	{
		slug:        "algebra-linear-equations",
		title:       "Algebra Fundamentals: Linear Equations",
		description: "Understand and solve linear equations with practical examples.",
		category:    model.CategoryMathematics,
		difficulty:  model.Beginner,
		duration:    25,
		points:      120,
		quiz: []quizSeed{
			{"Solve for x: 2x + 5 = 15", []string{"x = 5", "x = 10", "x = 7.5", "x = 20"}, 0,
				"Subtract 5 from both sides: 2x = 10, then divide by 2: x = 5"},
			{"What is the first step to solve: 3x - 7 = 14?", []string{"Divide by 3", "Add 7 to both sides", "Subtract 14", "Multiply by 3"}, 1,
				"Add 7 to both sides to isolate the term with x: 3x = 21"},
		},
		content: []contentSeed{
			text("Linear equations are the foundation of algebra. They represent relationships where variables have a constant rate of change."),
			text("Key Steps to Solve Linear Equations:\n1. Simplify both sides\n2. Move variables to one side\n3. Move constants to the other side\n4. Divide or multiply to isolate the variable"),
			text("Example: Solve 4x + 8 = 28\nStep 1: Subtract 8 from both sides → 4x = 20\nStep 2: Divide both sides by 4 → x = 5"),
			interactive("Practice: Try solving 5x - 3 = 22 on your own!"),
		},
	},
	{
		slug:        "python-variables",
		title:       "Python Basics: Variables & Data Types",
		description: "Learn about Python variables, data types, and basic operations.",
		category:    model.CategoryProgramming,
		difficulty:  model.Beginner,
		duration:    30,
		points:      140,
		quiz: []quizSeed{
			{"Which data type would you use to store the number 3.14?", []string{"int", "float", "str", "bool"}, 1,
				"Floating-point numbers (decimals) are stored using the 'float' data type."},
			{"What is the output of: print(type('Hello'))?", []string{"<class 'int'>", "<class 'str'>", "<class 'float'>", "<class 'bool'>"}, 1,
				"Text enclosed in quotes is a string, so the type is 'str'."},
		},
		content: []contentSeed{
			text("Python is a versatile programming language. Understanding variables and data types is your first step to mastery."),
			text("Basic Data Types:\n• int - Whole numbers (e.g., 42)\n• float - Decimal numbers (e.g., 3.14)\n• str - Text/strings (e.g., 'Hello')\n• bool - True or False values"),
			text("Creating Variables:\nname = 'Alice'\nage = 25\nheight = 5.6\nis_student = True"),
			interactive("Practice: Create a variable for your favorite number and print its type."),
		},
	},
	{
		slug:        "newtons-laws",
		title:       "Physics: Newton's Laws of Motion",
		description: "Explore the three fundamental laws that govern motion and forces.",
		category:    model.CategoryScience,
		difficulty:  model.Intermediate,
		duration:    35,
		points:      180,
		quiz: []quizSeed{
			{"What is Newton's First Law?", []string{"F = ma", "An object at rest stays at rest unless acted upon", "Action-reaction", "E = mc²"}, 1,
				"Newton's First Law states that an object remains at rest or in uniform motion unless acted upon by an external force."},
			{"If force = 20N and mass = 4kg, what is acceleration?", []string{"5 m/s²", "80 m/s²", "16 m/s²", "24 m/s²"}, 0,
				"Using F = ma, acceleration = F/m = 20/4 = 5 m/s²"},
		},
		content: []contentSeed{
			text("Isaac Newton's three laws of motion revolutionized our understanding of physics and mechanics."),
			text("First Law (Inertia):\nAn object at rest stays at rest, and an object in motion stays in motion at constant velocity, unless acted upon by an unbalanced force."),
			text("Second Law (F = ma):\nThe acceleration of an object depends on the net force acting upon it and its mass. Formula: Force = Mass × Acceleration"),
			text("Third Law (Action-Reaction):\nFor every action, there is an equal and opposite reaction."),
		},
	},
	{
		slug:        "color-theory",
		title:       "Digital Art: Color Theory Fundamentals",
		description: "Understanding color wheels, harmony, and psychological effects of colors.",
		category:    model.CategoryArts,
		difficulty:  model.Beginner,
		duration:    20,
		points:      110,
		quiz: []quizSeed{
			{"What are the primary colors?", []string{"Red, Green, Blue", "Red, Yellow, Blue", "Orange, Green, Purple", "Black, White, Gray"}, 1,
				"The primary colors are Red, Yellow, and Blue. They cannot be created by mixing other colors."},
			{"Which colors are complementary to each other?", []string{"Colors next to each other", "Colors opposite on the color wheel", "All warm colors", "All cool colors"}, 1,
				"Complementary colors are opposite each other on the color wheel and create high contrast."},
		},
		content: []contentSeed{
			text("Color theory is essential for any artist. It helps you create visually appealing and emotionally impactful artwork."),
			text("Color Wheel Basics:\n• Primary: Red, Yellow, Blue\n• Secondary: Orange, Green, Purple\n• Tertiary: Combinations of primary and secondary"),
			text("Color Harmony:\n• Complementary: Opposite colors (e.g., Blue & Orange)\n• Analogous: Adjacent colors (e.g., Blue, Blue-Green, Green)\n• Triadic: Three evenly spaced colors"),
			interactive("Experiment: Try creating a color palette using complementary colors."),
		},
	},
}

// DefaultLessons 内置课程，顺序固定
func (s *CatalogService) DefaultLessons() []model.Lesson {
	lessons := make([]model.Lesson, len(lessonSeeds))
	for i, seed := range lessonSeeds {
		lessons[i] = seed.build()
	}
	return lessons
}

type taskSeed struct {
	description string
	required    int
}

type challengeSeed struct {
	slug        string
	title       string
	description string
	typ         model.ChallengeType
	category    model.LessonCategory
	points      int
	tasks       []taskSeed
}

var challengeSeeds = []challengeSeed{
	{"daily-language-sprint", "Daily Language Sprint", "Complete 3 language lessons today to maintain your streak!",
		model.ChallengeDaily, model.CategoryLanguage, 50,
		[]taskSeed{{"Complete a beginner lesson", 1}, {"Complete an intermediate lesson", 1}, {"Practice pronunciation", 1}}},
	{"math-master", "Math Master Challenge", "Solve 20 algebra problems this week",
		model.ChallengeWeekly, model.CategoryMathematics, 200,
		[]taskSeed{{"Solve linear equations", 10}, {"Practice word problems", 5}, {"Complete a quiz with 80%+", 1}}},
	{"code-every-day", "Code Every Day", "Write code for 7 consecutive days",
		model.ChallengeSpecial, model.CategoryProgramming, 300,
		[]taskSeed{{"Complete a Python lesson", 7}, {"Solve coding exercises", 7}}},
	{"science-explorer", "Science Explorer", "Learn about physics concepts today",
		model.ChallengeDaily, model.CategoryScience, 75,
		[]taskSeed{{"Study Newton's Laws", 1}, {"Complete physics quiz", 1}}},
}

// DefaultChallenges 每日挑战明天过期，每周和特别挑战一周后过期
func (s *CatalogService) DefaultChallenges() []model.Challenge {
	now := s.now()
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)

	challenges := make([]model.Challenge, len(challengeSeeds))
	for i, seed := range challengeSeeds {
		base := "challenge/" + seed.slug
		tasks := make([]model.ChallengeTask, len(seed.tasks))
		for j, t := range seed.tasks {
			tasks[j] = model.ChallengeTask{
				ID:            model.CatalogID(fmt.Sprintf("%s/task/%d", base, j)),
				Description:   t.description,
				RequiredCount: t.required,
			}
		}
		expiry := nextWeek
		if seed.typ == model.ChallengeDaily {
			expiry = tomorrow
		}
		challenges[i] = model.Challenge{
			ID:             model.CatalogID(base),
			Title:          seed.title,
			Description:    seed.description,
			Type:           seed.typ,
			Category:       seed.category,
			Points:         seed.points,
			Tasks:          tasks,
			ExpiryDate:     expiry,
			CompletedTasks: []string{},
		}
	}
	return challenges
}

type groupSeed struct {
	slug        string
	name        string
	description string
	category    model.LessonCategory
	createdBy   string
	maxMembers  int
	members     []string
	welcome     string
}

var groupSeeds = []groupSeed{
	{"spanish-conversation", "Spanish Conversation Circle", "Practice everyday Spanish with other learners and swap tips on pronunciation.",
		model.CategoryLanguage, "Sofia", 10, []string{"Sofia", "Mateo", "Lena"},
		"¡Hola a todos! Share one new phrase you learned today."},
	{"algebra-study-hall", "Algebra Study Hall", "Work through linear equations together and explain your steps.",
		model.CategoryMathematics, "Daniel", 8, []string{"Daniel", "Priya"},
		"Post a problem you are stuck on and we will solve it step by step."},
	{"python-beginners", "Python Beginners", "A friendly place to ask questions about your first Python programs.",
		model.CategoryProgramming, "Aiko", 12, []string{"Aiko", "Marcus", "Jonas", "Elif"},
		"Welcome! Share what you are building this week."},
	{"physics-explorers", "Physics Explorers", "Discuss Newton's laws, experiments and everyday physics.",
		model.CategoryScience, "Noah", 6, []string{"Noah"},
		"Which of Newton's laws do you notice most in daily life?"},
}

// DefaultGroups 内置学习小组，带少量成员和一条欢迎消息
func (s *CatalogService) DefaultGroups() []model.CollaborationGroup {
	now := s.now()

	groups := make([]model.CollaborationGroup, len(groupSeeds))
	for i, seed := range groupSeeds {
		base := "group/" + seed.slug
		members := make([]model.GroupMember, len(seed.members))
		for j, name := range seed.members {
			members[j] = model.GroupMember{
				ID:          model.CatalogID(fmt.Sprintf("%s/member/%d", base, j)),
				Name:        name,
				AvatarColor: model.AvatarColors[j%len(model.AvatarColors)],
				JoinedDate:  now,
			}
		}
		groups[i] = model.CollaborationGroup{
			ID:          model.CatalogID(base),
			Name:        seed.name,
			Description: seed.description,
			Category:    seed.category,
			CreatedBy:   seed.createdBy,
			CreatedDate: now,
			Members:     members,
			Messages: []model.GroupMessage{{
				ID:          model.CatalogID(base + "/message/0"),
				SenderID:    members[0].ID,
				SenderName:  seed.createdBy,
				Content:     seed.welcome,
				Timestamp:   now,
				IsModerated: true,
			}},
			MaxMembers: seed.maxMembers,
		}
	}
	return groups
}

// CatalogStore 写入默认内容所需的存储能力
type CatalogStore interface {
	LoadLessons(ctx context.Context) ([]model.Lesson, bool)
	SaveLessons(ctx context.Context, lessons []model.Lesson) error
	LoadChallenges(ctx context.Context) ([]model.Challenge, bool)
	SaveChallenges(ctx context.Context, challenges []model.Challenge) error
	LoadGroups(ctx context.Context) ([]model.CollaborationGroup, bool)
	SaveGroups(ctx context.Context, groups []model.CollaborationGroup) error
}

// Seed 只为存储中缺失的集合写入默认内容，返回写入的键
func (s *CatalogService) Seed(ctx context.Context, store CatalogStore) ([]string, error) {
	var seeded []string

	if _, ok := store.LoadLessons(ctx); !ok {
		if err := store.SaveLessons(ctx, s.DefaultLessons()); err != nil {
			return seeded, fmt.Errorf("seed lessons: %w", err)
		}
		seeded = append(seeded, util.KeyLessons)
	}
	if _, ok := store.LoadChallenges(ctx); !ok {
		if err := store.SaveChallenges(ctx, s.DefaultChallenges()); err != nil {
			return seeded, fmt.Errorf("seed challenges: %w", err)
		}
		seeded = append(seeded, util.KeyChallenges)
	}
	if _, ok := store.LoadGroups(ctx); !ok {
		if err := store.SaveGroups(ctx, s.DefaultGroups()); err != nil {
			return seeded, fmt.Errorf("seed groups: %w", err)
		}
		seeded = append(seeded, util.KeyGroups)
	}
	return seeded, nil
}
