package services

import (
	"math"
	"time"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LearningService serves lessons and grades their quizzes. Passing a quiz
// (>= QuizPassScore) marks the lesson completed.
type LearningService struct {
	DB *gorm.DB
}

func NewLearningService(db *gorm.DB) *LearningService {
	return &LearningService{DB: db}
}

// LessonView is a lesson annotated with the caller's progress
type LessonView struct {
	models.Lesson
	Completed    bool `json:"completed"`
	QuizScore    *int `json:"quiz_score,omitempty"`
	QuizAttempts int  `json:"quiz_attempts"`
}

// ListLessons returns active lessons in order with the user's progress.
func (s *LearningService) ListLessons(userID string) ([]LessonView, error) {
	var lessons []models.Lesson
	if err := s.DB.Where("is_active = ?", true).Order("sort_order ASC").Find(&lessons).Error; err != nil {
		return nil, err
	}

	var progress []models.LearningProgress
	if err := s.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, err
	}
	byLesson := make(map[string]models.LearningProgress, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = p
	}

	views := make([]LessonView, 0, len(lessons))
	for _, lesson := range lessons {
		view := LessonView{Lesson: lesson}
		if p, ok := byLesson[lesson.ID]; ok {
			view.Completed = p.Completed
			view.QuizScore = p.QuizScore
			view.QuizAttempts = p.QuizAttempts
		}
		views = append(views, view)
	}
	return views, nil
}

// GetLesson returns one active lesson with the caller's progress.
func (s *LearningService) GetLesson(userID, lessonID string) (*LessonView, error) {
	var lesson models.Lesson
	if err := s.DB.Where("id = ? AND is_active = ?", lessonID, true).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	view := LessonView{Lesson: lesson}
	var p models.LearningProgress
	err := s.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	if err == nil {
		view.Completed = p.Completed
		view.QuizScore = p.QuizScore
		view.QuizAttempts = p.QuizAttempts
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return &view, nil
}

// CompleteLesson marks a lesson done without a quiz attempt.
func (s *LearningService) CompleteLesson(userID, lessonID string) error {
	var lesson models.Lesson
	if err := s.DB.Where("id = ? AND is_active = ?", lessonID, true).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrLessonNotFound
		}
		return err
	}

	now := time.Now()
	var p models.LearningProgress
	err := s.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		p = models.LearningProgress{
			ID:          uuid.NewString(),
			UserID:      userID,
			LessonID:    lessonID,
			Completed:   true,
			CompletedAt: &now,
		}
		if err := s.DB.Create(&p).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrLessonCompleted
			}
			return err
		}
		return nil
	case err != nil:
		return err
	case p.Completed:
		return ErrLessonCompleted
	default:
		p.Completed = true
		p.CompletedAt = &now
		return s.DB.Save(&p).Error
	}
}

// QuizQuestionView withholds the correct answer
type QuizQuestionView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Options  string `json:"options"`
	Order    int    `json:"order"`
}

// GetQuiz returns the lesson's questions without answers.
func (s *LearningService) GetQuiz(lessonID string) ([]QuizQuestionView, error) {
	var questions []models.QuizQuestion
	if err := s.DB.Where("lesson_id = ?", lessonID).Order("sort_order ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuizNotFound
	}

	views := make([]QuizQuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuizQuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
			Order:    q.Order,
		})
	}
	return views, nil
}

// QuestionResult grades one answer
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuizResult is the graded submission
type QuizResult struct {
	Score   int              `json:"score"`
	Passed  bool             `json:"passed"`
	Results []QuestionResult `json:"results"`
}

// SubmitQuiz grades the answers in question order. A passing score marks the
// lesson completed and bumps the attempt counter either way.
func (s *LearningService) SubmitQuiz(userID, lessonID string, answers []int) (*QuizResult, error) {
	var questions []models.QuizQuestion
	if err := s.DB.Where("lesson_id = ?", lessonID).Order("sort_order ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuizNotFound
	}
	if len(answers) != len(questions) {
		return nil, ErrAnswerCountWrong
	}

	correct := 0
	results := make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		isCorrect := answers[i] == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			IsCorrect:     isCorrect,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))
	passed := score >= models.QuizPassScore

	now := time.Now()
	var p models.LearningProgress
	err := s.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		p = models.LearningProgress{
			ID:           uuid.NewString(),
			UserID:       userID,
			LessonID:     lessonID,
			QuizScore:    &score,
			QuizAttempts: 1,
			Completed:    passed,
		}
		if passed {
			p.CompletedAt = &now
		}
		if err := s.DB.Create(&p).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		p.QuizScore = &score
		p.QuizAttempts++
		if passed {
			p.Completed = true
			p.CompletedAt = &now
		}
		if err := s.DB.Save(&p).Error; err != nil {
			return nil, err
		}
	}

	return &QuizResult{Score: score, Passed: passed, Results: results}, nil
}

// LearningSummary aggregates a user's lesson completion
type LearningSummary struct {
	CompletedLessons  int `json:"completed_lessons"`
	TotalLessons      int `json:"total_lessons"`
	CompletionPercent int `json:"completion_percent"`
	AverageQuizScore  int `json:"average_quiz_score"`
}

// GetSummary reports overall learning progress.
func (s *LearningService) GetSummary(userID string) (*LearningSummary, error) {
	var progress []models.LearningProgress
	if err := s.DB.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, err
	}

	var totalLessons int64
	if err := s.DB.Model(&models.Lesson{}).Where("is_active = ?", true).Count(&totalLessons).Error; err != nil {
		return nil, err
	}

	completed := 0
	scoreSum := 0
	for _, p := range progress {
		if p.Completed {
			completed++
		}
		if p.QuizScore != nil {
			scoreSum += *p.QuizScore
		}
	}

	summary := &LearningSummary{
		CompletedLessons: completed,
		TotalLessons:     int(totalLessons),
	}
	if totalLessons > 0 {
		summary.CompletionPercent = int(math.Round(float64(completed) / float64(totalLessons) * 100))
	}
	if len(progress) > 0 {
		summary.AverageQuizScore = int(math.Round(float64(scoreSum) / float64(len(progress))))
	}
	return summary, nil
}
