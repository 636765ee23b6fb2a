package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"baggage_quiz_backend/pkg/logger"
	"baggage_quiz_backend/pkg/monitoring"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 乐观锁冲突时读-改-写的最大重试次数
const submitMaxRetries = 3

// QuizService 进度引擎：判定关卡可达性、评分、落库进度变更。
// 这是进度规则的唯一实现，HTTP 层和统计层都只通过它访问进度状态。
type QuizService struct {
	UserRepo     *repository.UserRepository
	LevelRepo    *repository.LevelRepository
	QuestionRepo *repository.QuestionRepository
}

func NewQuizService(userRepo *repository.UserRepository, levelRepo *repository.LevelRepository, questionRepo *repository.QuestionRepository) *QuizService {
	return &QuizService{
		UserRepo:     userRepo,
		LevelRepo:    levelRepo,
		QuestionRepo: questionRepo,
	}
}

// QuizStart 开始测验的响应载荷，题目已剥离答案字段
type QuizStart struct {
	Level          *model.Level           `json:"level"`
	Questions      []model.PublicQuestion `json:"questions"`
	TotalQuestions int                    `json:"totalQuestions"`
}

// SubmitResult 提交测验的响应载荷
type SubmitResult struct {
	Score             int              `json:"score"`
	CorrectAnswers    int              `json:"correctAnswers"`
	TotalQuestions    int              `json:"totalQuestions"`
	Passed            bool             `json:"passed"`
	PassingScore      int              `json:"passingScore"`
	Results           []QuestionResult `json:"results"`
	NextLevelUnlocked bool             `json:"nextLevelUnlocked"`
}

// StartQuiz 返回关卡信息和去除答案的题目列表
func (s *QuizService) StartQuiz(userID, levelID uint) (*QuizStart, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return nil, levelLookupErr(err)
	}
	if err := levelAccess(user, level); err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.ListActiveByLevel(level.Level)
	if err != nil {
		return nil, err
	}

	return newQuizStart(level, questions)
}

// levelAccess 评分前的准入检查：停用的关卡不可作答，
// 高于学员当前前沿的关卡处于锁定状态。
func levelAccess(user *model.User, level *model.Level) error {
	if !level.IsActive {
		return util.ErrLevelInactive
	}
	if level.Level > user.CurrentLevel {
		return util.ErrLevelLocked
	}
	return nil
}

// newQuizStart 组装开始测验的载荷，题目剥离答案字段。
// 题目全部被停用的关卡在开始阶段就拒绝，不产生空白测验。
func newQuizStart(level *model.Level, questions []model.Question) (*QuizStart, error) {
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}
	public := make([]model.PublicQuestion, 0, len(questions))
	for i := range questions {
		public = append(public, questions[i].PublicView())
	}
	return &QuizStart{
		Level:          level,
		Questions:      public,
		TotalQuestions: len(public),
	}, nil
}

// SubmitQuiz 评分并应用进度变更。
//
// 锁定的关卡在评分前就拒绝。落库用乐观锁，冲突时重读账号重试，
// 保证并发提交不会丢失历史记录。
func (s *QuizService) SubmitQuiz(userID, levelID uint, answers []AnswerSubmission, timeSpent int) (*SubmitResult, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return nil, levelLookupErr(err)
	}
	if !level.IsActive {
		return nil, util.ErrLevelInactive
	}

	questions, err := s.QuestionRepo.ListActiveByLevel(level.Level)
	if err != nil {
		return nil, err
	}

	var eval *EvalResult
	var unlocked bool

	for attempt := 0; ; attempt++ {
		user, err := s.UserRepo.FindByIDWithProgress(userID)
		if err != nil {
			return nil, userLookupErr(err)
		}
		if err := levelAccess(user, level); err != nil {
			return nil, err
		}

		eval, err = EvaluateAnswers(questions, answers)
		if err != nil {
			return nil, err
		}

		var upd repository.SubmissionUpdate
		upd, unlocked = buildSubmissionUpdate(user, level, eval, timeSpent, time.Now())

		err = s.UserRepo.ApplySubmission(user, upd)
		if err == nil {
			break
		}
		if !errors.Is(err, util.ErrConcurrentConflict) {
			return nil, err
		}
		if attempt+1 >= submitMaxRetries {
			return nil, err
		}
	}

	passed := eval.Score >= level.PassingScore
	monitoring.ObserveQuizSubmission(level.Level, passed)
	logger.Log.Info("quiz submitted",
		zap.Uint("userId", userID),
		zap.Int("level", level.Level),
		zap.Int("score", eval.Score),
		zap.Bool("passed", passed),
		zap.Bool("nextLevelUnlocked", unlocked),
	)

	return &SubmitResult{
		Score:             eval.Score,
		CorrectAnswers:    eval.CorrectCount,
		TotalQuestions:    eval.TotalQuestions,
		Passed:            passed,
		PassingScore:      level.PassingScore,
		Results:           eval.Results,
		NextLevelUnlocked: unlocked,
	}, nil
}

// buildSubmissionUpdate 根据评分结果计算一次提交产生的全部状态变更。
// 纯函数，不触库。
//
// 规则：
//   - 历史记录无条件追加，总分无条件累加（失败也计分）。
//   - completedLevels 每关卡一条，仅当新分数严格高于历史最高分时替换。
//   - 只有通过且该关卡正是当前前沿时才推进 currentLevel，重考旧关卡
//     不会前移也不会后移前沿。
func buildSubmissionUpdate(user *model.User, level *model.Level, eval *EvalResult, timeSpent int, now time.Time) (repository.SubmissionUpdate, bool) {
	passed := eval.Score >= level.PassingScore

	upd := repository.SubmissionUpdate{
		Record: model.TestRecord{
			SessionID:   model.GenerateUUID(),
			Level:       level.Level,
			Score:       eval.Score,
			Passed:      passed,
			CompletedAt: now,
			TimeSpent:   timeSpent,
		},
		CurrentLevel: user.CurrentLevel,
		TotalScore:   user.TotalScore + eval.Score,
	}

	var existing *model.CompletedLevel
	for i := range user.CompletedLevels {
		if user.CompletedLevels[i].Level == level.Level {
			existing = &user.CompletedLevels[i]
			break
		}
	}

	if existing == nil {
		upd.Completed = &model.CompletedLevel{
			Level:       level.Level,
			BestScore:   eval.Score,
			CompletedAt: now,
		}
	} else if eval.Score > existing.BestScore {
		replacement := *existing
		replacement.BestScore = eval.Score
		replacement.CompletedAt = now
		upd.Completed = &replacement
	}

	unlocked := false
	if passed && user.CurrentLevel == level.Level {
		upd.CurrentLevel = level.Level + 1
		unlocked = true
	}

	return upd, unlocked
}

// QuizStats 学员进度概览
type QuizStats struct {
	CurrentLevel    int                    `json:"currentLevel"`
	CompletedLevels []model.CompletedLevel `json:"completedLevels"`
	TotalLevels     int                    `json:"totalLevels"`
	Progress        int                    `json:"progress"` // 百分比
	TotalScore      int                    `json:"totalScore"`
	TotalTests      int                    `json:"totalTests"`
	PassedTests     int                    `json:"passedTests"`
	SuccessRate     int                    `json:"successRate"` // 百分比
}

func (s *QuizService) GetStats(userID uint) (*QuizStats, error) {
	user, err := s.UserRepo.FindByIDWithProgress(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	totalLevels, err := s.LevelRepo.CountActive()
	if err != nil {
		return nil, err
	}

	stats := &QuizStats{
		CurrentLevel:    user.CurrentLevel,
		CompletedLevels: user.CompletedLevels,
		TotalLevels:     int(totalLevels),
		TotalScore:      user.TotalScore,
		TotalTests:      len(user.TestHistory),
	}
	if stats.CompletedLevels == nil {
		stats.CompletedLevels = []model.CompletedLevel{}
	}

	for _, record := range user.TestHistory {
		if record.Passed {
			stats.PassedTests++
		}
	}

	if totalLevels > 0 {
		stats.Progress = int(math.Round(float64(len(user.CompletedLevels)) / float64(totalLevels) * 100))
	}
	if stats.TotalTests > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.PassedTests) / float64(stats.TotalTests) * 100))
	}

	return stats, nil
}

func userLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	return err
}

func levelLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrLevelNotFound
	}
	return err
}
