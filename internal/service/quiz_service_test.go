package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progressUser(currentLevel, totalScore int, completed ...model.CompletedLevel) *model.User {
	u := &model.User{
		CurrentLevel:    currentLevel,
		TotalScore:      totalScore,
		CompletedLevels: completed,
	}
	u.ID = 42
	return u
}

func quizLevel(number, passingScore int) *model.Level {
	l := &model.Level{
		Level:        number,
		PassingScore: passingScore,
	}
	l.ID = uint(number)
	return l
}

func evalWith(score, correct, total int) *EvalResult {
	return &EvalResult{Score: score, CorrectCount: correct, TotalQuestions: total}
}

func activeQuizLevel(number, passingScore int) *model.Level {
	l := quizLevel(number, passingScore)
	l.IsActive = true
	return l
}

// 开始和提交共用同一个准入检查，锁定关卡在评分前就被拒绝
func TestLevelAccess(t *testing.T) {
	user := progressUser(3, 0)

	t.Run("level above frontier is locked", func(t *testing.T) {
		err := levelAccess(user, activeQuizLevel(4, 70))
		assert.ErrorIs(t, err, util.ErrLevelLocked)
	})

	t.Run("frontier level is reachable", func(t *testing.T) {
		assert.NoError(t, levelAccess(user, activeQuizLevel(3, 70)))
	})

	t.Run("completed level stays reachable", func(t *testing.T) {
		assert.NoError(t, levelAccess(user, activeQuizLevel(1, 70)))
	})

	t.Run("inactive level is rejected", func(t *testing.T) {
		err := levelAccess(user, quizLevel(2, 70))
		assert.ErrorIs(t, err, util.ErrLevelInactive)
	})
}

// 题目全部停用的关卡不允许开始测验
func TestNewQuizStartRejectsEmptyQuestionSet(t *testing.T) {
	_, err := newQuizStart(activeQuizLevel(1, 70), nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestNewQuizStartStripsAnswers(t *testing.T) {
	questions := []model.Question{
		cleanQuestion(1),
		dirtyQuestion(2, model.ReasonWeaponParts),
	}

	start, err := newQuizStart(activeQuizLevel(1, 70), questions)
	require.NoError(t, err)

	assert.Equal(t, 2, start.TotalQuestions)
	require.Len(t, start.Questions, 2)
	assert.Equal(t, uint(1), start.Questions[0].ID)
	assert.Equal(t, uint(2), start.Questions[1].ID)
}

func TestSubmissionPassAtFrontierAdvances(t *testing.T) {
	user := progressUser(3, 200)
	level := quizLevel(3, 70)
	now := time.Now()

	upd, unlocked := buildSubmissionUpdate(user, level, evalWith(80, 8, 10), 120, now)

	assert.True(t, unlocked)
	assert.Equal(t, 4, upd.CurrentLevel)
	assert.Equal(t, 280, upd.TotalScore)
	assert.True(t, upd.Record.Passed)
	assert.Equal(t, 3, upd.Record.Level)
	assert.Equal(t, 120, upd.Record.TimeSpent)
	assert.NotEmpty(t, upd.Record.SessionID)

	require.NotNil(t, upd.Completed)
	assert.Equal(t, 3, upd.Completed.Level)
	assert.Equal(t, 80, upd.Completed.BestScore)
}

// 失败不推进前沿，但历史和总分照常记录
func TestSubmissionFailDoesNotAdvance(t *testing.T) {
	user := progressUser(3, 200)
	level := quizLevel(3, 70)

	upd, unlocked := buildSubmissionUpdate(user, level, evalWith(50, 5, 10), 60, time.Now())

	assert.False(t, unlocked)
	assert.Equal(t, 3, upd.CurrentLevel)
	assert.Equal(t, 250, upd.TotalScore)
	assert.False(t, upd.Record.Passed)

	// 首次作答该关卡，最高分仍然落库
	require.NotNil(t, upd.Completed)
	assert.Equal(t, 50, upd.Completed.BestScore)
}

// 重考已通过的旧关卡不会移动前沿
func TestSubmissionRetakeOldLevelKeepsFrontier(t *testing.T) {
	done := model.CompletedLevel{Level: 2, BestScore: 75}
	done.ID = 11
	user := progressUser(5, 400, done)
	level := quizLevel(2, 70)

	upd, unlocked := buildSubmissionUpdate(user, level, evalWith(90, 9, 10), 60, time.Now())

	assert.False(t, unlocked)
	assert.Equal(t, 5, upd.CurrentLevel)
}

func TestSubmissionBestScoreOnlyImproves(t *testing.T) {
	done := model.CompletedLevel{Level: 2, BestScore: 75}
	done.ID = 11
	now := time.Now()

	t.Run("higher score replaces", func(t *testing.T) {
		user := progressUser(5, 400, done)
		upd, _ := buildSubmissionUpdate(user, quizLevel(2, 70), evalWith(90, 9, 10), 60, now)

		require.NotNil(t, upd.Completed)
		assert.Equal(t, uint(11), upd.Completed.ID)
		assert.Equal(t, 90, upd.Completed.BestScore)
	})

	t.Run("equal score keeps existing", func(t *testing.T) {
		user := progressUser(5, 400, done)
		upd, _ := buildSubmissionUpdate(user, quizLevel(2, 70), evalWith(75, 7, 10), 60, now)
		assert.Nil(t, upd.Completed)
	})

	t.Run("lower score keeps existing", func(t *testing.T) {
		user := progressUser(5, 400, done)
		upd, _ := buildSubmissionUpdate(user, quizLevel(2, 70), evalWith(40, 4, 10), 60, now)
		assert.Nil(t, upd.Completed)
	})
}

// 分数正好等于及格线算通过
func TestSubmissionExactPassingScore(t *testing.T) {
	user := progressUser(1, 0)
	upd, unlocked := buildSubmissionUpdate(user, quizLevel(1, 70), evalWith(70, 7, 10), 60, time.Now())

	assert.True(t, upd.Record.Passed)
	assert.True(t, unlocked)
	assert.Equal(t, 2, upd.CurrentLevel)
}

// 通过比前沿低的关卡（之前失败过但已解锁更高关卡的场景不存在，
// 但管理员调关卡顺序后可能出现），不允许把前沿往回拉
func TestSubmissionPassBelowFrontierDoesNotRegress(t *testing.T) {
	user := progressUser(8, 900)
	upd, unlocked := buildSubmissionUpdate(user, quizLevel(4, 70), evalWith(100, 10, 10), 60, time.Now())

	assert.False(t, unlocked)
	assert.Equal(t, 8, upd.CurrentLevel)
}
