package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanQuestion(id uint) model.Question {
	q := model.Question{
		Text:          "Bu bavul temiz mi?",
		CorrectAnswer: model.AnswerClean,
		Level:         1,
	}
	q.ID = id
	return q
}

func dirtyQuestion(id uint, reason model.DirtyReason) model.Question {
	q := model.Question{
		Text:          "Bu bavulda ne var?",
		CorrectAnswer: model.AnswerDirty,
		DirtyReason:   reason,
		DirtyOptions: model.DirtyOptionList{
			{Value: reason, Label: string(reason)},
			{Value: model.ReasonGasBomb, Label: "gas bomb"},
		},
		Level: 1,
	}
	q.ID = id
	return q
}

func TestEvaluateAnswersAllCorrect(t *testing.T) {
	questions := []model.Question{
		cleanQuestion(1),
		dirtyQuestion(2, model.ReasonWeaponParts),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: model.AnswerClean},
		{QuestionID: 2, Answer: model.AnswerDirty, DirtyReason: model.ReasonWeaponParts},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 100, result.Score)
	for _, qr := range result.Results {
		assert.True(t, qr.IsCorrect)
		require.NotNil(t, qr.UserAnswer)
	}
}

func TestEvaluateAnswersAllWrong(t *testing.T) {
	questions := []model.Question{
		cleanQuestion(1),
		dirtyQuestion(2, model.ReasonWeaponParts),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: model.AnswerDirty, DirtyReason: model.ReasonGasBomb},
		{QuestionID: 2, Answer: model.AnswerClean},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 0, result.Score)
}

// dirty 判定要求原因完全一致，答对 dirty 但原因错不给分
func TestEvaluateAnswersDirtyReasonMismatch(t *testing.T) {
	questions := []model.Question{dirtyQuestion(7, model.ReasonExplosiveDevice)}
	answers := []AnswerSubmission{
		{QuestionID: 7, Answer: model.AnswerDirty, DirtyReason: model.ReasonSharpObjects},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectCount)
	assert.False(t, result.Results[0].IsCorrect)
}

// clean 题只看顶层答案，多余的 dirtyReason 不影响判定
func TestEvaluateAnswersCleanIgnoresReason(t *testing.T) {
	questions := []model.Question{cleanQuestion(3)}
	answers := []AnswerSubmission{
		{QuestionID: 3, Answer: model.AnswerClean, DirtyReason: model.ReasonGasBomb},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
}

// 缺答计错，不从分母剔除
func TestEvaluateAnswersMissingAnswersCountWrong(t *testing.T) {
	questions := []model.Question{
		cleanQuestion(1),
		cleanQuestion(2),
		cleanQuestion(3),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: model.AnswerClean},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 33, result.Score)

	var unanswered int
	for _, qr := range result.Results {
		if qr.UserAnswer == nil {
			unanswered++
			assert.False(t, qr.IsCorrect)
		}
	}
	assert.Equal(t, 2, unanswered)
}

func TestEvaluateAnswersRounding(t *testing.T) {
	questions := []model.Question{
		cleanQuestion(1),
		cleanQuestion(2),
		cleanQuestion(3),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: model.AnswerClean},
		{QuestionID: 2, Answer: model.AnswerClean},
		{QuestionID: 3, Answer: model.AnswerDirty},
	}

	result, err := EvaluateAnswers(questions, answers)
	require.NoError(t, err)

	// 2/3 = 66.67 四舍五入 67
	assert.Equal(t, 67, result.Score)
}

func TestEvaluateAnswersUnknownQuestionID(t *testing.T) {
	questions := []model.Question{cleanQuestion(1)}
	answers := []AnswerSubmission{
		{QuestionID: 99, Answer: model.AnswerClean},
	}

	_, err := EvaluateAnswers(questions, answers)
	assert.ErrorIs(t, err, util.ErrUnknownQuestionID)
}

func TestEvaluateAnswersDuplicateAnswer(t *testing.T) {
	questions := []model.Question{cleanQuestion(1)}
	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: model.AnswerClean},
		{QuestionID: 1, Answer: model.AnswerDirty},
	}

	_, err := EvaluateAnswers(questions, answers)
	assert.ErrorIs(t, err, util.ErrDuplicateAnswer)
}

func TestEvaluateAnswersEmptyQuestionSet(t *testing.T) {
	_, err := EvaluateAnswers(nil, nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}
