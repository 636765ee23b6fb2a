package service

import (
	"baggage_quiz_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 缺省字段保持原值，解释文本不会被空请求抹掉
func TestApplyQuestionFieldsKeepsOmittedFields(t *testing.T) {
	question := dirtyQuestion(1, model.ReasonSharpObjects)
	question.Explanation = "Bavulda makas var"
	question.Points = 20

	applyQuestionFields(&question, QuestionRequest{
		Text: "Bu bavulu tekrar inceleyin",
	})

	assert.Equal(t, "Bu bavulu tekrar inceleyin", question.Text)
	assert.Equal(t, "Bavulda makas var", question.Explanation)
	assert.Equal(t, 20, question.Points)
	assert.Equal(t, model.ReasonSharpObjects, question.DirtyReason)
}

func TestApplyQuestionFieldsOverridesExplanation(t *testing.T) {
	question := cleanQuestion(1)
	question.Explanation = "eski açıklama"

	applyQuestionFields(&question, QuestionRequest{Explanation: "yeni açıklama"})

	assert.Equal(t, "yeni açıklama", question.Explanation)
}

// 改回 clean 时脏字段清空
func TestApplyQuestionFieldsCleanClearsDirtyFields(t *testing.T) {
	question := dirtyQuestion(1, model.ReasonWeaponParts)

	applyQuestionFields(&question, QuestionRequest{
		CorrectAnswer: model.AnswerClean,
	})

	assert.Equal(t, model.AnswerClean, question.CorrectAnswer)
	assert.Empty(t, question.DirtyReason)
	assert.Nil(t, question.DirtyOptions)
	assert.NoError(t, question.Validate())
}
